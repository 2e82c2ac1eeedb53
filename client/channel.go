package client

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	amqperrors "github.com/maxpert/amqp-client-go/errors"
	"github.com/maxpert/amqp-client-go/protocol"
)

// ChannelState represents the lifecycle state of a channel
type ChannelState int32

const (
	ChannelOpening ChannelState = iota
	ChannelOpen
	ChannelClosed
)

// String returns a string representation of the channel state
func (s ChannelState) String() string {
	switch s {
	case ChannelOpening:
		return "opening"
	case ChannelOpen:
		return "open"
	case ChannelClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// rpcTimeout bounds every request/reply method pair
const rpcTimeout = 10 * time.Second

// Channel is one multiplexed stream within a connection. Exchange, queue
// and consumer lifetimes are coordinated with the server through
// request/reply method pairs on it.
type Channel struct {
	conn  *Connection
	id    uint16
	log   *zap.Logger
	state atomic.Int32

	mu      sync.Mutex
	replyCh chan protocol.Method

	consumers   map[string]*Consumer
	consumerSeq uint64

	// recorded declarations, replayed by restore after a reconnect
	exchanges []exchangeRecord
	queues    []queueRecord
	bindings  []bindingRecord
	qos       *protocol.BasicQosMethod
	confirm   bool
	tx        bool

	// inbound content assembly
	pendingDeliver *protocol.BasicDeliverMethod
	pendingHeader  *protocol.ContentHeader
	pendingBody    []byte
}

type exchangeRecord struct {
	name string
	opts ExchangeOptions
}

type queueRecord struct {
	name string
	opts QueueOptions
}

type bindingRecord struct {
	queue      string
	exchange   string
	routingKey string
	args       protocol.Table
}

func newChannel(conn *Connection, id uint16, log *zap.Logger) *Channel {
	ch := &Channel{
		conn:      conn,
		id:        id,
		log:       log,
		replyCh:   make(chan protocol.Method, 1),
		consumers: make(map[string]*Consumer),
	}
	ch.state.Store(int32(ChannelOpening))
	return ch
}

// ID returns the channel number
func (ch *Channel) ID() uint16 {
	return ch.id
}

// State returns the channel lifecycle state
func (ch *Channel) State() ChannelState {
	return ChannelState(ch.state.Load())
}

// open performs the channel.open handshake
func (ch *Channel) open() error {
	ch.state.Store(int32(ChannelOpening))
	reply, err := ch.call(&protocol.ChannelOpenMethod{})
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.ChannelOpenOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "channel opening")
	}
	ch.state.Store(int32(ChannelOpen))
	return nil
}

// call sends a method and waits for the next reply method on this channel
func (ch *Channel) call(request protocol.Method) (protocol.Method, error) {
	if err := ch.conn.sendMethod(ch.id, request); err != nil {
		return nil, err
	}
	select {
	case reply := <-ch.replyCh:
		return reply, nil
	case <-time.After(rpcTimeout):
		return nil, fmt.Errorf("timed out waiting for reply to %s on channel %d", request.Name(), ch.id)
	}
}

// send fires a method without waiting for a reply
func (ch *Channel) send(method protocol.Method) error {
	return ch.conn.sendMethod(ch.id, method)
}

// OnChannelMethod implements channelHandler; runs on the read loop
func (ch *Channel) OnChannelMethod(method protocol.Method) {
	switch m := method.(type) {
	case *protocol.BasicDeliverMethod:
		ch.beginDelivery(m)
	case *protocol.BasicReturnMethod:
		ch.log.Warn("message returned by broker",
			zap.Uint16("reply_code", m.ReplyCode),
			zap.String("reply_text", m.ReplyText),
			zap.String("exchange", m.Exchange),
			zap.String("routing_key", m.RoutingKey))
		ch.resetAssembly()
	case *protocol.BasicCancelMethod:
		// server-initiated consumer cancel (e.g. queue deleted)
		ch.log.Warn("consumer cancelled by broker", zap.String("consumer_tag", m.ConsumerTag))
		ch.mu.Lock()
		delete(ch.consumers, m.ConsumerTag)
		ch.mu.Unlock()
		if !m.NoWait {
			_ = ch.send(&protocol.BasicCancelOKMethod{ConsumerTag: m.ConsumerTag})
		}
	case *protocol.ChannelCloseMethod:
		ch.log.Warn("channel closed by broker",
			zap.Uint16("reply_code", m.ReplyCode),
			zap.String("reply_text", m.ReplyText))
		_ = ch.send(&protocol.ChannelCloseOKMethod{})
		ch.markClosed()
		ch.conn.releaseChannelID(ch.id)
		ch.conn.collector.ChannelClosed()
	case *protocol.BasicAckMethod, *protocol.BasicNackMethod:
		// publisher confirms; surfaced via the reply channel when a
		// caller is waiting, logged otherwise
		ch.deliverReply(method)
	default:
		ch.deliverReply(method)
	}
}

// deliverReply hands a reply method to a waiting rpc call
func (ch *Channel) deliverReply(method protocol.Method) {
	select {
	case ch.replyCh <- method:
	default:
		ch.log.Debug("unexpected reply with no caller waiting", zap.String("method", method.Name()))
	}
}

// OnChannelContentHeader implements channelHandler
func (ch *Channel) OnChannelContentHeader(header *protocol.ContentHeader) {
	ch.pendingHeader = header
	ch.pendingBody = ch.pendingBody[:0]
	if header.BodySize == 0 {
		ch.completeDelivery()
	}
}

// OnChannelContent implements channelHandler
func (ch *Channel) OnChannelContent(payload []byte) {
	if ch.pendingHeader == nil {
		ch.log.Debug("dropping body frame with no pending header")
		return
	}
	ch.pendingBody = append(ch.pendingBody, payload...)
	if uint64(len(ch.pendingBody)) >= ch.pendingHeader.BodySize {
		ch.completeDelivery()
	}
}

// beginDelivery starts assembling a pushed message
func (ch *Channel) beginDelivery(m *protocol.BasicDeliverMethod) {
	ch.pendingDeliver = m
	ch.pendingHeader = nil
	ch.pendingBody = nil
}

// completeDelivery hands the assembled message to its consumer
func (ch *Channel) completeDelivery() {
	deliver := ch.pendingDeliver
	header := ch.pendingHeader
	body := ch.pendingBody
	ch.resetAssembly()

	if deliver == nil || header == nil {
		return
	}

	ch.mu.Lock()
	consumer := ch.consumers[deliver.ConsumerTag]
	ch.mu.Unlock()
	if consumer == nil {
		ch.log.Debug("dropping delivery for unknown consumer", zap.String("consumer_tag", deliver.ConsumerTag))
		return
	}

	ch.conn.collector.MessageDelivered(len(body))
	consumer.handler(Delivery{
		ch:          ch,
		ConsumerTag: deliver.ConsumerTag,
		DeliveryTag: deliver.DeliveryTag,
		Redelivered: deliver.Redelivered,
		Exchange:    deliver.Exchange,
		RoutingKey:  deliver.RoutingKey,
		Properties:  header.Properties,
		Body:        body,
	})
}

func (ch *Channel) resetAssembly() {
	ch.pendingDeliver = nil
	ch.pendingHeader = nil
	ch.pendingBody = nil
}

// markClosed implements channelHandler: the channel and its consumers are
// flagged dead so restore resubscribes them. The channel slot is kept so
// the reconnect can find the handler.
func (ch *Channel) markClosed() {
	ch.state.Store(int32(ChannelClosed))
	ch.mu.Lock()
	for _, consumer := range ch.consumers {
		consumer.state.Store(int32(ConsumerClosed))
	}
	ch.mu.Unlock()
	ch.resetAssembly()
}

// restore implements channelHandler: after a reconnect reached ready, the
// channel reopens, replays its recorded declarations and resubscribes
// every consumer that was marked closed during teardown.
func (ch *Channel) restore() error {
	if ch.State() != ChannelClosed {
		return nil
	}

	ch.log.Info("restoring channel")
	if err := ch.open(); err != nil {
		return fmt.Errorf("reopen channel %d: %w", ch.id, err)
	}

	ch.mu.Lock()
	exchanges := append([]exchangeRecord(nil), ch.exchanges...)
	queues := append([]queueRecord(nil), ch.queues...)
	bindings := append([]bindingRecord(nil), ch.bindings...)
	qos := ch.qos
	confirm := ch.confirm
	tx := ch.tx
	consumers := make([]*Consumer, 0, len(ch.consumers))
	for _, consumer := range ch.consumers {
		consumers = append(consumers, consumer)
	}
	ch.mu.Unlock()

	for _, record := range exchanges {
		if err := ch.exchangeDeclare(record.name, record.opts, false); err != nil {
			return err
		}
	}
	for _, record := range queues {
		if _, err := ch.queueDeclare(record.name, record.opts, false); err != nil {
			return err
		}
	}
	for _, record := range bindings {
		if err := ch.queueBind(record.queue, record.exchange, record.routingKey, record.args, false); err != nil {
			return err
		}
	}
	if qos != nil {
		if err := ch.qosApply(qos); err != nil {
			return err
		}
	}
	if confirm {
		if err := ch.confirmSelect(); err != nil {
			return err
		}
	}
	if tx {
		if err := ch.txSelect(); err != nil {
			return err
		}
	}

	for _, consumer := range consumers {
		if ConsumerState(consumer.state.Load()) != ConsumerClosed {
			continue
		}
		if err := ch.resubscribe(consumer); err != nil {
			return err
		}
	}
	return nil
}

// Close performs the channel.close handshake and releases the channel id
func (ch *Channel) Close() error {
	if ch.State() == ChannelClosed {
		ch.conn.releaseChannelID(ch.id)
		return nil
	}

	closeMethod := &protocol.ChannelCloseMethod{
		ReplyCode: protocol.ReplySuccess,
		ReplyText: "client closed channel",
	}
	reply, err := ch.call(closeMethod)
	if err == nil {
		if _, ok := reply.(*protocol.ChannelCloseOKMethod); !ok {
			ch.log.Debug("unexpected reply to channel.close", zap.String("method", reply.Name()))
		}
	}

	ch.state.Store(int32(ChannelClosed))
	ch.conn.releaseChannelID(ch.id)
	ch.conn.collector.ChannelClosed()
	return err
}
