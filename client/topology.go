package client

import (
	"fmt"

	amqperrors "github.com/maxpert/amqp-client-go/errors"
	"github.com/maxpert/amqp-client-go/protocol"
)

// ExchangeOptions configures exchange.declare
type ExchangeOptions struct {
	Type       string
	Passive    bool
	Durable    bool
	AutoDelete bool
	Internal   bool
	NoWait     bool
	Arguments  protocol.Table
}

// QueueOptions configures queue.declare
type QueueOptions struct {
	Passive    bool
	Durable    bool
	Exclusive  bool
	AutoDelete bool
	NoWait     bool
	Arguments  protocol.Table
}

// ConsumeOptions configures basic.consume
type ConsumeOptions struct {
	Tag       string
	NoLocal   bool
	NoAck     bool
	Exclusive bool
	Arguments protocol.Table
}

// PublishOptions configures basic.publish
type PublishOptions struct {
	Mandatory  bool
	Immediate  bool
	Properties *protocol.BasicProperties
}

// ExchangeDeclare declares an exchange and records it for restore
func (ch *Channel) ExchangeDeclare(name string, opts ExchangeOptions) error {
	return ch.exchangeDeclare(name, opts, true)
}

func (ch *Channel) exchangeDeclare(name string, opts ExchangeOptions, record bool) error {
	kind := opts.Type
	if kind == "" {
		kind = "direct"
	}
	method := &protocol.ExchangeDeclareMethod{
		Exchange:   name,
		Type:       kind,
		Passive:    opts.Passive,
		Durable:    opts.Durable,
		AutoDelete: opts.AutoDelete,
		Internal:   opts.Internal,
		NoWait:     opts.NoWait,
		Arguments:  opts.Arguments,
	}

	if opts.NoWait {
		if err := ch.send(method); err != nil {
			return err
		}
	} else {
		reply, err := ch.call(method)
		if err != nil {
			return err
		}
		if _, ok := reply.(*protocol.ExchangeDeclareOKMethod); !ok {
			return amqperrors.NewUncaughtMethod(reply.Name(), "exchange.declare")
		}
	}

	if record {
		ch.mu.Lock()
		ch.exchanges = append(ch.exchanges, exchangeRecord{name: name, opts: opts})
		ch.mu.Unlock()
	}
	return nil
}

// ExchangeDelete deletes an exchange
func (ch *Channel) ExchangeDelete(name string, ifUnused bool) error {
	reply, err := ch.call(&protocol.ExchangeDeleteMethod{Exchange: name, IfUnused: ifUnused})
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.ExchangeDeleteOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "exchange.delete")
	}

	ch.mu.Lock()
	for i, record := range ch.exchanges {
		if record.name == name {
			ch.exchanges = append(ch.exchanges[:i], ch.exchanges[i+1:]...)
			break
		}
	}
	ch.mu.Unlock()
	ch.conn.exchangeClosed(name)
	return nil
}

// QueueDeclare declares a queue and returns the server-assigned name
func (ch *Channel) QueueDeclare(name string, opts QueueOptions) (string, error) {
	return ch.queueDeclare(name, opts, true)
}

func (ch *Channel) queueDeclare(name string, opts QueueOptions, record bool) (string, error) {
	method := &protocol.QueueDeclareMethod{
		Queue:      name,
		Passive:    opts.Passive,
		Durable:    opts.Durable,
		Exclusive:  opts.Exclusive,
		AutoDelete: opts.AutoDelete,
		NoWait:     opts.NoWait,
		Arguments:  opts.Arguments,
	}

	declared := name
	if opts.NoWait {
		if err := ch.send(method); err != nil {
			return "", err
		}
	} else {
		reply, err := ch.call(method)
		if err != nil {
			return "", err
		}
		ok, isOK := reply.(*protocol.QueueDeclareOKMethod)
		if !isOK {
			return "", amqperrors.NewUncaughtMethod(reply.Name(), "queue.declare")
		}
		declared = ok.Queue
	}

	if record {
		ch.mu.Lock()
		ch.queues = append(ch.queues, queueRecord{name: declared, opts: opts})
		ch.mu.Unlock()
	}
	return declared, nil
}

// QueueBind binds a queue to an exchange and records the binding
func (ch *Channel) QueueBind(queue, exchange, routingKey string, args protocol.Table) error {
	return ch.queueBind(queue, exchange, routingKey, args, true)
}

func (ch *Channel) queueBind(queue, exchange, routingKey string, args protocol.Table, record bool) error {
	reply, err := ch.call(&protocol.QueueBindMethod{
		Queue:      queue,
		Exchange:   exchange,
		RoutingKey: routingKey,
		Arguments:  args,
	})
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.QueueBindOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "queue.bind")
	}

	if record {
		ch.mu.Lock()
		ch.bindings = append(ch.bindings, bindingRecord{queue: queue, exchange: exchange, routingKey: routingKey, args: args})
		ch.mu.Unlock()
	}
	return nil
}

// QueueUnbind removes a binding
func (ch *Channel) QueueUnbind(queue, exchange, routingKey string, args protocol.Table) error {
	reply, err := ch.call(&protocol.QueueUnbindMethod{
		Queue:      queue,
		Exchange:   exchange,
		RoutingKey: routingKey,
		Arguments:  args,
	})
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.QueueUnbindOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "queue.unbind")
	}

	ch.mu.Lock()
	for i, record := range ch.bindings {
		if record.queue == queue && record.exchange == exchange && record.routingKey == routingKey {
			ch.bindings = append(ch.bindings[:i], ch.bindings[i+1:]...)
			break
		}
	}
	ch.mu.Unlock()
	return nil
}

// QueuePurge discards the messages of a queue, returning how many
func (ch *Channel) QueuePurge(queue string) (uint32, error) {
	reply, err := ch.call(&protocol.QueuePurgeMethod{Queue: queue})
	if err != nil {
		return 0, err
	}
	ok, isOK := reply.(*protocol.QueuePurgeOKMethod)
	if !isOK {
		return 0, amqperrors.NewUncaughtMethod(reply.Name(), "queue.purge")
	}
	return ok.MessageCount, nil
}

// QueueDelete deletes a queue, returning how many messages it held
func (ch *Channel) QueueDelete(queue string, ifUnused, ifEmpty bool) (uint32, error) {
	reply, err := ch.call(&protocol.QueueDeleteMethod{Queue: queue, IfUnused: ifUnused, IfEmpty: ifEmpty})
	if err != nil {
		return 0, err
	}
	ok, isOK := reply.(*protocol.QueueDeleteOKMethod)
	if !isOK {
		return 0, amqperrors.NewUncaughtMethod(reply.Name(), "queue.delete")
	}

	ch.mu.Lock()
	for i, record := range ch.queues {
		if record.name == queue {
			ch.queues = append(ch.queues[:i], ch.queues[i+1:]...)
			break
		}
	}
	ch.mu.Unlock()
	ch.conn.queueClosed(queue)
	return ok.MessageCount, nil
}

// Qos sets the prefetch window for this channel
func (ch *Channel) Qos(prefetchCount uint16, prefetchSize uint32, global bool) error {
	method := &protocol.BasicQosMethod{
		PrefetchSize:  prefetchSize,
		PrefetchCount: prefetchCount,
		Global:        global,
	}
	if err := ch.qosApply(method); err != nil {
		return err
	}
	ch.mu.Lock()
	ch.qos = method
	ch.mu.Unlock()
	return nil
}

func (ch *Channel) qosApply(method *protocol.BasicQosMethod) error {
	reply, err := ch.call(method)
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.BasicQosOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "basic.qos")
	}
	return nil
}

// ConfirmSelect puts the channel into publisher-confirm mode
func (ch *Channel) ConfirmSelect() error {
	if err := ch.confirmSelect(); err != nil {
		return err
	}
	ch.mu.Lock()
	ch.confirm = true
	ch.mu.Unlock()
	return nil
}

func (ch *Channel) confirmSelect() error {
	reply, err := ch.call(&protocol.ConfirmSelectMethod{})
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.ConfirmSelectOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "confirm.select")
	}
	return nil
}

// TxSelect puts the channel into transactional mode
func (ch *Channel) TxSelect() error {
	if err := ch.txSelect(); err != nil {
		return err
	}
	ch.mu.Lock()
	ch.tx = true
	ch.mu.Unlock()
	return nil
}

func (ch *Channel) txSelect() error {
	reply, err := ch.call(&protocol.TxSelectMethod{})
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.TxSelectOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "tx.select")
	}
	return nil
}

// TxCommit commits the pending transaction
func (ch *Channel) TxCommit() error {
	reply, err := ch.call(&protocol.TxCommitMethod{})
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.TxCommitOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "tx.commit")
	}
	return nil
}

// TxRollback rolls back the pending transaction
func (ch *Channel) TxRollback() error {
	reply, err := ch.call(&protocol.TxRollbackMethod{})
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.TxRollbackOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "tx.rollback")
	}
	return nil
}

// Publish emits a message as one method frame, one content header and as
// many body frames as the negotiated frame max requires, contiguously.
func (ch *Channel) Publish(exchange, routingKey string, body interface{}, opts PublishOptions) error {
	if ch.State() != ChannelOpen {
		return fmt.Errorf("publish on %s channel %d", ch.State(), ch.id)
	}

	encoded, contentType, err := encodeBody(body)
	if err != nil {
		return err
	}

	props := opts.Properties
	if contentType != "" {
		if props == nil {
			props = &protocol.BasicProperties{}
		}
		if props.ContentType == "" {
			props.ContentType = contentType
		}
	}

	method := &protocol.BasicPublishMethod{
		Exchange:   exchange,
		RoutingKey: routingKey,
		Mandatory:  opts.Mandatory,
		Immediate:  opts.Immediate,
	}
	methodFrame, err := protocol.EncodeMethodFrame(ch.id, method)
	if err != nil {
		return err
	}

	headerFrame, err := protocol.NewHeaderFrame(ch.id, protocol.NewContentHeader(uint64(len(encoded)), props))
	if err != nil {
		return err
	}

	frameMax := ch.conn.FrameMax()
	if frameMax == 0 {
		frameMax = protocol.FrameMinSize
	}
	frames := append([]*protocol.Frame{methodFrame, headerFrame}, protocol.SplitBody(ch.id, encoded, frameMax)...)

	if err := ch.conn.sendFrames(frames...); err != nil {
		return err
	}
	ch.conn.collector.MessagePublished(len(encoded))
	return nil
}

// Ack acknowledges a delivery
func (ch *Channel) Ack(deliveryTag uint64, multiple bool) error {
	return ch.send(&protocol.BasicAckMethod{DeliveryTag: deliveryTag, Multiple: multiple})
}

// Nack negatively acknowledges a delivery
func (ch *Channel) Nack(deliveryTag uint64, multiple, requeue bool) error {
	return ch.send(&protocol.BasicNackMethod{DeliveryTag: deliveryTag, Multiple: multiple, Requeue: requeue})
}

// Reject rejects a single delivery
func (ch *Channel) Reject(deliveryTag uint64, requeue bool) error {
	return ch.send(&protocol.BasicRejectMethod{DeliveryTag: deliveryTag, Requeue: requeue})
}

// Recover asks the server to redeliver unacknowledged messages
func (ch *Channel) Recover(requeue bool) error {
	reply, err := ch.call(&protocol.BasicRecoverMethod{Requeue: requeue})
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.BasicRecoverOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "basic.recover")
	}
	return nil
}
