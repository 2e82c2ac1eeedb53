package client

import (
	"fmt"
	"sync/atomic"

	amqperrors "github.com/maxpert/amqp-client-go/errors"
	"github.com/maxpert/amqp-client-go/protocol"
)

// ConsumerState tracks whether a consumer subscription is live
type ConsumerState int32

const (
	ConsumerActive ConsumerState = iota
	ConsumerClosed
)

// Delivery is one message pushed to a consumer
type Delivery struct {
	ch *Channel

	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
	Properties  protocol.BasicProperties
	Body        []byte
}

// Ack acknowledges this delivery
func (d *Delivery) Ack(multiple bool) error {
	return d.ch.Ack(d.DeliveryTag, multiple)
}

// Nack negatively acknowledges this delivery
func (d *Delivery) Nack(multiple, requeue bool) error {
	return d.ch.Nack(d.DeliveryTag, multiple, requeue)
}

// Reject rejects this delivery
func (d *Delivery) Reject(requeue bool) error {
	return d.ch.Reject(d.DeliveryTag, requeue)
}

// DeliveryHandler is invoked for each delivery, on the connection's read
// goroutine. Handlers that block stall the whole connection; hand off to
// a worker for anything slow.
type DeliveryHandler func(Delivery)

// Consumer is a live basic.consume subscription
type Consumer struct {
	ch      *Channel
	handler DeliveryHandler
	state   atomic.Int32

	Tag   string
	Queue string
	opts  ConsumeOptions
}

// State returns whether the subscription is live
func (c *Consumer) State() ConsumerState {
	return ConsumerState(c.state.Load())
}

// Cancel stops the subscription
func (c *Consumer) Cancel() error {
	return c.ch.Cancel(c.Tag)
}

// Consume starts a subscription on the given queue. When the options leave
// the tag empty, the client generates one of the form ctag-<channel>.<seq>.
func (ch *Channel) Consume(queue string, opts ConsumeOptions, handler DeliveryHandler) (*Consumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("consume requires a delivery handler")
	}

	tag := opts.Tag
	if tag == "" {
		ch.mu.Lock()
		ch.consumerSeq++
		tag = fmt.Sprintf("ctag-%d.%d", ch.id, ch.consumerSeq)
		ch.mu.Unlock()
	}

	consumer := &Consumer{
		ch:      ch,
		handler: handler,
		Tag:     tag,
		Queue:   queue,
		opts:    opts,
	}

	// register before the call so an eager first delivery finds its
	// consumer
	ch.mu.Lock()
	ch.consumers[tag] = consumer
	ch.mu.Unlock()

	if err := ch.subscribe(consumer); err != nil {
		ch.mu.Lock()
		delete(ch.consumers, tag)
		ch.mu.Unlock()
		return nil, err
	}
	return consumer, nil
}

// subscribe performs the basic.consume exchange for a consumer record
func (ch *Channel) subscribe(consumer *Consumer) error {
	method := &protocol.BasicConsumeMethod{
		Queue:       consumer.Queue,
		ConsumerTag: consumer.Tag,
		NoLocal:     consumer.opts.NoLocal,
		NoAck:       consumer.opts.NoAck,
		Exclusive:   consumer.opts.Exclusive,
		Arguments:   consumer.opts.Arguments,
	}
	reply, err := ch.call(method)
	if err != nil {
		return err
	}
	ok, isOK := reply.(*protocol.BasicConsumeOKMethod)
	if !isOK {
		return amqperrors.NewUncaughtMethod(reply.Name(), "basic.consume")
	}
	if ok.ConsumerTag != "" && ok.ConsumerTag != consumer.Tag {
		ch.mu.Lock()
		delete(ch.consumers, consumer.Tag)
		consumer.Tag = ok.ConsumerTag
		ch.consumers[consumer.Tag] = consumer
		ch.mu.Unlock()
	}
	consumer.state.Store(int32(ConsumerActive))
	return nil
}

// resubscribe re-issues basic.consume for a consumer marked closed during
// teardown, keeping its tag stable across reconnects
func (ch *Channel) resubscribe(consumer *Consumer) error {
	ch.log.Info("resubscribing consumer")
	return ch.subscribe(consumer)
}

// Cancel stops the subscription with the given tag
func (ch *Channel) Cancel(tag string) error {
	reply, err := ch.call(&protocol.BasicCancelMethod{ConsumerTag: tag})
	if err != nil {
		return err
	}
	if _, ok := reply.(*protocol.BasicCancelOKMethod); !ok {
		return amqperrors.NewUncaughtMethod(reply.Name(), "basic.cancel")
	}

	ch.mu.Lock()
	delete(ch.consumers, tag)
	ch.mu.Unlock()
	return nil
}
