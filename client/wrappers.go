package client

import (
	"github.com/maxpert/amqp-client-go/protocol"
)

// Exchange is a named exchange bound to its own channel
type Exchange struct {
	conn *Connection
	ch   *Channel
	name string
	opts ExchangeOptions
}

// Name returns the exchange name; empty for the nameless default exchange
func (e *Exchange) Name() string {
	return e.name
}

// Channel exposes the channel carrying this exchange's traffic
func (e *Exchange) Channel() *Channel {
	return e.ch
}

// Publish sends a message through this exchange
func (e *Exchange) Publish(routingKey string, body interface{}, opts PublishOptions) error {
	return e.ch.Publish(e.name, routingKey, body, opts)
}

// Delete removes the exchange from the broker and releases its channel
func (e *Exchange) Delete(ifUnused bool) error {
	if err := e.ch.ExchangeDelete(e.name, ifUnused); err != nil {
		return err
	}
	return e.ch.Close()
}

// Close releases the exchange handle and its channel without touching the
// broker-side exchange
func (e *Exchange) Close() error {
	e.conn.exchangeClosed(e.name)
	return e.ch.Close()
}

// Queue is a named queue bound to its own channel
type Queue struct {
	conn *Connection
	ch   *Channel
	name string
	opts QueueOptions
}

// Name returns the queue name, including a server-assigned one
func (q *Queue) Name() string {
	return q.name
}

// Channel exposes the channel carrying this queue's traffic
func (q *Queue) Channel() *Channel {
	return q.ch
}

// Bind binds the queue to an exchange
func (q *Queue) Bind(exchange, routingKey string, args protocol.Table) error {
	return q.ch.QueueBind(q.name, exchange, routingKey, args)
}

// Unbind removes a binding
func (q *Queue) Unbind(exchange, routingKey string, args protocol.Table) error {
	return q.ch.QueueUnbind(q.name, exchange, routingKey, args)
}

// Consume subscribes a handler to the queue
func (q *Queue) Consume(opts ConsumeOptions, handler DeliveryHandler) (*Consumer, error) {
	return q.ch.Consume(q.name, opts, handler)
}

// Purge discards the queue's messages
func (q *Queue) Purge() (uint32, error) {
	return q.ch.QueuePurge(q.name)
}

// Delete removes the queue from the broker and releases its channel
func (q *Queue) Delete(ifUnused, ifEmpty bool) error {
	if _, err := q.ch.QueueDelete(q.name, ifUnused, ifEmpty); err != nil {
		return err
	}
	return q.ch.Close()
}

// Close releases the queue handle and its channel without deleting the
// broker-side queue
func (q *Queue) Close() error {
	q.conn.queueClosed(q.name)
	return q.ch.Close()
}
