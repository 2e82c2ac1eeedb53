package client

import (
	"math/rand"

	"go.uber.org/zap"

	amqperrors "github.com/maxpert/amqp-client-go/errors"
	"github.com/maxpert/amqp-client-go/protocol"
)

// channelHandler is what the multiplexer dispatches inbound frames to.
// Channel 0 belongs to the connection itself and never appears in the
// table.
type channelHandler interface {
	OnChannelMethod(method protocol.Method)
	OnChannelContentHeader(header *protocol.ContentHeader)
	OnChannelContent(payload []byte)

	// markClosed flags the handler dead during teardown so its consumers
	// are resubscribed on the next restore
	markClosed()
	// restore re-opens the channel and resubscribes its consumers after
	// a reconnect
	restore() error
}

// initialHostIndex picks the first host to try: the clamped preference
// when one is configured, a random index otherwise.
func initialHostIndex(hosts []string, preference int) int {
	if preference >= 0 {
		if preference > len(hosts)-1 {
			return len(hosts) - 1
		}
		return preference
	}
	return rand.Intn(len(hosts))
}

// allocateChannelID scans for a free channel id starting just past the
// last allocation, wrapping through 1..channelMax. A full cycle without a
// free slot fails. Caller holds c.mu.
func (c *Connection) allocateChannelID() (uint16, error) {
	channelMax := c.channelMax
	if channelMax == 0 {
		channelMax = 65535
	}

	for i := uint32(0); i < uint32(channelMax); i++ {
		id := uint16((uint32(c.channelCounter)+i)%uint32(channelMax)) + 1
		if !c.usedIDs.Contains(uint32(id)) {
			c.usedIDs.Add(uint32(id))
			c.channelCounter = id
			return id, nil
		}
	}
	return 0, amqperrors.NewNoChannelsAvailable(channelMax)
}

// releaseChannelID frees a channel slot once its handler is closed
func (c *Connection) releaseChannelID(id uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usedIDs.Remove(uint32(id))
	delete(c.channels, id)
}

// handlerFor looks up the handler for a channel number
func (c *Connection) handlerFor(channel uint16) channelHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channels[channel]
}

// Channel allocates a fresh channel id and opens the channel on the wire
func (c *Connection) Channel() (*Channel, error) {
	c.mu.Lock()
	if c.state != StateReady {
		state := c.state
		c.mu.Unlock()
		return nil, amqperrors.NewUncaughtMethod("channel.open", state.String())
	}
	id, err := c.allocateChannelID()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	ch := newChannel(c, id, c.log.With(zap.Uint16("channel", id)))
	// register before opening so the open-ok reply can be dispatched
	c.channels[id] = ch
	c.mu.Unlock()

	if err := ch.open(); err != nil {
		c.releaseChannelID(id)
		return nil, err
	}
	c.collector.ChannelOpened()
	return ch, nil
}

// Exchange allocates a channel and declares an exchange on it, reusing
// the existing handle when the name was seen before.
func (c *Connection) Exchange(name string, opts ExchangeOptions) (*Exchange, error) {
	c.mu.Lock()
	if existing, ok := c.exchanges[name]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.mu.Unlock()

	ch, err := c.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(name, opts); err != nil {
		ch.Close()
		return nil, err
	}

	exchange := &Exchange{conn: c, ch: ch, name: name, opts: opts}
	c.mu.Lock()
	c.exchanges[name] = exchange
	c.mu.Unlock()
	return exchange, nil
}

// Queue allocates a channel and declares a queue on it, reusing the
// existing handle when the name was seen before.
func (c *Connection) Queue(name string, opts QueueOptions) (*Queue, error) {
	c.mu.Lock()
	if existing, ok := c.queues[name]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.mu.Unlock()

	ch, err := c.Channel()
	if err != nil {
		return nil, err
	}
	declared, err := ch.QueueDeclare(name, opts)
	if err != nil {
		ch.Close()
		return nil, err
	}

	queue := &Queue{conn: c, ch: ch, name: declared, opts: opts}
	c.mu.Lock()
	c.queues[declared] = queue
	c.mu.Unlock()
	return queue, nil
}

// Publish sends a message through the default exchange, creating it
// lazily on first use.
func (c *Connection) Publish(routingKey string, body interface{}, opts PublishOptions) error {
	c.mu.Lock()
	exchange := c.defaultExchange
	c.mu.Unlock()

	if exchange == nil {
		name := c.cfg.Impl.DefaultExchangeName
		var err error
		if name == "" {
			// the nameless direct exchange always exists, no declare
			ch, chErr := c.Channel()
			if chErr != nil {
				return chErr
			}
			exchange = &Exchange{conn: c, ch: ch, name: ""}
		} else {
			exchange, err = c.Exchange(name, ExchangeOptions{Type: "direct", Durable: true})
			if err != nil {
				return err
			}
		}
		c.mu.Lock()
		c.defaultExchange = exchange
		c.mu.Unlock()
	}

	return exchange.Publish(routingKey, body, opts)
}

// exchangeClosed drops a named exchange handle from the lookup table
func (c *Connection) exchangeClosed(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.exchanges, name)
	if c.defaultExchange != nil && c.defaultExchange.name == name {
		c.defaultExchange = nil
	}
}

// queueClosed drops a named queue handle from the lookup table
func (c *Connection) queueClosed(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.queues, name)
}
