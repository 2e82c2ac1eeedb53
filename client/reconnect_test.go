package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpert/amqp-client-go/config"
	"github.com/maxpert/amqp-client-go/protocol"
)

// consumeCount counts basic.consume methods the broker saw for a tag
func consumeCount(broker *fakeBroker, tag string) int {
	var count int
	for _, m := range broker.recordedMethods() {
		if consume, ok := m.(*protocol.BasicConsumeMethod); ok && consume.ConsumerTag == tag {
			count++
		}
	}
	return count
}

func TestNextBackoffExponentialSeries(t *testing.T) {
	impl := &config.ImplConfig{
		ReconnectBackoffStrategy:  config.BackoffExponential,
		ReconnectBackoffTime:      1000 * time.Millisecond,
		ReconnectExponentialLimit: 10000 * time.Millisecond,
	}

	var series []time.Duration
	current := time.Duration(0)
	for i := 0; i < 6; i++ {
		current = nextBackoff(current, impl)
		series = append(series, current)
	}

	expected := []time.Duration{
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		4000 * time.Millisecond,
		8000 * time.Millisecond,
		10000 * time.Millisecond,
		10000 * time.Millisecond,
	}
	assert.Equal(t, expected, series)

	// a successful handshake resets the series
	current = 0
	assert.Equal(t, 1000*time.Millisecond, nextBackoff(current, impl))
}

func TestNextBackoffLinearSeries(t *testing.T) {
	impl := &config.ImplConfig{
		ReconnectBackoffStrategy: config.BackoffLinear,
		ReconnectBackoffTime:     500 * time.Millisecond,
	}

	current := nextBackoff(0, impl)
	assert.Equal(t, 500*time.Millisecond, current)
	current = nextBackoff(current, impl)
	assert.Equal(t, 500*time.Millisecond, current)
	current = nextBackoff(current, impl)
	assert.Equal(t, 500*time.Millisecond, current)
}

func TestReconnectRestoresChannelsAndConsumers(t *testing.T) {
	broker := newFakeBroker(t)
	broker.run()

	cfg, err := config.NewConfigBuilder().
		WithHost("127.0.0.1").
		WithPort(broker.port()).
		WithConnectionTimeout(2 * time.Second).
		WithReconnect(true).
		WithLinearBackoff(50 * time.Millisecond).
		Build()
	require.NoError(t, err)

	conn, err := NewConnection(cfg)
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))
	defer conn.End()

	ch, err := conn.Channel()
	require.NoError(t, err)

	consumer, err := ch.Consume("tasks", ConsumeOptions{Tag: "ctag-stable"}, func(Delivery) {})
	require.NoError(t, err)

	// sever the transport; the supervisor reconnects after the backoff
	broker.dropConnection()

	waitFor(t, 5*time.Second, func() bool {
		broker.mu.Lock()
		defer broker.mu.Unlock()
		return broker.handshakes >= 2
	})

	// the channel reopened and the consumer was resubscribed with the
	// same tag
	waitFor(t, 5*time.Second, func() bool {
		return consumeCount(broker, "ctag-stable") >= 2
	})

	waitFor(t, 2*time.Second, func() bool {
		return ch.State() == ChannelOpen
	})
	assert.Equal(t, ConsumerActive, consumer.State())
	assert.Equal(t, StateReady, conn.State())
}

func TestPermanentErrorDoesNotReconnect(t *testing.T) {
	broker := newFakeBroker(t)

	go func() {
		conn, err := broker.listener.Accept()
		if err != nil {
			return
		}
		// hang up before the handshake: the client reads this as a
		// probable authentication failure, which is permanent
		header := make([]byte, 8)
		conn.Read(header)
		conn.Close()
	}()

	cfg, err := config.NewConfigBuilder().
		WithHost("127.0.0.1").
		WithPort(broker.port()).
		WithConnectionTimeout(2 * time.Second).
		WithReconnect(true).
		WithLinearBackoff(20 * time.Millisecond).
		Build()
	require.NoError(t, err)

	conn, err := NewConnection(cfg)
	require.NoError(t, err)

	err = conn.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, conn.State())
}
