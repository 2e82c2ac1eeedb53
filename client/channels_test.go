package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpert/amqp-client-go/config"
	amqperrors "github.com/maxpert/amqp-client-go/errors"
)

func newUnconnected(t *testing.T) *Connection {
	t.Helper()
	conn, err := NewConnection(config.DefaultConfig())
	require.NoError(t, err)
	return conn
}

func TestAllocateChannelIDsAreDistinct(t *testing.T) {
	conn := newUnconnected(t)
	conn.channelMax = 100

	seen := make(map[uint16]bool)
	for i := 0; i < 100; i++ {
		conn.mu.Lock()
		id, err := conn.allocateChannelID()
		conn.mu.Unlock()
		require.NoError(t, err)
		assert.False(t, seen[id], "id %d allocated twice", id)
		assert.GreaterOrEqual(t, id, uint16(1))
		assert.LessOrEqual(t, id, uint16(100))
		seen[id] = true
	}
}

func TestAllocateChannelIDExhaustion(t *testing.T) {
	conn := newUnconnected(t)
	conn.channelMax = 3

	for i := 0; i < 3; i++ {
		conn.mu.Lock()
		_, err := conn.allocateChannelID()
		conn.mu.Unlock()
		require.NoError(t, err)
	}

	conn.mu.Lock()
	_, err := conn.allocateChannelID()
	conn.mu.Unlock()
	require.Error(t, err)

	var exhausted *amqperrors.NoChannelsAvailableError
	assert.ErrorAs(t, err, &exhausted)
	assert.Equal(t, uint16(3), exhausted.ChannelMax)
}

func TestAllocateChannelIDReusesReleasedSlot(t *testing.T) {
	conn := newUnconnected(t)
	conn.channelMax = 3

	// occupy 1, 2, 3
	for i := 0; i < 3; i++ {
		conn.mu.Lock()
		_, err := conn.allocateChannelID()
		conn.mu.Unlock()
		require.NoError(t, err)
	}

	conn.releaseChannelID(2)

	conn.mu.Lock()
	id, err := conn.allocateChannelID()
	conn.mu.Unlock()
	require.NoError(t, err)
	assert.Equal(t, uint16(2), id)
}

func TestAllocateChannelIDWrapsAroundCounter(t *testing.T) {
	conn := newUnconnected(t)
	conn.channelMax = 3

	conn.mu.Lock()
	first, err := conn.allocateChannelID()
	conn.mu.Unlock()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), first)

	conn.releaseChannelID(first)

	// the scan starts past the last allocation, so the next id is 2 even
	// though 1 is free again
	conn.mu.Lock()
	second, err := conn.allocateChannelID()
	conn.mu.Unlock()
	require.NoError(t, err)
	assert.Equal(t, uint16(2), second)
}

func TestInitialHostIndex(t *testing.T) {
	hosts := []string{"a", "b", "c"}

	assert.Equal(t, 0, initialHostIndex(hosts, 0))
	assert.Equal(t, 2, initialHostIndex(hosts, 2))
	// out-of-range preference clamps to the last valid index
	assert.Equal(t, 2, initialHostIndex(hosts, 10))

	// negative preference picks randomly but always in range
	for i := 0; i < 50; i++ {
		index := initialHostIndex(hosts, -1)
		assert.GreaterOrEqual(t, index, 0)
		assert.Less(t, index, 3)
	}
}

func TestHostRotation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Client.Hosts = []string{"a", "b", "c"}
	cfg.Client.HostPreference = 0
	conn, err := NewConnection(cfg)
	require.NoError(t, err)

	assert.Equal(t, "a", conn.currentHost())
	conn.advanceHost()
	assert.Equal(t, "b", conn.currentHost())
	conn.advanceHost()
	assert.Equal(t, "c", conn.currentHost())
	conn.advanceHost()
	assert.Equal(t, "a", conn.currentHost())
}
