package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusCollectorCounts(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewPrometheusCollector("amqp_client_test", registry)

	collector.ConnectionOpened()
	collector.ConnectionOpened()
	collector.ConnectionClosed()
	collector.ReconnectAttempt()
	collector.ChannelOpened()
	collector.ChannelOpened()
	collector.ChannelClosed()
	collector.MessagePublished(512)
	collector.MessageDelivered(256)
	collector.HeartbeatSent()
	collector.HeartbeatTimeout()
	collector.FrameRead()
	collector.FrameWritten()

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.ConnectionsOpened))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ConnectionsClosed))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ReconnectAttempts))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ChannelsOpen))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.MessagesPublished))
	assert.Equal(t, 512.0, testutil.ToFloat64(collector.MessagesPublishedBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.MessagesDelivered))
	assert.Equal(t, 256.0, testutil.ToFloat64(collector.MessagesDeliveredBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.HeartbeatsSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.HeartbeatTimeouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.FramesRead))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.FramesWritten))
}

func TestNoOpCollectorIsSafe(t *testing.T) {
	var collector Collector = NoOpCollector{}
	collector.ConnectionOpened()
	collector.MessagePublished(100)
	collector.HeartbeatTimeout()
}
