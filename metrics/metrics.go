package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector receives client-side events worth counting. The client never
// blocks on it.
type Collector interface {
	ConnectionOpened()
	ConnectionClosed()
	ReconnectAttempt()
	ChannelOpened()
	ChannelClosed()
	MessagePublished(bytes int)
	MessageDelivered(bytes int)
	HeartbeatSent()
	HeartbeatTimeout()
	FrameRead()
	FrameWritten()
}

// NoOpCollector discards every event, for callers that opt out of metrics
type NoOpCollector struct{}

func (NoOpCollector) ConnectionOpened()    {}
func (NoOpCollector) ConnectionClosed()    {}
func (NoOpCollector) ReconnectAttempt()    {}
func (NoOpCollector) ChannelOpened()       {}
func (NoOpCollector) ChannelClosed()       {}
func (NoOpCollector) MessagePublished(int) {}
func (NoOpCollector) MessageDelivered(int) {}
func (NoOpCollector) HeartbeatSent()       {}
func (NoOpCollector) HeartbeatTimeout()    {}
func (NoOpCollector) FrameRead()           {}
func (NoOpCollector) FrameWritten()        {}

// PrometheusCollector holds all Prometheus metrics for the AMQP client
type PrometheusCollector struct {
	ConnectionsOpened prometheus.Counter
	ConnectionsClosed prometheus.Counter
	ReconnectAttempts prometheus.Counter

	ChannelsOpen prometheus.Gauge

	MessagesPublished      prometheus.Counter
	MessagesPublishedBytes prometheus.Counter
	MessagesDelivered      prometheus.Counter
	MessagesDeliveredBytes prometheus.Counter

	HeartbeatsSent    prometheus.Counter
	HeartbeatTimeouts prometheus.Counter

	FramesRead    prometheus.Counter
	FramesWritten prometheus.Counter
}

// NewPrometheusCollector creates a collector registered on the given
// registerer; pass prometheus.DefaultRegisterer for the global registry.
func NewPrometheusCollector(namespace string, reg prometheus.Registerer) *PrometheusCollector {
	if namespace == "" {
		namespace = "amqp_client"
	}

	factory := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
		reg.MustRegister(c)
		return c
	}

	channelsOpen := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "channels_open",
		Help:      "Current number of open channels",
	})
	reg.MustRegister(channelsOpen)

	return &PrometheusCollector{
		ConnectionsOpened:      factory("connections_opened_total", "Total number of connections that reached ready"),
		ConnectionsClosed:      factory("connections_closed_total", "Total number of connections closed"),
		ReconnectAttempts:      factory("reconnect_attempts_total", "Total number of reconnection attempts"),
		ChannelsOpen:           channelsOpen,
		MessagesPublished:      factory("messages_published_total", "Total number of messages published"),
		MessagesPublishedBytes: factory("messages_published_bytes_total", "Total body bytes published"),
		MessagesDelivered:      factory("messages_delivered_total", "Total number of messages delivered to consumers"),
		MessagesDeliveredBytes: factory("messages_delivered_bytes_total", "Total body bytes delivered to consumers"),
		HeartbeatsSent:         factory("heartbeats_sent_total", "Total number of heartbeat frames sent"),
		HeartbeatTimeouts:      factory("heartbeat_timeouts_total", "Total number of inbound heartbeat timeouts"),
		FramesRead:             factory("frames_read_total", "Total number of frames read from the transport"),
		FramesWritten:          factory("frames_written_total", "Total number of frames written to the transport"),
	}
}

func (c *PrometheusCollector) ConnectionOpened() { c.ConnectionsOpened.Inc() }
func (c *PrometheusCollector) ConnectionClosed() { c.ConnectionsClosed.Inc() }
func (c *PrometheusCollector) ReconnectAttempt() { c.ReconnectAttempts.Inc() }
func (c *PrometheusCollector) ChannelOpened()    { c.ChannelsOpen.Inc() }
func (c *PrometheusCollector) ChannelClosed()    { c.ChannelsOpen.Dec() }

func (c *PrometheusCollector) MessagePublished(bytes int) {
	c.MessagesPublished.Inc()
	c.MessagesPublishedBytes.Add(float64(bytes))
}

func (c *PrometheusCollector) MessageDelivered(bytes int) {
	c.MessagesDelivered.Inc()
	c.MessagesDeliveredBytes.Add(float64(bytes))
}

func (c *PrometheusCollector) HeartbeatSent()    { c.HeartbeatsSent.Inc() }
func (c *PrometheusCollector) HeartbeatTimeout() { c.HeartbeatTimeouts.Inc() }
func (c *PrometheusCollector) FrameRead()        { c.FramesRead.Inc() }
func (c *PrometheusCollector) FrameWritten()     { c.FramesWritten.Inc() }
