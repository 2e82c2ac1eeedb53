package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maxpert/amqp-client-go/auth"
	"github.com/maxpert/amqp-client-go/config"
	amqperrors "github.com/maxpert/amqp-client-go/errors"
	"github.com/maxpert/amqp-client-go/metrics"
	"github.com/maxpert/amqp-client-go/protocol"
)

const (
	clientProduct  = "amqp-client-go"
	clientVersion  = "0.9.1"
	clientPlatform = "Go"
)

// ConnectionState represents the current state of a connection
type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateTCPConnecting
	StateAwaitingStart
	StateAwaitingTune
	StateAwaitingOpenOK
	StateReady
	StateClosing
	StateFailed
)

// String returns a string representation of the connection state
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateTCPConnecting:
		return "tcp-connecting"
	case StateAwaitingStart:
		return "awaiting-start"
	case StateAwaitingTune:
		return "awaiting-tune"
	case StateAwaitingOpenOK:
		return "awaiting-open-ok"
	case StateReady:
		return "ready"
	case StateClosing:
		return "closing"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Connection drives the AMQP handshake, multiplexes channels over one
// transport and supervises heartbeats and reconnection.
type Connection struct {
	cfg       *config.Config
	log       *zap.Logger
	collector metrics.Collector

	mu     sync.Mutex
	state  ConnectionState
	conn   net.Conn
	writer *protocol.FrameWriter
	parser *protocol.Parser

	serverProperties protocol.Table
	channelMax       uint16
	frameMax         uint32

	channels       map[uint16]channelHandler
	usedIDs        *roaring.Bitmap
	channelCounter uint16

	exchanges       map[string]*Exchange
	queues          map[string]*Queue
	defaultExchange *Exchange

	blocked       bool
	blockedReason string
	readyEmitted  bool

	readyCh  chan error
	closedCh chan struct{}

	hb        *heartbeatSupervisor
	super     *reconnectSupervisor
	hostIndex int

	readGroup *errgroup.Group

	events chan Event
}

// Option customizes a Connection at construction time
type Option func(*Connection)

// WithLogger sets the structured logger
func WithLogger(log *zap.Logger) Option {
	return func(c *Connection) { c.log = log }
}

// WithCollector sets the metrics collector
func WithCollector(collector metrics.Collector) Option {
	return func(c *Connection) { c.collector = collector }
}

// NewConnection creates a connection from a validated configuration. The
// connection does nothing until Connect is called.
func NewConnection(cfg *config.Config, opts ...Option) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Connection{
		cfg:       cfg,
		log:       zap.NewNop(),
		collector: metrics.NoOpCollector{},
		state:     StateDisconnected,
		channels:  make(map[uint16]channelHandler),
		usedIDs:   roaring.New(),
		exchanges: make(map[string]*Exchange),
		queues:    make(map[string]*Queue),
		events:    make(chan Event, 32),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.hb = newHeartbeatSupervisor(c)
	c.super = newReconnectSupervisor(c)
	c.hostIndex = initialHostIndex(cfg.Client.Hosts, cfg.Client.HostPreference)

	return c, nil
}

// Dial parses an AMQP URI and connects
func Dial(ctx context.Context, uri string, opts ...Option) (*Connection, error) {
	cfg, err := config.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	conn, err := NewConnection(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}
	return conn, nil
}

// Events returns the connection's lifecycle event stream. Slow consumers
// lose events rather than stalling the connection.
func (c *Connection) Events() <-chan Event {
	return c.events
}

// State returns the current connection state
func (c *Connection) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ServerProperties returns the properties announced in Connection.Start
func (c *Connection) ServerProperties() protocol.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serverProperties
}

// FrameMax returns the negotiated maximum frame size
func (c *Connection) FrameMax() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameMax
}

// ChannelMax returns the negotiated channel limit
func (c *Connection) ChannelMax() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelMax
}

// IsBlocked reports whether the broker has blocked publishes
func (c *Connection) IsBlocked() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocked, c.blockedReason
}

// Connect establishes the transport and drives the handshake, blocking
// until the connection is ready or has failed terminally. With reconnect
// enabled, transient dial failures are retried with backoff before
// Connect returns.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected && c.state != StateFailed {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("connect called in state %s", state)
	}
	readyCh := make(chan error, 1)
	c.readyCh = readyCh
	c.mu.Unlock()

	// a failed earlier attempt may have left its reader behind
	c.joinReadLoop()

	c.connectOnce()

	select {
	case err := <-readyCh:
		return err
	case <-ctx.Done():
		c.End()
		return ctx.Err()
	}
}

// connectOnce performs one dial + handshake attempt; failures route into
// the reconnection supervisor.
func (c *Connection) connectOnce() {
	if err := c.dial(); err != nil {
		c.fatal(err)
	}
}

// dial establishes the TCP or TLS transport and writes the protocol
// header; the handshake continues on the read loop.
func (c *Connection) dial() error {
	host := c.currentHost()
	port := c.cfg.Client.EffectivePort()
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	c.setState(StateTCPConnecting)
	c.log.Debug("dialing broker", zap.String("addr", addr))

	dialer := net.Dialer{Timeout: c.cfg.Client.ConnectionTimeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return amqperrors.NewTimeoutError(addr)
		}
		return amqperrors.NewTransportError(addr, err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		tcpConn.SetNoDelay(c.cfg.Client.NoDelay)
	}

	if c.cfg.Client.SSL.Enabled {
		tlsConfig, err := config.BuildTLSConfig(c.cfg.Client.SSL, host)
		if err != nil {
			conn.Close()
			return amqperrors.NewTransportError(addr, err)
		}
		tlsConn := tls.Client(conn, tlsConfig)
		if err := tlsConn.Handshake(); err != nil {
			conn.Close()
			return amqperrors.NewTransportError(addr, err)
		}
		conn = tlsConn
	}

	c.mu.Lock()
	c.conn = conn
	c.writer = protocol.NewFrameWriter(conn, protocol.FrameMinSize)
	c.parser = protocol.NewParser(c, protocol.FrameMinSize)
	c.state = StateAwaitingStart
	c.readyEmitted = false
	c.closedCh = make(chan struct{})
	group := &errgroup.Group{}
	c.readGroup = group
	c.mu.Unlock()

	c.emit(Event{Type: EventConnect})

	if err := c.writer.WriteProtocolHeader(); err != nil {
		return amqperrors.NewTransportError(addr, err)
	}

	parser := c.parser
	group.Go(func() error {
		return c.readLoop(conn, parser)
	})
	return nil
}

// takeReadGroup detaches the current read-loop group so the caller can
// join it. Never call from the read goroutine itself.
func (c *Connection) takeReadGroup() *errgroup.Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	group := c.readGroup
	c.readGroup = nil
	return group
}

// joinReadLoop waits for a detached read loop to exit and surfaces its
// terminal error. The loop unblocks as soon as teardown closes its
// transport.
func (c *Connection) joinReadLoop() {
	if group := c.takeReadGroup(); group != nil {
		if err := group.Wait(); err != nil {
			c.log.Debug("read loop ended", zap.Error(err))
		}
	}
}

// readLoop pumps transport bytes into the parser until the transport
// ends. All inbound dispatch happens on this goroutine, in arrival
// order. The returned error is the fatal condition the loop raised, nil
// when the transport ended by request; joinReadLoop collects it.
func (c *Connection) readLoop(conn net.Conn, parser *protocol.Parser) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			c.hb.noteInbound()
			parser.Feed(buf[:n])
			if parser.Failed() {
				// the parser already raised its error through OnError
				return nil
			}
		}
		if err != nil {
			c.mu.Lock()
			current := c.conn == conn
			state := c.state
			ready := c.readyEmitted
			c.mu.Unlock()

			// a reconnect may already own a fresh transport; errors from
			// the superseded one are stale news
			if !current {
				return nil
			}

			switch state {
			case StateDisconnected, StateClosing, StateFailed:
				// expected teardown
				return nil
			}
			if !ready {
				// the broker hung up before the handshake completed;
				// 0.9.1 has no explicit credential-rejection signal, so
				// treat this as an authentication failure
				authErr := amqperrors.NewAuthenticationFailure(c.cfg.Client.Login)
				c.fatal(authErr)
				return authErr
			}
			transportErr := amqperrors.NewTransportError(conn.RemoteAddr().String(), err)
			c.fatal(transportErr)
			return transportErr
		}
	}
}

// OnMethod implements protocol.FrameHandler
func (c *Connection) OnMethod(channel uint16, method protocol.Method) {
	c.collector.FrameRead()
	if channel == 0 {
		c.handleConnectionMethod(method)
		return
	}
	handler := c.handlerFor(channel)
	if handler == nil {
		c.log.Debug("dropping method for unknown channel",
			zap.Uint16("channel", channel),
			zap.String("method", method.Name()))
		return
	}
	handler.OnChannelMethod(method)
}

// OnContentHeader implements protocol.FrameHandler
func (c *Connection) OnContentHeader(channel uint16, header *protocol.ContentHeader) {
	c.collector.FrameRead()
	handler := c.handlerFor(channel)
	if handler == nil {
		c.log.Debug("dropping content header for unknown channel", zap.Uint16("channel", channel))
		return
	}
	handler.OnChannelContentHeader(header)
}

// OnContent implements protocol.FrameHandler
func (c *Connection) OnContent(channel uint16, payload []byte) {
	c.collector.FrameRead()
	handler := c.handlerFor(channel)
	if handler == nil {
		c.log.Debug("dropping content for unknown channel", zap.Uint16("channel", channel))
		return
	}
	handler.OnChannelContent(payload)
}

// OnHeartbeat implements protocol.FrameHandler
func (c *Connection) OnHeartbeat() {
	c.collector.FrameRead()
	c.emit(Event{Type: EventHeartbeat})
}

// OnError implements protocol.FrameHandler; the parser is terminal once
// it reports an error
func (c *Connection) OnError(err error) {
	c.fatal(err)
}

// handleConnectionMethod reacts to server control methods on channel 0
func (c *Connection) handleConnectionMethod(m protocol.Method) {
	switch method := m.(type) {
	case *protocol.ConnectionStartMethod:
		c.handleStart(method)
	case *protocol.ConnectionTuneMethod:
		c.handleTune(method)
	case *protocol.ConnectionOpenOKMethod:
		c.handleOpenOK()
	case *protocol.ConnectionCloseMethod:
		c.handleClose(method)
	case *protocol.ConnectionCloseOKMethod:
		c.handleCloseOK()
	case *protocol.ConnectionBlockedMethod:
		c.handleBlocked(method)
	case *protocol.ConnectionUnblockedMethod:
		c.handleUnblocked()
	default:
		c.fatal(amqperrors.NewUncaughtMethod(m.Name(), c.State().String()))
	}
}

func (c *Connection) handleStart(m *protocol.ConnectionStartMethod) {
	c.mu.Lock()
	if c.state != StateAwaitingStart {
		state := c.state
		c.mu.Unlock()
		c.fatal(amqperrors.NewUncaughtMethod(m.Name(), state.String()))
		return
	}
	c.serverProperties = m.ServerProperties
	c.mu.Unlock()

	if m.VersionMajor != protocol.VersionMajor || m.VersionMinor != protocol.VersionMinor {
		c.fatal(amqperrors.NewBadServerVersion(m.VersionMajor, m.VersionMinor))
		return
	}

	mechanism, err := auth.ForName(c.cfg.Client.AuthMechanism, c.cfg.Client.AuthResponse)
	if err != nil {
		c.fatal(err)
		return
	}
	response, err := mechanism.Response(auth.Credentials{
		Username: c.cfg.Client.Login,
		Password: c.cfg.Client.Password,
	})
	if err != nil {
		c.fatal(err)
		return
	}

	c.log.Debug("received connection.start",
		zap.String("mechanisms", m.Mechanisms),
		zap.String("mechanism", mechanism.Name()))

	c.setState(StateAwaitingTune)
	startOk := &protocol.ConnectionStartOKMethod{
		ClientProperties: c.clientProperties(),
		Mechanism:        mechanism.Name(),
		Response:         response,
		Locale:           "en_US",
	}
	if err := c.sendMethod(0, startOk); err != nil {
		c.fatal(err)
	}
}

func (c *Connection) handleTune(m *protocol.ConnectionTuneMethod) {
	c.mu.Lock()
	if c.state != StateAwaitingTune {
		state := c.state
		c.mu.Unlock()
		c.fatal(amqperrors.NewUncaughtMethod(m.Name(), state.String()))
		return
	}

	channelMax := m.ChannelMax
	if requested := c.cfg.Client.ChannelMax; requested > 0 && (channelMax == 0 || requested < channelMax) {
		channelMax = requested
	}
	if channelMax == 0 {
		channelMax = 65535
	}
	frameMax := m.FrameMax
	if requested := c.cfg.Client.FrameMax; requested > 0 && (frameMax == 0 || requested < frameMax) {
		frameMax = requested
	}
	if frameMax == 0 {
		frameMax = 131072
	}

	c.channelMax = channelMax
	c.frameMax = frameMax
	c.parser.SetMaxFrameSize(frameMax)
	c.writer.SetMaxFrameSize(frameMax)
	c.state = StateAwaitingOpenOK
	writer := c.writer
	c.mu.Unlock()

	c.hb.setInterval(time.Duration(c.cfg.Client.Heartbeat) * time.Second)

	c.log.Debug("negotiated tune parameters",
		zap.Uint16("channel_max", channelMax),
		zap.Uint32("frame_max", frameMax),
		zap.Int("heartbeat", c.cfg.Client.Heartbeat))

	tuneOk := &protocol.ConnectionTuneOKMethod{
		ChannelMax: channelMax,
		FrameMax:   frameMax,
		Heartbeat:  uint16(c.cfg.Client.Heartbeat),
	}
	open := &protocol.ConnectionOpenMethod{
		VirtualHost: c.cfg.Client.VHost,
		Reserved1:   "",
		Reserved2:   true,
	}

	tuneOkFrame, err := protocol.EncodeMethodFrame(0, tuneOk)
	if err != nil {
		c.fatal(err)
		return
	}
	openFrame, err := protocol.EncodeMethodFrame(0, open)
	if err != nil {
		c.fatal(err)
		return
	}
	if err := writer.WriteFrames(tuneOkFrame, openFrame); err != nil {
		c.fatal(amqperrors.NewTransportError(c.currentHost(), err))
		return
	}
	c.collector.FrameWritten()
	c.collector.FrameWritten()
	c.hb.noteOutbound()
}

func (c *Connection) handleOpenOK() {
	c.mu.Lock()
	if c.state != StateAwaitingOpenOK {
		state := c.state
		c.mu.Unlock()
		c.fatal(amqperrors.NewUncaughtMethod("connection.open-ok", state.String()))
		return
	}
	c.state = StateReady
	c.readyEmitted = true
	c.blocked = false
	c.blockedReason = ""
	c.mu.Unlock()

	c.log.Info("connection ready",
		zap.String("host", c.currentHost()),
		zap.String("vhost", c.cfg.Client.VHost))

	c.super.onReady()
	c.collector.ConnectionOpened()
	c.hb.start()
	c.emit(Event{Type: EventReady})

	// channel restoration must not run on the read loop, it waits for
	// replies the read loop delivers
	go c.restoreChannels()

	c.signalReady(nil)
}

func (c *Connection) handleClose(m *protocol.ConnectionCloseMethod) {
	c.log.Warn("server closed connection",
		zap.Uint16("reply_code", m.ReplyCode),
		zap.String("reply_text", m.ReplyText))

	// best effort, the transport is going away either way
	_ = c.sendMethod(0, &protocol.ConnectionCloseOKMethod{})

	c.fatal(amqperrors.NewServerClosed(int(m.ReplyCode), m.ReplyText))
}

func (c *Connection) handleCloseOK() {
	c.mu.Lock()
	if c.state != StateClosing {
		state := c.state
		c.mu.Unlock()
		c.fatal(amqperrors.NewUncaughtMethod("connection.close-ok", state.String()))
		return
	}
	c.state = StateDisconnected
	conn := c.conn
	c.conn = nil
	closedCh := c.closedCh
	c.mu.Unlock()

	c.hb.stop()
	if conn != nil {
		conn.Close()
	}
	if closedCh != nil {
		close(closedCh)
	}
	c.collector.ConnectionClosed()
	c.emit(Event{Type: EventClosed})
}

func (c *Connection) handleBlocked(m *protocol.ConnectionBlockedMethod) {
	c.mu.Lock()
	c.blocked = true
	c.blockedReason = m.Reason
	c.mu.Unlock()
	c.log.Warn("connection blocked by broker", zap.String("reason", m.Reason))
	c.emit(Event{Type: EventBlocked, Reason: m.Reason})
}

func (c *Connection) handleUnblocked() {
	c.mu.Lock()
	c.blocked = false
	c.blockedReason = ""
	c.mu.Unlock()
	c.log.Info("connection unblocked by broker")
	c.emit(Event{Type: EventUnblocked})
}

// clientProperties merges user-supplied properties over the defaults
func (c *Connection) clientProperties() protocol.Table {
	props := protocol.Table{
		"product":  clientProduct,
		"version":  clientVersion,
		"platform": clientPlatform,
	}
	for k, v := range c.cfg.Client.ClientProperties {
		props[k] = v
	}
	return props
}

// sendMethod serializes and writes one method frame
func (c *Connection) sendMethod(channel uint16, method protocol.Method) error {
	c.mu.Lock()
	writer := c.writer
	c.mu.Unlock()
	if writer == nil {
		return amqperrors.NewTransportError(c.currentHost(), fmt.Errorf("not connected"))
	}

	frame, err := protocol.EncodeMethodFrame(channel, method)
	if err != nil {
		return err
	}
	if err := writer.WriteFrame(frame); err != nil {
		return amqperrors.NewTransportError(c.currentHost(), err)
	}
	c.collector.FrameWritten()
	c.hb.noteOutbound()
	return nil
}

// sendFrames writes a contiguous frame sequence (publish emission)
func (c *Connection) sendFrames(frames ...*protocol.Frame) error {
	c.mu.Lock()
	writer := c.writer
	c.mu.Unlock()
	if writer == nil {
		return amqperrors.NewTransportError(c.currentHost(), fmt.Errorf("not connected"))
	}
	if err := writer.WriteFrames(frames...); err != nil {
		return amqperrors.NewTransportError(c.currentHost(), err)
	}
	for range frames {
		c.collector.FrameWritten()
	}
	c.hb.noteOutbound()
	return nil
}

// Heartbeat sends a heartbeat frame if the transport is writable
func (c *Connection) Heartbeat() error {
	c.mu.Lock()
	writer := c.writer
	c.mu.Unlock()
	if writer == nil {
		return nil
	}
	if err := writer.WriteFrame(protocol.NewHeartbeatFrame()); err != nil {
		return err
	}
	c.collector.HeartbeatSent()
	c.collector.FrameWritten()
	return nil
}

// Disconnect performs the close handshake and waits for the server's
// close-ok, falling back to a local teardown on timeout.
func (c *Connection) Disconnect() error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		c.End()
		return nil
	}
	c.state = StateClosing
	closedCh := c.closedCh
	c.mu.Unlock()

	closeMethod := &protocol.ConnectionCloseMethod{
		ReplyCode: protocol.ReplySuccess,
		ReplyText: "client disconnect",
	}
	if err := c.sendMethod(0, closeMethod); err != nil {
		c.End()
		return err
	}

	select {
	case <-closedCh:
		c.joinReadLoop()
	case <-time.After(5 * time.Second):
		c.log.Warn("timed out waiting for connection.close-ok")
		c.End()
	}
	return nil
}

// End tears the connection down locally without the close handshake. Any
// pending reconnection attempt is superseded.
func (c *Connection) End() {
	c.super.cancel()
	c.hb.stop()

	c.mu.Lock()
	alreadyDown := c.state == StateDisconnected && c.conn == nil
	c.state = StateDisconnected
	conn := c.conn
	c.conn = nil
	c.parser = nil
	for id, handler := range c.channels {
		if id != 0 {
			handler.markClosed()
		}
	}
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	c.joinReadLoop()
	if !alreadyDown {
		c.collector.ConnectionClosed()
		c.emit(Event{Type: EventClosed})
	}
	c.signalReady(fmt.Errorf("connection ended"))
}

// fatal routes a fatal error into the reconnection supervisor
func (c *Connection) fatal(err error) {
	c.super.handleFailure(err)
}

// teardown closes the transport and marks every channel closed; called by
// the reconnection supervisor with the triggering error already decided.
func (c *Connection) teardown() {
	c.hb.stop()

	c.mu.Lock()
	c.state = StateFailed
	conn := c.conn
	c.conn = nil
	c.parser = nil
	for id, handler := range c.channels {
		if id != 0 {
			handler.markClosed()
		}
	}
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// terminal surfaces an error with no further reconnection attempts
func (c *Connection) terminal(err error) {
	c.log.Error("connection failed terminally", zap.Error(err))
	c.collector.ConnectionClosed()
	c.emit(Event{Type: EventError, Err: err})
	c.emit(Event{Type: EventClosed, Err: err})
	c.signalReady(err)
}

// reconnect re-enters the dial + handshake sequence on the next host
func (c *Connection) reconnect() {
	// join the previous read loop before dialing so two readers never
	// overlap; it exits promptly once teardown closed its transport
	c.joinReadLoop()

	c.advanceHost()
	c.collector.ReconnectAttempt()
	c.log.Info("reconnecting", zap.String("host", c.currentHost()))
	c.connectOnce()
}

// restoreChannels re-opens surviving channels and their consumers after a
// reconnect reached ready
func (c *Connection) restoreChannels() {
	if !c.cfg.Impl.Reconnect {
		return
	}

	c.mu.Lock()
	handlers := make([]channelHandler, 0, len(c.channels))
	for id, handler := range c.channels {
		if id != 0 {
			handlers = append(handlers, handler)
		}
	}
	c.mu.Unlock()

	for _, handler := range handlers {
		if err := handler.restore(); err != nil {
			c.log.Error("channel restore failed", zap.Error(err))
		}
	}
}

// signalReady completes a pending Connect call exactly once
func (c *Connection) signalReady(err error) {
	c.mu.Lock()
	readyCh := c.readyCh
	c.readyCh = nil
	c.mu.Unlock()
	if readyCh != nil {
		readyCh <- err
	}
}

// setState transitions the connection state under the lock
func (c *Connection) setState(state ConnectionState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// emit delivers an event without ever blocking the connection
func (c *Connection) emit(event Event) {
	select {
	case c.events <- event:
	default:
		c.log.Debug("dropping event, no listener keeping up", zap.Stringer("type", event.Type))
	}
}

// transportOpen reports whether a transport is currently attached
func (c *Connection) transportOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// currentHost returns the host targeted by the current or next attempt
func (c *Connection) currentHost() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	hosts := c.cfg.Client.Hosts
	return hosts[c.hostIndex%len(hosts)]
}

// advanceHost rotates to the next host in the list
func (c *Connection) advanceHost() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hostIndex = (c.hostIndex + 1) % len(c.cfg.Client.Hosts)
}
