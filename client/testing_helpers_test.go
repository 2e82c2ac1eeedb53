package client

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maxpert/amqp-client-go/config"
	"github.com/maxpert/amqp-client-go/protocol"
)

// fakeBroker is a scripted AMQP peer. It performs the server side of the
// handshake and then auto-answers request/reply methods, recording every
// frame it receives.
type fakeBroker struct {
	t        *testing.T
	listener net.Listener

	tune *protocol.ConnectionTuneMethod

	mu       sync.Mutex
	conn     net.Conn
	received []*protocol.Frame
	methods  []protocol.Method

	handshakes int
	ready      chan struct{}
}

func newFakeBroker(t *testing.T) *fakeBroker {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	broker := &fakeBroker{
		t:        t,
		listener: listener,
		tune:     &protocol.ConnectionTuneMethod{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60},
		ready:    make(chan struct{}, 8),
	}
	t.Cleanup(broker.stop)
	return broker
}

func (b *fakeBroker) stop() {
	b.listener.Close()
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

func (b *fakeBroker) port() int {
	return b.listener.Addr().(*net.TCPAddr).Port
}

// run accepts connections until the listener closes, handshaking and then
// serving each one
func (b *fakeBroker) run() {
	go func() {
		for {
			conn, err := b.listener.Accept()
			if err != nil {
				return
			}
			b.mu.Lock()
			b.conn = conn
			b.mu.Unlock()
			b.handshake(conn)
			b.serve(conn)
		}
	}()
}

// handshake drives Start/Tune/OpenOk against one client connection
func (b *fakeBroker) handshake(conn net.Conn) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(conn, header); err != nil {
		return
	}

	b.sendMethod(conn, 0, &protocol.ConnectionStartMethod{
		VersionMajor:     0,
		VersionMinor:     9,
		ServerProperties: protocol.Table{"product": "fake-broker"},
		Mechanisms:       "PLAIN AMQPLAIN",
		Locales:          "en_US",
	})

	if b.readMethod(conn) == nil { // start-ok
		return
	}
	b.sendMethod(conn, 0, b.tune)
	if b.readMethod(conn) == nil { // tune-ok
		return
	}
	if b.readMethod(conn) == nil { // open
		return
	}
	b.sendMethod(conn, 0, &protocol.ConnectionOpenOKMethod{})

	b.mu.Lock()
	b.handshakes++
	b.mu.Unlock()
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// serve auto-answers request/reply methods until the connection dies
func (b *fakeBroker) serve(conn net.Conn) {
	for {
		frame, err := protocol.ReadFrame(conn)
		if err != nil {
			return
		}
		b.record(frame)

		if frame.Type != protocol.FrameMethod {
			continue
		}
		method, err := protocol.DecodeMethod(frame.Payload)
		if err != nil {
			continue
		}
		b.recordMethod(method)

		switch m := method.(type) {
		case *protocol.ChannelOpenMethod:
			b.sendMethod(conn, frame.Channel, &protocol.ChannelOpenOKMethod{})
		case *protocol.ChannelCloseMethod:
			b.sendMethod(conn, frame.Channel, &protocol.ChannelCloseOKMethod{})
		case *protocol.ExchangeDeclareMethod:
			if !m.NoWait {
				b.sendMethod(conn, frame.Channel, &protocol.ExchangeDeclareOKMethod{})
			}
		case *protocol.QueueDeclareMethod:
			if !m.NoWait {
				name := m.Queue
				if name == "" {
					name = "amq.gen-test"
				}
				b.sendMethod(conn, frame.Channel, &protocol.QueueDeclareOKMethod{Queue: name})
			}
		case *protocol.QueueBindMethod:
			b.sendMethod(conn, frame.Channel, &protocol.QueueBindOKMethod{})
		case *protocol.BasicConsumeMethod:
			b.sendMethod(conn, frame.Channel, &protocol.BasicConsumeOKMethod{ConsumerTag: m.ConsumerTag})
		case *protocol.BasicCancelMethod:
			b.sendMethod(conn, frame.Channel, &protocol.BasicCancelOKMethod{ConsumerTag: m.ConsumerTag})
		case *protocol.BasicQosMethod:
			b.sendMethod(conn, frame.Channel, &protocol.BasicQosOKMethod{})
		case *protocol.ConnectionCloseMethod:
			b.sendMethod(conn, 0, &protocol.ConnectionCloseOKMethod{})
		}
	}
}

func (b *fakeBroker) record(frame *protocol.Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.received = append(b.received, frame)
}

func (b *fakeBroker) recordMethod(method protocol.Method) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.methods = append(b.methods, method)
}

func (b *fakeBroker) sendMethod(conn net.Conn, channel uint16, method protocol.Method) {
	frame, err := protocol.EncodeMethodFrame(channel, method)
	require.NoError(b.t, err)
	protocol.WriteFrameTo(conn, frame)
}

func (b *fakeBroker) sendFrame(conn net.Conn, frame *protocol.Frame) {
	require.NoError(b.t, protocol.WriteFrameTo(conn, frame))
}

func (b *fakeBroker) readMethod(conn net.Conn) protocol.Method {
	frame, err := protocol.ReadFrame(conn)
	if err != nil {
		return nil
	}
	b.record(frame)
	method, err := protocol.DecodeMethod(frame.Payload)
	if err != nil {
		return nil
	}
	b.recordMethod(method)
	return method
}

// dropConnection severs the active transport, simulating an outage
func (b *fakeBroker) dropConnection() {
	b.mu.Lock()
	conn := b.conn
	b.conn = nil
	b.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// recordedMethods returns a snapshot of decoded methods so far
func (b *fakeBroker) recordedMethods() []protocol.Method {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]protocol.Method(nil), b.methods...)
}

// recordedFrames returns a snapshot of received frames so far
func (b *fakeBroker) recordedFrames() []*protocol.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*protocol.Frame(nil), b.received...)
}

// methodOfType scans the recorded methods for the first match
func methodOfType[T protocol.Method](methods []protocol.Method) (T, bool) {
	for _, m := range methods {
		if typed, ok := m.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// waitFor polls until the condition holds or the deadline passes
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

// testConfig builds a client configuration pointed at the fake broker
func testConfig(t *testing.T, broker *fakeBroker) *config.Config {
	t.Helper()
	cfg, err := config.NewConfigBuilder().
		WithHost("127.0.0.1").
		WithPort(broker.port()).
		WithHeartbeat(60).
		WithConnectionTimeout(2 * time.Second).
		WithReconnect(false).
		Build()
	require.NoError(t, err)
	return cfg
}
