package client

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpert/amqp-client-go/config"
	amqperrors "github.com/maxpert/amqp-client-go/errors"
	"github.com/maxpert/amqp-client-go/protocol"
)

// attachPipe wires a connection to one end of an in-memory pipe so the
// supervisor has a live transport without a real broker
func attachPipe(t *testing.T, conn *Connection) net.Conn {
	t.Helper()
	clientSide, peerSide := net.Pipe()
	conn.mu.Lock()
	conn.conn = clientSide
	conn.writer = protocol.NewFrameWriter(clientSide, protocol.FrameMinSize)
	conn.mu.Unlock()
	t.Cleanup(func() {
		clientSide.Close()
		peerSide.Close()
	})
	return peerSide
}

func TestOutboundHeartbeatFiresWhenIdle(t *testing.T) {
	conn := newUnconnected(t)
	peer := attachPipe(t, conn)

	conn.hb.setInterval(50 * time.Millisecond)
	conn.hb.start()
	defer conn.hb.stop()

	frameCh := make(chan *protocol.Frame, 1)
	go func() {
		frame, err := protocol.ReadFrame(peer)
		if err == nil {
			frameCh <- frame
		}
	}()

	select {
	case frame := <-frameCh:
		assert.Equal(t, byte(protocol.FrameHeartbeat), frame.Type)
		assert.Equal(t, uint16(0), frame.Channel)
		assert.Empty(t, frame.Payload)
	case <-time.After(time.Second):
		t.Fatal("no heartbeat within the interval")
	}
}

func TestOutboundHeartbeatSuppressedByTraffic(t *testing.T) {
	conn := newUnconnected(t)
	peer := attachPipe(t, conn)

	conn.hb.setInterval(80 * time.Millisecond)
	conn.hb.start()
	defer conn.hb.stop()

	// keep re-arming faster than the interval
	stop := time.After(200 * time.Millisecond)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	frameCh := make(chan struct{}, 1)
	go func() {
		if _, err := protocol.ReadFrame(peer); err == nil {
			frameCh <- struct{}{}
		}
	}()

	for {
		select {
		case <-ticker.C:
			conn.hb.noteOutbound()
		case <-frameCh:
			t.Fatal("heartbeat sent despite outbound traffic")
		case <-stop:
			return
		}
	}
}

func TestInboundSilenceToleratedWithoutForce(t *testing.T) {
	conn := newUnconnected(t)
	attachPipe(t, conn)

	conn.hb.setInterval(30 * time.Millisecond)
	conn.hb.start()
	defer conn.hb.stop()

	// twice the grace passes with the transport attached: no error
	time.Sleep(150 * time.Millisecond)
	assert.NotEqual(t, StateFailed, conn.State())
}

func TestInboundSilenceFailsWithForceReconnect(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Client.HeartbeatForceReconnect = true
	cfg.Impl.Reconnect = false
	conn, err := NewConnection(cfg)
	require.NoError(t, err)
	attachPipe(t, conn)

	conn.hb.setInterval(30 * time.Millisecond)
	conn.hb.start()
	defer conn.hb.stop()

	var timeoutErr error
	waitFor(t, 2*time.Second, func() bool {
		select {
		case event := <-conn.Events():
			if event.Type == EventError && event.Err != nil {
				timeoutErr = event.Err
				return true
			}
		default:
		}
		return false
	})
	assert.True(t, amqperrors.IsHeartbeatTimeout(timeoutErr))
}

func TestHeartbeatDisabledWhenIntervalZero(t *testing.T) {
	conn := newUnconnected(t)
	peer := attachPipe(t, conn)

	conn.hb.setInterval(0)
	conn.hb.start()

	frameCh := make(chan struct{}, 1)
	go func() {
		if _, err := protocol.ReadFrame(peer); err == nil {
			frameCh <- struct{}{}
		}
	}()

	select {
	case <-frameCh:
		t.Fatal("heartbeat sent with heartbeats disabled")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestInboundTimerReArmedByTraffic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Client.HeartbeatForceReconnect = true
	cfg.Impl.Reconnect = false
	conn, err := NewConnection(cfg)
	require.NoError(t, err)
	attachPipe(t, conn)

	conn.hb.setInterval(40 * time.Millisecond)
	conn.hb.start()
	defer conn.hb.stop()

	// keep feeding inbound liveness for longer than the grace period
	for i := 0; i < 6; i++ {
		time.Sleep(30 * time.Millisecond)
		conn.hb.noteInbound()
	}
	assert.NotEqual(t, StateFailed, conn.State())
}
