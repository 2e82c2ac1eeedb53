package client

import (
	"sync"
	"time"

	"go.uber.org/zap"

	amqperrors "github.com/maxpert/amqp-client-go/errors"
)

// inboundGraceFactor: the inbound monitor allows twice the negotiated
// interval before declaring the peer dead.
const inboundGraceFactor = 2

// heartbeatSupervisor runs the two liveness timers of a connection. The
// outbound timer emits a heartbeat frame when the connection has been
// idle for one interval; the inbound timer raises a timeout when nothing
// arrived for two intervals.
type heartbeatSupervisor struct {
	conn *Connection

	mu       sync.Mutex
	interval time.Duration
	force    bool
	running  bool

	outTimer *time.Timer
	inTimer  *time.Timer
}

func newHeartbeatSupervisor(conn *Connection) *heartbeatSupervisor {
	return &heartbeatSupervisor{
		conn:  conn,
		force: conn.cfg.Client.HeartbeatForceReconnect,
	}
}

// setInterval records the negotiated interval; zero disables heartbeats
func (hb *heartbeatSupervisor) setInterval(interval time.Duration) {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	hb.interval = interval
}

// start arms both timers once the connection is ready
func (hb *heartbeatSupervisor) start() {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if hb.interval <= 0 || hb.running {
		return
	}
	hb.running = true
	hb.outTimer = time.AfterFunc(hb.interval, hb.onOutboundIdle)
	hb.inTimer = time.AfterFunc(hb.interval*inboundGraceFactor, hb.onInboundSilence)
}

// stop cancels both timers; safe to call repeatedly
func (hb *heartbeatSupervisor) stop() {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	hb.running = false
	if hb.outTimer != nil {
		hb.outTimer.Stop()
		hb.outTimer = nil
	}
	if hb.inTimer != nil {
		hb.inTimer.Stop()
		hb.inTimer = nil
	}
}

// noteOutbound re-arms the outbound timer; every method frame written
// counts as liveness toward the peer
func (hb *heartbeatSupervisor) noteOutbound() {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if hb.running && hb.outTimer != nil {
		hb.outTimer.Reset(hb.interval)
	}
}

// noteInbound re-arms the inbound timer; every byte read counts
func (hb *heartbeatSupervisor) noteInbound() {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if hb.running && hb.inTimer != nil {
		hb.inTimer.Reset(hb.interval * inboundGraceFactor)
	}
}

// onOutboundIdle fires after one idle interval: send a heartbeat if the
// transport is writable, then re-arm
func (hb *heartbeatSupervisor) onOutboundIdle() {
	hb.mu.Lock()
	running := hb.running
	interval := hb.interval
	hb.mu.Unlock()
	if !running {
		return
	}

	if hb.conn.transportOpen() {
		if err := hb.conn.Heartbeat(); err != nil {
			hb.conn.log.Debug("heartbeat send failed", zap.Error(err))
		}
	}

	hb.mu.Lock()
	if hb.running && hb.outTimer != nil {
		hb.outTimer.Reset(interval)
	}
	hb.mu.Unlock()
}

// onInboundSilence fires after two silent intervals. Unless the
// configuration forces a reconnect, a transport that is still attached
// gets the benefit of the doubt and the timer re-arms.
func (hb *heartbeatSupervisor) onInboundSilence() {
	hb.mu.Lock()
	running := hb.running
	interval := hb.interval
	force := hb.force
	hb.mu.Unlock()
	if !running {
		return
	}

	if !force && hb.conn.transportOpen() {
		hb.mu.Lock()
		if hb.running && hb.inTimer != nil {
			hb.inTimer.Reset(interval * inboundGraceFactor)
		}
		hb.mu.Unlock()
		return
	}

	graceSeconds := int((interval * inboundGraceFactor) / time.Second)
	hb.conn.log.Warn("inbound heartbeat timeout", zap.Int("grace_seconds", graceSeconds))
	hb.conn.collector.HeartbeatTimeout()
	hb.conn.fatal(amqperrors.NewHeartbeatTimeout(graceSeconds))
}
