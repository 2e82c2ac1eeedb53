package client

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/maxpert/amqp-client-go/config"
	amqperrors "github.com/maxpert/amqp-client-go/errors"
)

// reconnectSupervisor turns fatal connection errors into backed-off
// reconnection attempts. At most one attempt is pending at any time; a
// deliberate End supersedes whatever is scheduled.
type reconnectSupervisor struct {
	conn *Connection

	mu      sync.Mutex
	pending bool
	backoff time.Duration // zero until the first failure after a success
	timer   *time.Timer
}

func newReconnectSupervisor(conn *Connection) *reconnectSupervisor {
	return &reconnectSupervisor{conn: conn}
}

// handleFailure reacts to a fatal error. The first caller wins; anything
// arriving while an attempt is pending is already covered by it.
func (r *reconnectSupervisor) handleFailure(err error) {
	r.mu.Lock()
	if r.pending {
		r.mu.Unlock()
		return
	}
	r.pending = true
	r.mu.Unlock()

	r.conn.log.Warn("connection failure", zap.Error(err))
	r.conn.teardown()

	if !r.conn.cfg.Impl.Reconnect || amqperrors.IsPermanent(err) {
		r.mu.Lock()
		r.pending = false
		r.mu.Unlock()
		r.conn.terminal(err)
		return
	}

	r.mu.Lock()
	r.backoff = nextBackoff(r.backoff, &r.conn.cfg.Impl)
	delay := r.backoff
	r.timer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		r.pending = false
		r.mu.Unlock()
		r.conn.reconnect()
	})
	r.mu.Unlock()

	r.conn.log.Info("reconnect scheduled", zap.Duration("backoff", delay))
	r.conn.emit(Event{Type: EventError, Err: err})
}

// onReady resets the backoff series after a successful handshake
func (r *reconnectSupervisor) onReady() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backoff = 0
}

// cancel drops any scheduled attempt; a deliberate close supersedes it
func (r *reconnectSupervisor) cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pending = false
}

// nextBackoff advances the delay series: the first failure after a
// success uses the base delay, then the strategy takes over. Linear keeps
// the delay constant; exponential doubles it up to the configured limit.
func nextBackoff(current time.Duration, impl *config.ImplConfig) time.Duration {
	if current == 0 {
		return impl.ReconnectBackoffTime
	}
	if impl.ReconnectBackoffStrategy == config.BackoffExponential {
		next := current * 2
		if next > impl.ReconnectExponentialLimit {
			next = impl.ReconnectExponentialLimit
		}
		return next
	}
	return current
}
