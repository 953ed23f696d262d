package notifications

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker open")

type ProtectedNotifierConfig struct {
	Timeout          time.Duration // per notice, default 3s
	FailureThreshold int           // consecutive failures that open the circuit, default 3
	Cooldown         time.Duration // open time before a trial notice, default 15s
	HalfOpenMaxCalls int           // concurrent trial notices, default 1

	// OnStateChange is called outside the lock after every transition.
	OnStateChange func(from, to string)
}

type circuitState string

const (
	stateClosed   circuitState = "closed"
	stateOpen     circuitState = "open"
	stateHalfOpen circuitState = "half_open"
)

// ProtectedNotifier bounds each reservation notice with a timeout and stops
// calling the provider after repeated failures.
type ProtectedNotifier struct {
	inner Notifier
	cfg   ProtectedNotifierConfig
	now   func() time.Time

	mu               sync.Mutex
	state            circuitState
	failures         int
	openedAt         time.Time
	halfOpenInFlight int
}

func NewProtectedNotifier(inner Notifier, cfg ProtectedNotifierConfig) *ProtectedNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}

	return &ProtectedNotifier{
		inner: inner,
		cfg:   cfg,
		now:   time.Now,
		state: stateClosed,
	}
}

// SendReservationNotice fails fast with ErrCircuitOpen while the provider is
// considered down. A notice abandoned because the caller's context ended is
// not held against the provider.
func (n *ProtectedNotifier) SendReservationNotice(ctx context.Context, input SendReservationNoticeInput) error {
	if !n.acquire() {
		return ErrCircuitOpen
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	err := n.inner.SendReservationNotice(sendCtx, input)

	callerGone := err != nil && ctx.Err() != nil
	n.release(err, callerGone)

	return err
}

func (n *ProtectedNotifier) acquire() bool {
	n.mu.Lock()

	from := n.state
	allowed := true

	switch n.state {
	case stateOpen:
		if n.now().Sub(n.openedAt) < n.cfg.Cooldown {
			allowed = false
			break
		}
		n.state = stateHalfOpen
		n.halfOpenInFlight = 1
	case stateHalfOpen:
		if n.halfOpenInFlight >= n.cfg.HalfOpenMaxCalls {
			allowed = false
			break
		}
		n.halfOpenInFlight++
	}

	to := n.state
	n.mu.Unlock()

	n.transitioned(from, to)
	return allowed
}

func (n *ProtectedNotifier) release(err error, callerGone bool) {
	n.mu.Lock()

	from := n.state
	if n.state == stateHalfOpen && n.halfOpenInFlight > 0 {
		n.halfOpenInFlight--
	}

	switch {
	case err == nil:
		n.failures = 0
		n.state = stateClosed
	case callerGone:
	case n.state == stateHalfOpen:
		n.failures++
		n.state = stateOpen
		n.openedAt = n.now()
	default:
		n.failures++
		if n.failures >= n.cfg.FailureThreshold {
			n.state = stateOpen
			n.openedAt = n.now()
		}
	}

	to := n.state
	n.mu.Unlock()

	n.transitioned(from, to)
}

func (n *ProtectedNotifier) transitioned(from, to circuitState) {
	if from != to && n.cfg.OnStateChange != nil {
		n.cfg.OnStateChange(string(from), string(to))
	}
}

// State reports the breaker position, for logs and tests.
func (n *ProtectedNotifier) State() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return string(n.state)
}
