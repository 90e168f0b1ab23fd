package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/pscheid92/fxpulse/internal/adapter/metrics"
	goredis "github.com/redis/go-redis/v9"
)

// CircuitBreakerHook fails Redis calls fast once the server has been failing, so that
// request handlers and readiness probes do not queue up behind dial timeouts.
type CircuitBreakerHook struct {
	cb circuitbreaker.CircuitBreaker[any]
}

var _ goredis.Hook = (*CircuitBreakerHook)(nil)

// NewCircuitBreakerHook opens the circuit at a 60% failure rate over at least 5 calls in
// 10s, waits 30s before a trial call and closes again after one success. m may be nil.
func NewCircuitBreakerHook(m *metrics.RedisMetrics) *CircuitBreakerHook {
	return newCircuitBreakerHook(m, 30*time.Second)
}

func newCircuitBreakerHook(m *metrics.RedisMetrics, delay time.Duration) *CircuitBreakerHook {
	cb := circuitbreaker.NewBuilder[any]().
		WithFailureRateThreshold(0.6, 5, 10*time.Second).
		WithDelay(delay).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "redis",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			if m == nil {
				return
			}
			m.CircuitBreakerState.Set(stateToFloat(e.NewState))
			if e.NewState == circuitbreaker.OpenState {
				m.CircuitBreakerTrips.Inc()
			}
		}).
		Build()

	return &CircuitBreakerHook{cb: cb}
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// errCircuitOpen is returned without touching the network while the circuit is open.
var errCircuitOpen = fmt.Errorf("redis circuit breaker open: %w", circuitbreaker.ErrOpen)

// guard runs op under the breaker. A nil reply and a caller-side cancellation say
// nothing about the server's health and count as successes.
func (h *CircuitBreakerHook) guard(op func() error) error {
	if !h.cb.TryAcquirePermit() {
		return errCircuitOpen
	}

	err := op()
	switch {
	case err == nil, errors.Is(err, goredis.Nil), errors.Is(err, context.Canceled):
		h.cb.RecordSuccess()
	default:
		h.cb.RecordError(err)
	}
	return err
}

func (h *CircuitBreakerHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		var conn net.Conn
		err := h.guard(func() error {
			var err error
			conn, err = next(ctx, network, addr)
			return err
		})
		return conn, err
	}
}

func (h *CircuitBreakerHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		return h.guard(func() error { return next(ctx, cmd) })
	}
}

func (h *CircuitBreakerHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		return h.guard(func() error { return next(ctx, cmds) })
	}
}

// State returns the current circuit state.
func (h *CircuitBreakerHook) State() circuitbreaker.State {
	return h.cb.State()
}
