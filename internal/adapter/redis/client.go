package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pscheid92/fxpulse/internal/adapter/metrics"
	"github.com/pscheid92/fxpulse/internal/platform/retry"
	goredis "github.com/redis/go-redis/v9"
)

var connectPolicy = retry.Policy{
	MaxAttempts:    5,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     2 * time.Second,
}

// NewClient parses redisURL, installs the circuit breaker and metrics hooks and waits
// until the server answers PING. m may be nil.
func NewClient(ctx context.Context, redisURL string, m *metrics.RedisMetrics) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opts)
	if m != nil {
		rdb.AddHook(NewMetricsHook(m))
	}
	rdb.AddHook(NewCircuitBreakerHook(m))

	policy := connectPolicy
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.WarnContext(ctx, "Redis not reachable yet, retrying", "attempt", attempt, "backoff", backoff, "error", err)
	}

	if err := retry.DoVoid(ctx, policy, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}
