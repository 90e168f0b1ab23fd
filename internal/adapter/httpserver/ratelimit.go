package httpserver

import (
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	apperrors "github.com/pscheid92/fxpulse/internal/platform/errors"
	"golang.org/x/time/rate"
)

// Idle per-IP buckets are dropped after this long.
const rateLimiterExpiry = 5 * time.Minute

// newRateLimiter returns a token bucket per client IP shared by every route it wraps.
// Denied requests get a 429 with Retry-After set to the time one token takes to refill.
// onDeny may be nil.
func newRateLimiter(ratePerSecond float64, burst int, onDeny func()) echo.MiddlewareFunc {
	retryAfter := retryAfterSeconds(ratePerSecond)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(ratePerSecond),
			Burst:     burst,
			ExpiresIn: rateLimiterExpiry,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, clientIP string, _ error) error {
			if onDeny != nil {
				onDeny()
			}
			c.Response().Header().Set("Retry-After", retryAfter)
			return apperrors.RateLimitedError("rate limit exceeded").WithField("client_ip", clientIP)
		},
	})
}

func retryAfterSeconds(ratePerSecond float64) string {
	if ratePerSecond <= 0 {
		return "60"
	}
	return strconv.Itoa(int(math.Ceil(1 / ratePerSecond)))
}
