package httpserver

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/fxpulse/internal/adapter/websocket"
	"github.com/pscheid92/fxpulse/internal/domain"
	"github.com/pscheid92/fxpulse/internal/platform/correlation"
	apperrors "github.com/pscheid92/fxpulse/internal/platform/errors"
)

const headerRequestID = "X-Request-ID"

// correlationMiddleware tags each request context with a correlation ID, reusing a
// well-formed X-Request-ID from the caller.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.FromExternal(c.Request().Header.Get(headerRequestID))
		c.Response().Header().Set(headerRequestID, id)

		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// clientIPMiddleware hands the client IP to the websocket node for per-IP limits.
func clientIPMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := websocket.WithClientIP(c.Request().Context(), c.RealIP())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func domainErrorMapper(err error) *apperrors.Error {
	switch {
	case errors.Is(err, domain.ErrUnsupportedCurrency):
		return apperrors.ValidationError("unsupported currency", err)
	case errors.Is(err, domain.ErrInvalidObservation):
		return apperrors.ValidationError(err.Error(), err)
	default:
		return nil
	}
}
