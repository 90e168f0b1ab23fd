package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/fxpulse/internal/platform/version"
)

const readinessProbeTimeout = 5 * time.Second

// HealthCheck is one named readiness dependency, such as the Redis connection.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type livenessResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
}

func (s *Server) handleLiveness(c echo.Context) error {
	resp := livenessResponse{Status: "ok", Uptime: s.clock.Since(s.startTime).Seconds()}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

// handleReadiness runs all checks in parallel under one deadline. Any failure answers 503.
func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
	defer cancel()

	results := runHealthChecks(ctx, s.healthChecks)

	resp := readinessResponse{Status: "ready", Checks: make(map[string]string, len(results))}
	status := http.StatusOK
	for name, err := range results {
		if err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	if err := c.JSON(status, resp); err != nil {
		return fmt.Errorf("failed to write readiness response: %w", err)
	}
	return nil
}

func runHealthChecks(ctx context.Context, checks []HealthCheck) map[string]error {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]error, len(checks))
	)
	for _, hc := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := hc.Check(ctx)
			mu.Lock()
			results[hc.Name] = err
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
