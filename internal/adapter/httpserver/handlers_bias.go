package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/fxpulse/internal/domain"
	apperrors "github.com/pscheid92/fxpulse/internal/platform/errors"
)

type scorecardsResponse struct {
	Scorecards []domain.CurrencyScorecard `json:"scorecards"`
}

func (s *Server) registerBiasRoutes(writeLimit echo.MiddlewareFunc) {
	s.echo.GET("/api/bias", s.handleListScorecards)
	s.echo.GET("/api/bias/:currency", s.handleGetScorecard)
	s.echo.POST("/api/bias", s.handleUpdateAll, writeLimit)
	s.echo.POST("/api/bias/:currency", s.handleUpdatePillars, writeLimit)
}

func (s *Server) handleListScorecards(c echo.Context) error {
	resp := scorecardsResponse{Scorecards: s.app.ListScorecards()}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetScorecard(c echo.Context) error {
	currency, err := domain.ParseCurrency(c.Param("currency"))
	if err != nil {
		return apperrors.ValidationError("unsupported currency", err).WithField("currency", c.Param("currency"))
	}

	sc, err := s.app.GetScorecard(currency)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, sc); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdatePillars(c echo.Context) error {
	currency, err := domain.ParseCurrency(c.Param("currency"))
	if err != nil {
		return apperrors.ValidationError("unsupported currency", err).WithField("currency", c.Param("currency"))
	}

	input, err := decodePillarInput(c)
	if err != nil {
		return err
	}

	sc, err := s.app.UpdatePillars(c.Request().Context(), currency, input)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, sc); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateAll(c echo.Context) error {
	input, err := decodePillarInput(c)
	if err != nil {
		return err
	}

	resp := scorecardsResponse{Scorecards: s.app.UpdateAll(c.Request().Context(), input)}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// decodePillarInput reads a JSON object of pillar name to score. Numbers stay
// json.Number so the store sees the value exactly as sent.
func decodePillarInput(c echo.Context) (map[string]any, error) {
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()

	var input map[string]any
	if err := dec.Decode(&input); err != nil {
		return nil, apperrors.ValidationError("request body must be a JSON object of pillar scores", err)
	}
	if input == nil {
		return nil, apperrors.ValidationError("request body must be a JSON object of pillar scores", nil)
	}
	return input, nil
}
