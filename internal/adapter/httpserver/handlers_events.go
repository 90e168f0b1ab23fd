package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/fxpulse/internal/domain"
	"github.com/pscheid92/fxpulse/internal/ingest"
	apperrors "github.com/pscheid92/fxpulse/internal/platform/errors"
)

type analysisResponse struct {
	Observation domain.EventObservation `json:"observation"`
	Result      domain.SentimentResult  `json:"result"`
}

type recentEventsResponse struct {
	Currency domain.Currency        `json:"currency"`
	Events   []domain.AnalyzedEvent `json:"events"`
}

func (s *Server) registerEventRoutes(writeLimit echo.MiddlewareFunc) {
	s.echo.POST("/api/events/analyze", s.handleAnalyzeEvent, writeLimit)
	s.echo.POST("/api/events/analyze/raw", s.handleAnalyzeRawEvent, writeLimit)
	s.echo.GET("/api/events/:currency", s.handleRecentEvents)
}

func (s *Server) handleAnalyzeEvent(c echo.Context) error {
	var obs domain.EventObservation
	if err := c.Bind(&obs); err != nil {
		return apperrors.ValidationError("invalid event observation body", err)
	}
	if currency, err := domain.ParseCurrency(string(obs.Currency)); err == nil {
		obs.Currency = currency
	}
	if obs.Category == "" {
		obs.Category = ingest.ClassifyTitle(obs.Title)
	}

	res, err := s.app.AnalyzeEvent(c.Request().Context(), obs)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, analysisResponse{Observation: obs, Result: res}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyzeRawEvent(c echo.Context) error {
	var raw ingest.RawEvent
	if err := c.Bind(&raw); err != nil {
		return apperrors.ValidationError("invalid raw event body", err)
	}

	obs, res, err := s.app.AnalyzeRawEvent(c.Request().Context(), raw)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, analysisResponse{Observation: obs, Result: res}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleRecentEvents(c echo.Context) error {
	currency, err := domain.ParseCurrency(c.Param("currency"))
	if err != nil {
		return apperrors.ValidationError("unsupported currency", err).WithField("currency", c.Param("currency"))
	}

	limit := domain.MaxRecentEvents
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return apperrors.ValidationError("limit must be a positive integer", err).WithField("limit", raw)
		}
	}

	events, err := s.app.RecentEvents(c.Request().Context(), currency, limit)
	if err != nil {
		return apperrors.UnavailableError("failed to load recent events", err).WithField("currency", string(currency))
	}
	if events == nil {
		events = []domain.AnalyzedEvent{}
	}

	if err := c.JSON(http.StatusOK, recentEventsResponse{Currency: currency, Events: events}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
