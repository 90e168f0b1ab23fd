package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/fxpulse/internal/adapter/metrics"
	"github.com/pscheid92/fxpulse/internal/domain"
)

const (
	MessageScorecardUpdated = "scorecard.updated"
	MessageEventAnalyzed    = "event.analyzed"
)

// Envelope wraps every publication so clients can de-duplicate and order messages.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

type eventAnalyzed struct {
	Observation domain.EventObservation `json:"observation"`
	Result      domain.SentimentResult  `json:"result"`
}

// Publisher implements domain.EventPublisher on top of a centrifuge node.
type Publisher struct {
	node      *centrifuge.Node
	clock     clockwork.Clock
	wsMetrics *metrics.WebSocketMetrics
}

var _ domain.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher. wsMetrics may be nil.
func NewPublisher(node *centrifuge.Node, clock clockwork.Clock, wsMetrics *metrics.WebSocketMetrics) *Publisher {
	return &Publisher{node: node, clock: clock, wsMetrics: wsMetrics}
}

func (p *Publisher) PublishScorecardUpdated(ctx context.Context, scorecard domain.CurrencyScorecard) error {
	return p.publish(ctx, KindBias, BiasChannel(scorecard.Currency), MessageScorecardUpdated, scorecard)
}

func (p *Publisher) PublishEventAnalyzed(ctx context.Context, observation domain.EventObservation, result domain.SentimentResult) error {
	payload := eventAnalyzed{Observation: observation, Result: result}
	return p.publish(ctx, KindEvents, EventsChannel(observation.Currency), MessageEventAnalyzed, payload)
}

func (p *Publisher) publish(ctx context.Context, kind ChannelKind, channel, msgType string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", msgType, err)
	}

	msg, err := json.Marshal(Envelope{
		ID:        uuid.NewString(),
		Type:      msgType,
		Timestamp: p.clock.Now().UTC(),
		Payload:   data,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if _, err := p.node.Publish(channel, msg, centrifuge.WithHistory(historySize, historyTTL)); err != nil {
		if p.wsMetrics != nil {
			p.wsMetrics.PublishErrors.WithLabelValues(string(kind)).Inc()
		}
		return fmt.Errorf("publish to channel %s: %w", channel, err)
	}

	if p.wsMetrics != nil {
		p.wsMetrics.MessagesPublished.WithLabelValues(string(kind)).Inc()
	}
	return nil
}
