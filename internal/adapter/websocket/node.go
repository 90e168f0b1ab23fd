package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/pscheid92/fxpulse/internal/adapter/metrics"
	"github.com/pscheid92/fxpulse/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const (
	historySize = 20
	historyTTL  = 24 * time.Hour
)

// ScorecardSource provides the current scorecard attached to a bias subscription reply.
type ScorecardSource interface {
	Get(currency domain.Currency) (domain.CurrencyScorecard, error)
}

// connectRequest is the optional JSON payload a client sends with its connect command.
type connectRequest struct {
	Currencies []string `json:"currencies"`
	Events     bool     `json:"events"`
}

// NewNode creates a centrifuge node for anonymous dashboard clients. limits and
// wsMetrics may be nil.
func NewNode(scorecards ScorecardSource, limits *ConnectionLimits, wsMetrics *metrics.WebSocketMetrics, logLevel string) (*centrifuge.Node, error) {
	conf := centrifuge.Config{LogLevel: parseCentrifugeLogLevel(logLevel), LogHandler: slogHandler}
	node, err := centrifuge.New(conf)
	if err != nil {
		return nil, fmt.Errorf("create centrifuge node: %w", err)
	}

	node.OnConnecting(onConnecting(limits, wsMetrics))
	node.OnConnect(onConnect(scorecards, wsMetrics))

	return node, nil
}

// onConnecting accepts anonymous clients within the connection limits and subscribes
// them server-side to the channels named in the connect payload. The slot is held until
// the connection context is done.
func onConnecting(limits *ConnectionLimits, wsMetrics *metrics.WebSocketMetrics) centrifuge.ConnectingHandler {
	return func(ctx context.Context, e centrifuge.ConnectEvent) (centrifuge.ConnectReply, error) {
		subs, err := connectSubscriptions(e.Data)
		if err != nil {
			return centrifuge.ConnectReply{}, centrifuge.DisconnectBadRequest
		}

		ip := clientIP(ctx)
		if ok, reason := limits.Acquire(ip); !ok {
			slog.Warn("WebSocket connection rejected", "reason", reason, "client_ip", ip)
			if wsMetrics != nil {
				wsMetrics.Rejected.WithLabelValues(string(reason)).Inc()
			}
			return centrifuge.ConnectReply{}, centrifuge.DisconnectConnectionLimit
		}
		// ctx ends with the transport, also when the handshake fails after this point.
		context.AfterFunc(ctx, func() { limits.Release(ip) })

		return centrifuge.ConnectReply{
			Credentials:   &centrifuge.Credentials{UserID: ""},
			Subscriptions: subs,
		}, nil
	}
}

// connectSubscriptions parses the optional connect payload. Without a payload a
// client gets every bias channel.
func connectSubscriptions(data []byte) (map[string]centrifuge.SubscribeOptions, error) {
	var req connectRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("decode connect payload: %w", err)
		}
	}

	currencies := domain.SupportedCurrencies()
	if len(req.Currencies) > 0 {
		currencies = currencies[:0]
		for _, raw := range req.Currencies {
			c, err := domain.ParseCurrency(raw)
			if err != nil {
				return nil, err
			}
			currencies = append(currencies, c)
		}
	}

	subs := make(map[string]centrifuge.SubscribeOptions, len(currencies)*2)
	for _, c := range currencies {
		subs[BiasChannel(c)] = centrifuge.SubscribeOptions{EnableRecovery: true}
		if req.Events {
			subs[EventsChannel(c)] = centrifuge.SubscribeOptions{EnableRecovery: true}
		}
	}
	return subs, nil
}

func onConnect(scorecards ScorecardSource, wsMetrics *metrics.WebSocketMetrics) centrifuge.ConnectHandler {
	return func(client *centrifuge.Client) {
		slog.Debug("Client connected", "client_id", client.ID())

		if wsMetrics != nil {
			wsMetrics.ActiveConnections.Inc()
		}

		client.OnSubscribe(func(e centrifuge.SubscribeEvent, cb centrifuge.SubscribeCallback) {
			cb(subscribeReply(scorecards, e.Channel))
		})

		client.OnDisconnect(func(e centrifuge.DisconnectEvent) {
			slog.Debug("Client disconnected", "client_id", client.ID(), "reason", e.Reason)
			if wsMetrics != nil {
				wsMetrics.ActiveConnections.Dec()
			}
		})
	}
}

// subscribeReply validates a client-side subscription. Bias subscriptions carry the
// current scorecard so the dashboard can render before the next update arrives.
func subscribeReply(scorecards ScorecardSource, channel string) (centrifuge.SubscribeReply, error) {
	kind, currency, err := ParseChannel(channel)
	if err != nil {
		return centrifuge.SubscribeReply{}, centrifuge.ErrorUnknownChannel
	}

	options := centrifuge.SubscribeOptions{EnableRecovery: true}
	if kind == KindBias && scorecards != nil {
		sc, err := scorecards.Get(currency)
		if err != nil {
			return centrifuge.SubscribeReply{}, centrifuge.ErrorInternal
		}
		data, err := json.Marshal(sc)
		if err != nil {
			return centrifuge.SubscribeReply{}, centrifuge.ErrorInternal
		}
		options.Data = data
	}

	return centrifuge.SubscribeReply{Options: options}, nil
}

// SetupRedis switches the node to the Redis broker and presence manager so that
// publications reach clients connected to any instance.
func SetupRedis(node *centrifuge.Node, redisURL string) error {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("parse redis URL: %w", err)
	}

	shardConfig := centrifuge.RedisShardConfig{
		Address:  opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}
	shard, err := centrifuge.NewRedisShard(node, shardConfig)
	if err != nil {
		return fmt.Errorf("create redis shard: %w", err)
	}

	brokerConfig := centrifuge.RedisBrokerConfig{Prefix: "fxpulse", Shards: []*centrifuge.RedisShard{shard}}
	broker, err := centrifuge.NewRedisBroker(node, brokerConfig)
	if err != nil {
		return fmt.Errorf("create redis broker: %w", err)
	}
	node.SetBroker(broker)

	pmConfig := centrifuge.RedisPresenceManagerConfig{Prefix: "fxpulse", Shards: []*centrifuge.RedisShard{shard}}
	presenceManager, err := centrifuge.NewRedisPresenceManager(node, pmConfig)
	if err != nil {
		return fmt.Errorf("create redis presence manager: %w", err)
	}
	node.SetPresenceManager(presenceManager)

	return nil
}

func slogHandler(entry centrifuge.LogEntry) {
	attrs := make([]any, 0, len(entry.Fields)*2)
	for k, v := range entry.Fields {
		attrs = append(attrs, k, v)
	}
	switch entry.Level {
	case centrifuge.LogLevelTrace, centrifuge.LogLevelDebug:
		slog.Debug(entry.Message, attrs...)
	case centrifuge.LogLevelInfo:
		slog.Info(entry.Message, attrs...)
	case centrifuge.LogLevelWarn:
		slog.Warn(entry.Message, attrs...)
	case centrifuge.LogLevelError:
		slog.Error(entry.Message, attrs...)
	case centrifuge.LogLevelNone:
	}
}

func parseCentrifugeLogLevel(level string) centrifuge.LogLevel {
	switch level {
	case "debug":
		return centrifuge.LogLevelDebug
	case "warn":
		return centrifuge.LogLevelWarn
	case "error":
		return centrifuge.LogLevelError
	default:
		return centrifuge.LogLevelInfo
	}
}
