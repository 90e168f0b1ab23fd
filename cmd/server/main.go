package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/fxpulse/internal/adapter/httpserver"
	"github.com/pscheid92/fxpulse/internal/adapter/metrics"
	"github.com/pscheid92/fxpulse/internal/adapter/redis"
	"github.com/pscheid92/fxpulse/internal/adapter/websocket"
	"github.com/pscheid92/fxpulse/internal/app"
	"github.com/pscheid92/fxpulse/internal/domain"
	"github.com/pscheid92/fxpulse/internal/ingest"
	"github.com/pscheid92/fxpulse/internal/platform/config"
	"github.com/pscheid92/fxpulse/internal/platform/logging"
	"github.com/pscheid92/fxpulse/internal/platform/version"
	"github.com/pscheid92/fxpulse/internal/sentiment"
	goredis "github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(cfg *config.Config, reg prometheus.Registerer) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL, metrics.NewRedisMetrics(reg))
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupNode(cfg *config.Config, store domain.ScorecardStore, wsMetrics *metrics.WebSocketMetrics) *centrifuge.Node {
	limits := websocket.NewConnectionLimits(cfg.MaxWebSocketConnections, cfg.MaxWebSocketConnectionsPerIP)
	node, err := websocket.NewNode(store, limits, wsMetrics, cfg.LogLevel)
	if err != nil {
		slog.Error("Failed to create centrifuge node", "error", err)
		os.Exit(1)
	}

	if cfg.RedisURL != "" {
		if err := websocket.SetupRedis(node, cfg.RedisURL); err != nil {
			slog.Error("Failed to set up centrifuge Redis broker", "error", err)
			os.Exit(1)
		}
	}

	if err := node.Run(); err != nil {
		slog.Error("Failed to start centrifuge node", "error", err)
		os.Exit(1)
	}
	return node
}

func applySeed(appSvc *app.Service, path string) {
	seed, err := ingest.LoadSeedFile(path)
	if err != nil {
		slog.Error("Failed to load seed file", "path", path, "error", err)
		os.Exit(1)
	}

	applied, err := appSvc.ApplySeed(context.Background(), seed)
	if err != nil {
		slog.Error("Failed to apply seed", "path", path, "error", err)
		os.Exit(1)
	}
	for _, sc := range applied {
		slog.Info("Seeded scorecard", "currency", sc.Currency, "weighted_bias_score", sc.WeightedBiasScore, "bias", sc.Bias)
	}
}

func runGracefulShutdown(srv *httpserver.Server, node *centrifuge.Node, stopTicker context.CancelFunc, tickerDone <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		stopTicker()
		<-tickerDone

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := node.Shutdown(shutdownCtx); err != nil {
			slog.Error("Centrifuge shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "build", version.Get())

	reg := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)
	wsMetrics := metrics.NewWebSocketMetrics(reg)
	engineMetrics := metrics.NewEngineMetrics(reg)

	store := sentiment.NewInMemoryStore(clock)

	var eventLog domain.EventLog = sentiment.NewInMemoryEventLog(domain.MaxRecentEvents)
	var healthChecks []httpserver.HealthCheck
	if cfg.RedisURL != "" {
		redisClient := setupRedis(cfg, reg)
		defer func() { _ = redisClient.Close() }()

		eventLog = redis.NewEventLog(redisClient, domain.MaxRecentEvents)
		healthChecks = append(healthChecks, httpserver.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	} else {
		slog.Info("REDIS_URL not set, keeping recent events in memory")
	}

	node := setupNode(cfg, store, wsMetrics)
	publisher := websocket.NewPublisher(node, clock, wsMetrics)

	appSvc := app.NewService(store, sentiment.Analyzer{}, eventLog, publisher, engineMetrics, clock)
	if cfg.SeedFile != "" {
		applySeed(appSvc, cfg.SeedFile)
	}

	tickerCtx, stopTicker := context.WithCancel(context.Background())
	tickerDone := make(chan struct{})
	ticker := app.NewRecomputeTicker(appSvc, clock, cfg.RecomputeInterval)
	go func() {
		defer close(tickerDone)
		ticker.Run(tickerCtx)
	}()

	wsHandler := centrifuge.NewWebsocketHandler(node, centrifuge.WebsocketConfig{
		CheckOrigin: websocket.NewCheckOrigin(cfg.AppURL, !cfg.IsProduction(), cfg.AllowedOrigins...),
	})

	srv := httpserver.NewServer(cfg, appSvc, wsHandler, metrics.Handler(reg), httpMetrics, clock, healthChecks)

	done := runGracefulShutdown(srv, node, stopTicker, tickerDone)

	if err := srv.Start(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
