// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"brandpulse/internal/adapter/news"
	"brandpulse/internal/adapter/stock"
	"brandpulse/internal/adapter/storage"
	"brandpulse/internal/adapter/trends"
	"brandpulse/internal/cache"
	"brandpulse/internal/config"
	"brandpulse/internal/domain/sentiment"
	"brandpulse/internal/logger"
	"brandpulse/internal/server"
	"brandpulse/internal/service/analysis"
	"brandpulse/internal/service/analytics"
	"brandpulse/internal/service/classify"
	"brandpulse/internal/service/ingest"
	reportsvc "brandpulse/internal/service/report"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogLevel)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := storage.EnsureSchema(ctx, db); err != nil {
		logger.Log.Fatalf("Failed to ensure database schema: %v", err)
	}

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	// Initialize storage adapters
	reportStore := storage.NewReportStore(db)

	// Initialize the ingestion pipeline
	classifier := classify.NewVaderClassifier()
	normalizer := ingest.NewNormalizer(classifier)

	newsSource := news.NewGoogleNewsSource(news.GoogleNewsConfig{
		BaseURL:        cfg.News.BaseURL,
		RequestTimeout: cfg.News.RequestTimeout,
		RequestsPerMin: cfg.News.RequestsPerMin,
		MaxArticles:    cfg.News.MaxArticles,
	})

	appCache := cache.New()
	collector := ingest.NewCachedCollector(newsSource, normalizer, appCache, cfg.Analysis.NewsTTL)

	// Social mentions stay off without a token
	var mentionSource sentiment.MentionSource
	if cfg.Social.BearerToken != "" {
		mentionSource = news.NewTwitterSource(cfg.Social.BearerToken, cfg.News.RequestTimeout)
	}

	// Initialize analytics services
	aggregator := analytics.NewRegionalAggregator(collector, cfg.Analysis.CellWorkers)
	trendsClient := trends.NewClient(cfg.Trends.BaseURL, cfg.Trends.Window, cfg.Trends.RequestTimeout)
	stockClient := stock.NewClient(cfg.Stock.BaseURL, cfg.Stock.RequestTimeout)
	renderer := reportsvc.NewRenderer()

	sweepRegions := sentiment.RegionsFor(cfg.Analysis.RegionCodes)
	if len(sweepRegions) == 0 {
		sweepRegions = sentiment.DefaultRegions()
	}

	// Initialize the run coordinator
	runner := analysis.NewService(
		aggregator,
		collector,
		mentionSource,
		normalizer,
		trendsClient,
		stockClient,
		renderer,
		reportStore,
		natsConn,
		appCache,
		analysis.Config{
			Regions:     sweepRegions,
			NewsTTL:     cfg.Analysis.NewsTTL,
			SweepTTL:    cfg.Analysis.SweepTTL,
			EventsTopic: cfg.NATS.EventsTopic,
			MaxMentions: cfg.Social.MaxMentions,
		},
	)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		cfg.Analysis.RunTimeout,
		natsConn,
		cfg.NATS.EventsTopic,
		runner,
		reportStore,
	)

	// Start HTTP server
	go func() {
		logger.Log.Infof("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Log.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("HTTP server shutdown error: %v", err)
	}

	logger.Log.Info("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Log.Warnf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Log.Infof("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Log.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
