package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/api"
	"supercluster/apps/supercluster/internal/config"
	"supercluster/apps/supercluster/internal/event_publisher"
	"supercluster/apps/supercluster/internal/ledger"
	"supercluster/apps/supercluster/internal/poller"
	"supercluster/apps/supercluster/internal/preferences"
	"supercluster/apps/supercluster/internal/repository"
	"supercluster/apps/supercluster/internal/withdrawal"
)

func main() {
	// Initialize zap logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	// Load configuration from environment variables
	cfg := config.NewConfig()

	logger.Info("Starting application with configuration",
		zap.String("rpc_url", cfg.RpcURL),
		zap.String("db_url", cfg.DbURL),
		zap.String("kafka_broker", cfg.KafkaBroker),
		zap.String("kafka_topic", cfg.KafkaTopic),
		zap.Int64("chain_id", cfg.ChainID),
		zap.Int("api_port", cfg.APIPort),
		zap.Int("refresh_interval_seconds", cfg.RefreshInterval),
	)

	// Connect to database
	db, err := sql.Open("postgres", cfg.DbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize database tables
	if err := repository.InitMigration(db); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	walletRepository := repository.NewWalletRepository(db, logger)
	snapshotRepository := repository.NewSnapshotRepository(db, logger)
	outboxRepository := repository.NewOutboxRepository(db, logger)
	preferenceRepository := repository.NewPreferenceRepository(db, logger)

	// Connect to the withdrawal queue contract
	ledgerClient, err := ledger.NewClient(cfg.RpcURL, cfg.SignerKey, cfg.ChainID, logger)
	if err != nil {
		logger.Fatal("Failed to create ledger client", zap.Error(err))
	}
	defer ledgerClient.Close()

	requestRepository := withdrawal.NewRepository(ledgerClient, logger)
	orchestrator := withdrawal.NewOrchestrator(ledgerClient, ledgerClient, logger)
	preferenceService := preferences.NewService(preferenceRepository, logger)

	// Create event publisher
	eventPublisher, err := event_publisher.NewEventPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger, outboxRepository)
	if err != nil {
		logger.Fatal("Failed to create event publisher", zap.Error(err))
	}
	defer eventPublisher.Close()

	// Start event publisher in background
	go eventPublisher.StartPublishing()

	// Create queue poller
	queuePoller := poller.New(
		requestRepository,
		withdrawal.SystemClock,
		walletRepository,
		snapshotRepository,
		outboxRepository,
		time.Duration(cfg.RefreshInterval)*time.Second,
		cfg.ChainID,
		logger)

	pollerCtx, cancelPoller := context.WithCancel(context.Background())
	defer cancelPoller()

	// Start poller in background
	go func() {
		if err := queuePoller.Start(pollerCtx); err != nil && err != context.Canceled {
			logger.Fatal("Poller failed", zap.Error(err))
		}
	}()

	// Create and start API server
	withdrawalHandler := api.NewWithdrawalHandler(
		requestRepository,
		orchestrator,
		queuePoller,
		walletRepository,
		preferenceService,
		withdrawal.SystemClock,
		cfg.ChainID,
		logger)
	apiServer := api.NewServer(
		cfg.APIPort,
		withdrawalHandler,
		api.NewBalanceHandler(ledgerClient, logger),
		api.NewPreferenceHandler(preferenceService, logger),
		api.NewInfoHandler(logger),
		logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Fatal("API server failed", zap.Error(err))
		}
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Received shutdown signal, starting graceful shutdown...")

	cancelPoller()

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown API server gracefully
	if err := apiServer.Stop(ctx); err != nil {
		logger.Error("Error shutting down API server", zap.Error(err))
	}

	logger.Info("Application shutdown complete")
}
