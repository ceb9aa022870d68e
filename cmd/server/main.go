package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/hqops/approvalflow/internal/application/dispatcher"
	"github.com/hqops/approvalflow/internal/application/service"
	"github.com/hqops/approvalflow/internal/config"
	"github.com/hqops/approvalflow/internal/domain/event"
	httpserver "github.com/hqops/approvalflow/internal/interfaces/http"
	"github.com/hqops/approvalflow/internal/domain/workflow"
	"github.com/hqops/approvalflow/internal/infrastructure/persistence/sqlite"
	"github.com/hqops/approvalflow/pkg/database"
	"github.com/hqops/approvalflow/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting approval workflow engine",
		zap.Int("port", cfg.Server.Port))

	// A malformed routing table is fatal at startup, never a per-request error.
	table, err := workflow.DefaultTable()
	if err != nil {
		logger.Fatal("Invalid routing configuration", zap.Error(err))
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	appLogger := utils.NewSugarAdapter(logger)

	storeDB := sqlite.NewDB(db.DB, logger)
	store := sqlite.NewTransactionRepository(storeDB, logger)

	emitter := dispatcher.NewDispatcher(dispatcher.WithLogger(appLogger))
	defer emitter.Close()

	// Stand-in for the downstream notification consumers (bell, push, email):
	// they subscribe to the event stream, never to the store.
	notifyLog := func(ctx context.Context, evt *event.Event) error {
		logger.Info("Notification event",
			zap.String("event_type", evt.Type.String()),
			zap.String("transaction_id", evt.TransactionID),
			zap.String("ref_no", evt.RefNo),
			zap.String("old_status", evt.OldStatus.String()),
			zap.String("new_status", evt.NewStatus.String()),
			zap.String("actor_id", evt.ActorID),
		)
		return nil
	}
	emitter.SubscribeNamed(event.TypeTransactionCreated, "notification-log", notifyLog)
	emitter.SubscribeNamed(event.TypeStageChanged, "notification-log", notifyLog)
	emitter.SubscribeNamed(event.TypeTerminalReached, "notification-log", notifyLog)

	engine := service.NewApprovalEngine(store, table, emitter, appLogger)
	submission := service.NewSubmissionService(store, table, emitter, appLogger)
	query := service.NewQueryService(store, appLogger)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		engine,
		submission,
		query,
		appLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}
