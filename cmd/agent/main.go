package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"lia_agent/internal/adapter/http/handlers"
	"lia_agent/internal/adapter/http/routes"
	"lia_agent/internal/adapter/persistence/repository"
	"lia_agent/internal/config"
	"lia_agent/internal/infrastructure/collaborators"
	"lia_agent/internal/infrastructure/database"
	"lia_agent/internal/usecase"
	"lia_agent/pkg/logger"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	settings := config.Load()

	zlog, err := logger.New(settings.Environment, settings.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ddb, err := database.ConnectDynamoDB(context.Background())
	if err != nil {
		zlog.Fatal("dynamodb_connect_failed", zap.Error(err))
	}

	queueRepo := repository.NewQueueDynamoRepository(ddb)
	sessionRepo := repository.NewSessionDynamoRepository(ddb)
	catalogRepo := repository.NewCatalogDynamoRepository(ddb)

	messenger := collaborators.NewLogMessenger(zlog)
	submitter := collaborators.NewMockOrderSubmitter(zlog)
	complexIntent := collaborators.NewUnconfiguredComplexIntentHandler(zlog)

	turnUC := usecase.NewTurnUseCase(sessionRepo, catalogRepo, messenger, submitter, complexIntent, zlog)
	intakeUC := usecase.NewIntakeUseCase(queueRepo, usecase.IntakeOptions{
		DebounceWindow: settings.DebounceWindow,
		LockDuration:   settings.LockDuration,
		MaxAttempts:    settings.MaxAttempts,
		WorkerCount:    settings.WorkerCount,
		ClaimInterval:  settings.ClaimInterval,
	}, zlog)

	router := routes.NewRouter(
		settings.Environment,
		zlog,
		handlers.NewSessionHandler(sessionRepo),
		handlers.NewIntakeHandler(intakeUC, settings.DefaultTenant),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", settings.HTTPPort),
		Handler: router,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("workers_starting", zap.Int("count", settings.WorkerCount))
		return intakeUC.RunWorkers(ctx, turnUC.ProcessTurn)
	})
	g.Go(func() error {
		zlog.Info("http_listening", zap.Int("port", settings.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		zlog.Fatal("agent_stopped", zap.Error(err))
	}
	zlog.Info("agent_stopped")
}
