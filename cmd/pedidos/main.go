package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"simblissima-pedidos/cmd/pedidos/config"
	"simblissima-pedidos/internal/pedidos"
	"simblissima-pedidos/internal/pedidos/backend"
	"simblissima-pedidos/internal/pedidos/data/database"
	"simblissima-pedidos/internal/pedidos/data/kvrepository"
	"simblissima-pedidos/internal/pedidos/data/memory"
	"simblissima-pedidos/internal/pedidos/expansion"
	"simblissima-pedidos/internal/pedidos/render"
	"simblissima-pedidos/internal/pedidos/view"
	"simblissima-pedidos/pkg/logging"
	"simblissima-pedidos/pkg/pgxstorage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewZapLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() //nolint:errcheck // nothing left to report to

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	storage, transactionManager, closeStorage, err := createStorage(rootCtx, cfg, logger)
	if err != nil {
		logger.ErrorCtx(rootCtx, "Failed to create storage", zap.Error(err))
		return
	}
	defer closeStorage()

	tokenAuth := jwtauth.New(cfg.JWTConfig.Algorithm, []byte(cfg.JWTConfig.Secret), nil)
	backendClient := backend.New(cfg.Backend, logger)
	renderer := render.New(cfg.Location)
	registry := view.NewRegistry(cfg.Views, backendClient, storage, transactionManager, renderer, logger)

	server := pedidos.NewServer(cfg.Server, tokenAuth, registry, backendClient, renderer, logger)

	if err := run(rootCtx, cfg, server, registry, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

// createStorage picks PostgreSQL when a connection string is configured and process memory otherwise.
func createStorage(
	ctx context.Context,
	cfg *config.Config,
	logger *logging.ZapLogger,
) (expansion.KeyValueStorage, expansion.TransactionManager, func(), error) {
	if cfg.DB.ConnectionString == "" {
		logger.InfoCtx(ctx, "No database configured, keeping expansion state in memory")
		storage := memory.New()
		return storage, storage, func() {}, nil
	}

	dbFactory := database.NewPgxDatabaseFactory(cfg.DB, logger)
	dbStorage, err := pgxstorage.New(ctx, dbFactory)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repository := kvrepository.New(dbStorage, logger)
	transactionManager := pgxstorage.NewTransactionsManager(dbStorage)
	return repository, transactionManager, dbStorage.Close, nil
}

func run(
	rootCtx context.Context,
	cfg *config.Config,
	server *pedidos.Server,
	registry *view.Registry,
	logger *logging.ZapLogger,
) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		registry.RunJanitor(ctx)
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		registry.CloseAll(ctx)
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
