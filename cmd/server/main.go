package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/keonwoo-dev/todo-mcp/internal/config"
	todohttp "github.com/keonwoo-dev/todo-mcp/internal/http"
	"github.com/keonwoo-dev/todo-mcp/internal/mcp"
	"github.com/keonwoo-dev/todo-mcp/internal/service"
	"github.com/keonwoo-dev/todo-mcp/internal/store"
)

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Absent .env is fine; env vars win either way.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"port", cfg.ServerPort,
		"backend", cfg.Backend,
		"todo_file", cfg.TodoFile,
		"log_level", cfg.LogLevel,
	)

	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("store ready", "backend", cfg.Backend)

	todoSvc := service.NewTodoService(st)

	mcpSrv := mcp.NewServer(todoSvc)

	srv := todohttp.NewServer(cfg.ServerPort, logger, todoSvc, mcp.HTTPHandler(mcpSrv))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

func newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := store.NewDB(cfg.DB.DSN())
		if err != nil {
			return nil, err
		}
		return store.NewPostgres(ctx, db)
	default:
		s, err := store.Open(cfg.TodoFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open todo store: %w", err)
		}
		return s, nil
	}
}
