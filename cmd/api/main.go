package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/books-api/cmd/api/book"
	"github.com/books-api/cmd/api/config"
	"github.com/books-api/cmd/api/database"
	bookhttp "github.com/books-api/cmd/api/http"
	"github.com/books-api/cmd/api/logging"
	"github.com/books-api/cmd/api/notifications"
	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"
)

const (
	bindHost        = "127.0.0.1"
	bindPort        = 8080
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	err := run()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, flush := logging.Setup(cfg)
	defer flush()

	//connect to db:
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	dbObject, err := database.ConnectDb(ctx, cfg.DatabaseURL, database.MaxOpenConns, logger)
	if err != nil {
		return fmt.Errorf("connecting with db: %w", err)
	}
	defer dbObject.Close()

	store := database.NewStore(dbObject)

	//apply migrations:
	if cfg.MigrationsPath != "" {
		err = database.MigrationUp(cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrating: %w", err)
		}
	}

	ntfy := notifications.NewNtfy(cfg.NotificationsEnabled, cfg.NotificationsBaseURL, &http.Client{})
	bookService := book.NewService(store, ntfy, cfg.NotificationsTimeout, logger)
	bookHandler := bookhttp.NewBookHandler(bookService, logger)

	//create and init http server:
	server := bookhttp.NewServer(bookhttp.ServerConfig{Host: bindHost, Port: bindPort}, bookHandler, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("unexpected http server error: %w", err)
		}
		close(serverErr)
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-sc:
		logger.Info("shutdown requested", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownRelease()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	logger.Info("graceful shutdown complete")
	return nil
}
