// cmd/forum-server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"goforum/forum"
	"goforum/internal/logger"
	"goforum/internal/server"
)

func main() {
	if err := loadConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
		}
	}
	log := logger.Get(viper.GetString("log.level"))

	store, err := openStore(log)
	if err != nil {
		log.Fatalw("could not initialize store", "err", err)
	}

	sessions := forum.NewSessionManager()
	handlers, err := forum.NewHandlers(store, sessions, viper.GetString("templates.glob"), log)
	if err != nil {
		log.Fatalw("could not create forum handlers", "err", err)
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux)

	srv := &server.Server{}
	port := viper.GetString("port")
	go func() {
		log.Infow("starting forum server", "port", port)
		if err := srv.Run(port, sessions.LoadAndSave(mux)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "err", err)
		}
	}()

	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.SetDefault("port", "8080")
	viper.SetDefault("store", "postgres")
	viper.SetDefault("templates.glob", "web/templates/*.html")
	viper.SetDefault("log.level", logger.InfoLevel)

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openStore picks the store backend from config. DATABASE_URL overrides
// the configured connection string.
func openStore(log *logger.Logger) (forum.Store, error) {
	if viper.GetString("store") == "memory" {
		log.Infow("using in-memory store; data will not survive a restart")
		return forum.NewMemoryStore(), nil
	}

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		connString = viper.GetString("db.url")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := forum.NewPostgresStore(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := store.CreateTables(ctx); err != nil {
		return nil, err
	}
	log.Infow("connected to the database")
	return store, nil
}

func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
