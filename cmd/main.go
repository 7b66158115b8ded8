package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osjaeyoung/bbanggri-server/internal/cache"
	"github.com/osjaeyoung/bbanggri-server/internal/config"
	"github.com/osjaeyoung/bbanggri-server/internal/handler"
	"github.com/osjaeyoung/bbanggri-server/internal/hub"
	"github.com/osjaeyoung/bbanggri-server/internal/notification"
	"github.com/osjaeyoung/bbanggri-server/internal/service"
	"github.com/osjaeyoung/bbanggri-server/internal/store"
	"github.com/osjaeyoung/bbanggri-server/pkg/database"
	"github.com/osjaeyoung/bbanggri-server/pkg/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.L().Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Init(cfg.Log)
	logger := log.L()

	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting relay server")

	// Connect to the message store
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	if err := database.AutoMigrate(db, store.Models()...); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}

	var messageStore store.MessageStore = store.NewGormStore(db)

	// Optional redis cache in front of the push-path lookups
	if cfg.Redis.Enabled {
		profileCache, err := cache.NewRedisProfileCache(cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, push lookups go straight to the database")
		} else {
			defer profileCache.Close()
			messageStore = store.NewCachedStore(messageStore, profileCache)
			logger.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")
		}
	}

	// FCM pusher
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pusher, err := notification.NewFCMPusher(ctx, cfg.FCM.CredentialsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise fcm pusher")
	}
	logger.Info().Str("credentials", cfg.FCM.CredentialsFile).Msg("fcm messaging ready")

	// Room registry
	wsHub := hub.NewHub()
	go wsHub.Run()

	// Relay protocol engine
	relay := service.NewRelayService(wsHub, messageStore, pusher, cfg.FCM.Title)

	// WebSocket transport
	wsHandler := handler.NewWSHandler(wsHub, relay, cfg.WebSocket)

	mux := http.NewServeMux()
	wsHandler.RegisterRoutes(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("relay server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down relay server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("relay server stopped")
}
