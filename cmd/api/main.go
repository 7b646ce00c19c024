package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"console/api/internal/app"
	"console/api/internal/config"
	"console/api/internal/gateway"
	"console/api/internal/session"
)

func main() {
	cfg := config.Load()

	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisURL) != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid redis url: %v", err)
		}
		redisClient = redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis connection failed: %v", err)
		}
		cancel()
		defer redisClient.Close()
	}

	var sessions session.Store
	if redisClient != nil {
		log.Printf("Using Redis for refresh sessions and the manifest cache")
		sessions = session.NewRedisStoreWithClient(redisClient)
	} else {
		log.Printf("Redis not configured; refresh sessions are in-memory")
		sessions = session.NewMemoryStore()
	}

	gatewayClient := gateway.NewClient(cfg.GatewayURL, cfg.GatewayToken)
	manifests := gateway.NewCache(gatewayClient, redisClient, cfg.ManifestTTL)

	service := app.New(cfg, manifests, sessions)
	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Console API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
