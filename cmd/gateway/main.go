package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokoku/gateway/internal/backend"
	"tokoku/gateway/internal/backend/memory"
	"tokoku/gateway/internal/backend/rest"
	"tokoku/gateway/internal/cache"
	"tokoku/gateway/internal/config"
	"tokoku/gateway/internal/httpapi"
	"tokoku/gateway/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var client backend.Client
	closers := make([]func() error, 0, 1)

	if cfg.UpstreamBaseURL != "" {
		restClient, err := rest.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
		if err != nil {
			log.Fatalf("invalid UPSTREAM_BASE_URL: %v", err)
		}
		client = restClient
		log.Printf("backend: upstream at %s", cfg.UpstreamBaseURL)
	} else {
		client = memory.NewSeeded()
		log.Println("backend: in-memory")
	}

	snapshotCache := cache.SnapshotCache(cache.NoopSnapshotCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisSnapshotCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop cache", err)
		} else {
			snapshotCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("cache: redis")
		}
	} else {
		log.Println("cache: noop")
	}

	svc := service.New(client, snapshotCache, service.Options{
		SnapshotTTL:        cfg.SnapshotTTL,
		FastForwardDelay:   cfg.FastForwardDelay,
		ScannerResumeDelay: cfg.ScannerResumeDelay,
	})
	verifier := httpapi.NewTokenVerifier(cfg.AuthSecret)
	api := httpapi.New(svc, verifier, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("gateway listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("gateway stopped")
}
