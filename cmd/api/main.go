package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gatewatch/gate-metrics-service/internal/auth"
	"github.com/gatewatch/gate-metrics-service/internal/config"
	"github.com/gatewatch/gate-metrics-service/internal/generator"
	"github.com/gatewatch/gate-metrics-service/internal/httpserver"
	"github.com/gatewatch/gate-metrics-service/internal/ingest"
	"github.com/gatewatch/gate-metrics-service/internal/metrics"
	"github.com/gatewatch/gate-metrics-service/internal/realtime"
	"github.com/gatewatch/gate-metrics-service/internal/store"
	"github.com/gatewatch/gate-metrics-service/internal/webhook"
)

// main boots the service: config → DB → schema → pipeline → HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTKey == "" {
		log.Println("warning: JWT_KEY is not set; token issuance will fail and authenticated endpoints stay locked")
	}

	// Connect to durable storage (Postgres) using a connection pool.
	db, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Ensure required tables/indexes exist so `docker compose up --build` is enough.
	if err := db.EnsureSchema(); err != nil {
		log.Fatal(err)
	}

	// Background work (dispatcher, generator) stops on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := webhook.NewRegistry()
	dispatcher := webhook.NewDispatcher(ctx, registry)
	hub := realtime.NewHub()

	ingestSvc := ingest.NewService(db, dispatcher, ingest.NotifierFunc(hub.Broadcast))
	engine := metrics.NewEngine(db)
	tokens := auth.NewTokenService(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenExpiryMins)
	limiter := auth.NewLimiter(ctx, cfg.RateLimit, cfg.RateLimitWindow)

	// Synthetic gate sensor exercises the same write path as external callers.
	go generator.New(ingestSvc, cfg.GeneratorInterval).Run(ctx)

	router := httpserver.NewRouter(cfg, httpserver.Deps{
		Store:    db,
		Ingest:   ingestSvc,
		Engine:   engine,
		Registry: registry,
		Hub:      hub,
		Tokens:   tokens,
		Limiter:  limiter,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: router}

	log.Println("server started on " + cfg.Addr)
	if err := httpserver.Serve(ctx, srv); err != nil {
		log.Fatal(err)
	}

	// Restore the default signal disposition so a second SIGINT/SIGTERM
	// during draining kills the process outright.
	stop()
	dispatcher.Wait()
	log.Println("server stopped")
}
