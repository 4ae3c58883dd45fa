package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatewatch/gate-metrics-service/internal/auth"
	"github.com/gatewatch/gate-metrics-service/internal/config"
	"github.com/gatewatch/gate-metrics-service/internal/handlers"
	"github.com/gatewatch/gate-metrics-service/internal/ingest"
	"github.com/gatewatch/gate-metrics-service/internal/metrics"
	"github.com/gatewatch/gate-metrics-service/internal/realtime"
	"github.com/gatewatch/gate-metrics-service/internal/store"
	"github.com/gatewatch/gate-metrics-service/internal/webhook"
)

// Deps bundles everything the router needs.
type Deps struct {
	Store    *store.PostgresStore
	Ingest   *ingest.Service
	Engine   *metrics.Engine
	Registry *webhook.Registry
	Hub      *realtime.Hub
	Tokens   *auth.TokenService
	Limiter  *auth.Limiter
}

// NewRouter wires public endpoints and the authenticated API.
// Public: /health, /ready, /auth/token
// Authenticated (bearer JWT): gate metrics, webhooks, and the realtime
// channel. Everything except the probes is behind the request ceiling.
func NewRouter(cfg config.Config, d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// The request ceiling covers every endpoint from here on, token
	// issuance included, so credential guessing hits the same wall as
	// everything else. Only the probes sit in front of it; readiness
	// pollers must not burn the API budget.
	r.Use(auth.RateLimitMiddleware(d.Limiter))

	handlers.RegisterAuthRoutes(r, d.Tokens, cfg.AuthUsername, cfg.AuthPassword)

	authGroup := r.Group("/")
	authGroup.Use(auth.BearerMiddleware(d.Tokens))

	handlers.RegisterGateMetricRoutes(authGroup, d.Ingest, d.Engine)
	handlers.RegisterWebhookRoutes(authGroup, d.Registry)

	// Realtime channel; the token may arrive as ?access_token= because
	// websocket clients cannot always set headers.
	authGroup.GET("/hubs/gateevents", func(c *gin.Context) {
		d.Hub.ServeHTTP(c.Writer, c.Request)
	})

	return r
}

// shutdownTimeout bounds the drain of in-flight requests on shutdown.
const shutdownTimeout = 5 * time.Second

// Serve runs srv until ctx is cancelled, then drains in-flight requests
// and returns, so the caller regains control after a termination signal
// instead of blocking in the listener forever. A listener failure is
// returned as-is.
func Serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
