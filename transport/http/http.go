package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"pos/config"
	_ "pos/docs" // swagger spec
	"pos/infras/otel"
	"pos/internal/domains/activity/tracker"
	"pos/shared/event"
	"pos/transport/http/middleware"
	"pos/transport/http/response"
	"pos/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ServerState int

const flushTimeout = 5 * time.Second

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

var stateNames = map[ServerState]string{
	ServerStateReady:           "ready",
	ServerStateInGracePeriod:   "grace_period",
	ServerStateInCleanupPeriod: "cleanup_period",
}

func (s ServerState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "starting"
}

type HealthResponse struct {
	Status string `json:"status"`
	App    string `json:"app"`
}

type HTTP struct {
	Config  *config.Config
	Router  router.Router
	State   ServerState
	app     middleware.AppMiddleware
	auth    middleware.AuthRole
	emitter event.Emitter
	tracker *tracker.Tracker
	otel    otel.Otel
	mux     *chi.Mux
	server  *http.Server
	once    sync.Once
	mu      sync.RWMutex
}

func New(
	cfg *config.Config,
	r router.Router,
	app middleware.AppMiddleware,
	auth middleware.AuthRole,
	emitter event.Emitter,
	tracker *tracker.Tracker,
	ot otel.Otel,
) *HTTP {
	return &HTTP{
		Config:  cfg,
		Router:  r,
		app:     app,
		auth:    auth,
		emitter: emitter,
		tracker: tracker,
		otel:    ot,
	}
}

func (h *HTTP) Serve() {
	h.setup()
	h.setupGracefulShutdown()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// ServeHTTP lets the server run behind a serverless entrypoint.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()
	h.mux.ServeHTTP(w, r)
}

func (h *HTTP) state() ServerState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.State
}

func (h *HTTP) setState(state ServerState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.State = state
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.emitter.Start(context.Background())
		h.setupRoutes()
		h.setState(ServerStateReady)
	})
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(chiMiddleware.RequestID)
	h.mux.Use(chiMiddleware.Recoverer)

	if h.Config.App.CORS.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	h.mux.Use(h.app.Tracing)

	if h.Config.Metrics.Enable {
		h.mux.Use(h.app.Metrics)
		h.mux.Handle(h.Config.Metrics.Path, promhttp.Handler())
	}

	h.mux.Get("/health", h.health)
	h.mux.Get("/swagger/*", httpSwagger.WrapHandler)

	h.mux.Group(func(r chi.Router) {
		r.Use(h.app.RateLimit())
		r.Use(h.auth.APIKey)
		r.Use(h.auth.Auth)
		r.Use(h.auth.RBAC)

		h.Router.SetupRoutes(r)
	})
}

// health answers 503 once shutdown has begun so load balancers stop routing here.
func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	switch h.state() {
	case ServerStateReady:
		response.WithJSON(w, http.StatusOK, HealthResponse{Status: ServerStateReady.String(), App: h.Config.App.Name})
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(w)
	default:
		response.WithUnhealthy(w)
	}
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	defer h.cleanup()

	if h.Config.Server.Env == "development" {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.setState(ServerStateInGracePeriod)

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.setState(ServerStateInCleanupPeriod)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server did not drain in time")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

// cleanup stops tracking sessions before the emitter so their last events are still flushed.
func (h *HTTP) cleanup() {
	h.tracker.StopAll()
	h.emitter.Close()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := h.otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to flush traces")
	}

	if h.server != nil {
		_ = h.server.Close()
	}
}
