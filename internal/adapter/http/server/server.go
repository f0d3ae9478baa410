package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/config"
	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/http/handler"
	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/http/middleware"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/go-chi/chi/v5"
)

const ServiceName = "studylens-api"

type API struct {
	router *chi.Mux
	server *http.Server
	routes Handlers
	m      *middleware.Middleware

	addr string
	cfg  config.ServerConfig
	log  logger.Logger
}

// Handlers groups everything the HTTP API serves.
type Handlers struct {
	Health  *handler.Health
	Auth    *handler.Auth
	Session *handler.Session
	Feed    *handler.Feed
}

func New(cfg config.ServerConfig, h Handlers, authenticator middleware.Authenticator, log logger.Logger) (*API, error) {
	if h.Health == nil || h.Auth == nil || h.Session == nil || h.Feed == nil {
		return nil, errors.New("every handler is required")
	}
	if authenticator == nil {
		return nil, errors.New("authenticator is required")
	}

	api := &API{
		router: chi.NewRouter(),
		routes: h,
		m:    middleware.NewMiddleware(authenticator, log),
		addr: net.JoinHostPort("0.0.0.0", cfg.Port),
		cfg:  cfg,
		log:  log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:         api.addr,
		Handler:      api.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return api, nil
}

// Handler exposes the routed handler chain.
func (a *API) Handler() http.Handler {
	return a.router
}

func (a *API) Stop(ctx context.Context) error {
	timeout := a.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}
