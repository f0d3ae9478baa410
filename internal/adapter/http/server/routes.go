package server

import (
	"github.com/Temutjin2k/studylens-dashboard/docs"
	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

func (a *API) setupRoutes() {
	r := a.router

	r.Use(a.m.Recover)
	r.Use(a.m.RequestID)
	r.Use(a.m.Logging)
	r.Use(a.m.Metrics(ServiceName))
	r.Use(middleware.CORS(a.cfg.CORSOrigins))
	r.Use(a.m.Auth)

	// System
	r.Get("/health", a.routes.Health.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.InstanceName(docs.InstanceName)))

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(a.cfg.LoginRateLimit, a.cfg.LoginRateWindow))
			r.Post("/register", a.routes.Auth.Register)
			r.Post("/login", a.routes.Auth.Login)
		})
		r.Post("/refresh", a.routes.Auth.Refresh)
		r.With(a.m.RequireAuth).Get("/me", a.routes.Auth.Profile)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Use(a.m.RequireAuth)
		r.Post("/", a.routes.Session.Create)
		r.Get("/", a.routes.Session.List)
		r.Get("/dashboard", a.routes.Session.Dashboard)
		r.Get("/log", a.routes.Session.Log)
	})

	// authenticates inside the socket, so it is not behind RequireAuth
	r.Get("/ws/sessions", a.routes.Feed.HandleWS)
}
