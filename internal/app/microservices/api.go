package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/studylens-dashboard/config"
	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/http/handler"
	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/studylens-dashboard/internal/adapter/http/ws"
	repo "github.com/Temutjin2k/studylens-dashboard/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/studylens-dashboard/internal/adapter/rabbit"
	"github.com/Temutjin2k/studylens-dashboard/internal/service/auth"
	"github.com/Temutjin2k/studylens-dashboard/internal/service/session"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/postgres"
	"github.com/Temutjin2k/studylens-dashboard/pkg/rabbit"
	"github.com/Temutjin2k/studylens-dashboard/pkg/trm"
	ws "github.com/Temutjin2k/studylens-dashboard/pkg/wsHub"
)

// APIService serves the HTTP API and the live feed.
type APIService struct {
	postgresDB *postgres.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	broker     *rabbitadapter.SessionBroker
	hub        *ws.ConnectionHub
	feed       *wshandler.SessionFeed
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewAPI(ctx context.Context, cfg config.Config, version string, log logger.Logger) (_ *APIService, err error) {
	s := &APIService{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			s.close(ctx)
		}
	}()

	s.postgresDB, err = openDatabase(ctx, cfg.Database, log)
	if err != nil {
		log.Error(ctx, "failed to setup database", err)
		return nil, err
	}
	pool := s.postgresDB.Pool

	// repositories
	userRepo := repo.NewUserRepo(pool)
	refreshRepo := repo.NewRefreshTokenRepo(pool)
	sessionRepo := repo.NewSessionRepo(pool)

	// auth
	tokenSvc := auth.NewTokenService(cfg.Auth.JWTSecret, userRepo, refreshRepo, trm.New(pool),
		cfg.Auth.RefreshTokenTTL, cfg.Auth.AccessTokenTTL, log)
	authSvc := auth.NewAuthService(userRepo, tokenSvc, log)

	// live feed
	s.hub = ws.NewConnHub(log)
	s.feed = wshandler.NewSessionFeed(s.hub, log)

	checks := map[string]handler.Pinger{"postgres": pool}

	// without a broker the feed is notified in-process
	opts := remoteOption(cfg.Remote)
	if cfg.RabbitMQ.Enabled {
		s.rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Error(ctx, "failed to connect to rabbitmq", err)
			return nil, err
		}
		s.broker = rabbitadapter.NewSessionBroker(s.rabbitMQ, log)
		opts = append(opts, session.WithNotifier(s.broker))
		checks["rabbitmq"] = rabbitPing(s.rabbitMQ)
	} else {
		opts = append(opts, session.WithNotifier(s.feed))
	}

	sessionSvc := session.New(sessionRepo, userRepo, sessionConfig(cfg.Dashboard), log, opts...)

	s.httpServer, err = server.New(cfg.Server, server.Handlers{
		Health:  handler.NewHealth(server.ServiceName, version, checks, log),
		Auth:    handler.NewAuth(authSvc, log),
		Session: handler.NewSession(sessionSvc, session.SortSafelist(), session.DefaultSort, cfg.Dashboard.PageSize, log),
		Feed:    handler.NewFeed(authSvc, s.hub, cfg.Server.CORSOrigins, log),
	}, authSvc, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		return nil, err
	}

	return s, nil
}

func (s *APIService) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)

	if s.broker != nil {
		go func() {
			if err := s.broker.ConsumeSessionCreated(ctx, s.feed.Relay); err != nil && ctx.Err() == nil {
				errCh <- err
			}
		}()
	}

	s.httpServer.Run(ctx, errCh)
	defer func() {
		cancel()
		s.close(context.WithoutCancel(ctx))
		s.log.Info(ctx, "api service closed")
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	s.log.Info(ctx, "api service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (s *APIService) close(ctx context.Context) {
	ctx = wrap.WithAction(ctx, "api_service_close")

	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.hub != nil {
		s.hub.Close()
	}

	if s.rabbitMQ != nil {
		if err := s.rabbitMQ.Close(ctx); err != nil {
			s.log.Warn(ctx, "failed to close rabbitmq", "error", err.Error())
		}
	}

	s.postgresDB.Close()
}
