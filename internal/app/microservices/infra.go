package microservices

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Temutjin2k/studylens-dashboard/config"
	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/postgres/migrations"
	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/remote"
	"github.com/Temutjin2k/studylens-dashboard/internal/service/session"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/postgres"
	"github.com/Temutjin2k/studylens-dashboard/pkg/rabbit"
)

var errBrokerDown = errors.New("rabbitmq connection is closed")

// openDatabase connects the pool and applies pending migrations when enabled.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) (*postgres.PostgreDB, error) {
	ctx = wrap.WithAction(ctx, "database_setup")

	if cfg.AutoMigrate {
		if err := migrateUp(cfg.GetDSN()); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		log.Info(ctx, "database schema is up to date")
	}

	db, err := postgres.New(ctx, cfg,
		postgres.WithMaxConns(cfg.MaxConns),
		postgres.WithMinConns(cfg.MinConns),
		postgres.WithMaxConnLifetime(cfg.MaxConnLifetime),
		postgres.WithMaxConnIdleTime(cfg.MaxConnIdleTime),
	)
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "connected to postgres", "host", cfg.Host, "database", cfg.Database)
	return db, nil
}

func migrateUp(dsn string) (err error) {
	m, err := migrations.New(dsn)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, m.Close())
	}()
	return m.Up()
}

// remoteOption enables the remote read path when a sessions URL is configured.
func remoteOption(cfg config.RemoteConfig) []session.Option {
	if cfg.SessionsURL == "" {
		return nil
	}

	client := remote.New(remote.Config{
		URL:         cfg.SessionsURL,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		InitialWait: cfg.InitialWait,
	}, &http.Client{})

	return []session.Option{session.WithRemote(client)}
}

func sessionConfig(cfg config.DashboardConfig) session.Config {
	return session.Config{
		TrendSize:  cfg.TrendSize,
		RecentSize: cfg.RecentSize,
	}
}

// pingFunc adapts a function to the health check Pinger.
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func rabbitPing(client *rabbit.RabbitMQ) pingFunc {
	return func(context.Context) error {
		if client.IsConnectionClosed() {
			return errBrokerDown
		}
		return nil
	}
}
