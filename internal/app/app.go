package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/studylens-dashboard/config"
	"github.com/Temutjin2k/studylens-dashboard/internal/app/microservices"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
)

var (
	ErrInvalidMode           = errors.New("invalid mode")
	ErrServiceNotInitialized = errors.New("service not initialized")
)

type Service interface {
	Start(ctx context.Context) error
}

type App struct {
	mode    types.ServiceMode
	service Service

	cfg     config.Config
	version string
	log     logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, version string, log logger.Logger) (*App, error) {
	app := &App{
		mode:    cfg.Mode,
		cfg:     cfg,
		version: version,
		log:     log,
	}

	if err := app.initService(ctx, app.mode); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.service == nil {
		return ErrServiceNotInitialized
	}

	return a.service.Start(ctx)
}

func (a *App) initService(ctx context.Context, mode types.ServiceMode) error {
	var (
		service Service
		err     error
	)
	switch mode {
	case types.APIService:
		service, err = microservices.NewAPI(ctx, a.cfg, a.version, a.log)
	case types.IngestWorker:
		service, err = microservices.NewIngestWorker(ctx, a.cfg, a.log)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	if err != nil {
		return fmt.Errorf("failed to init service: %w", err)
	}

	a.service = service

	return nil
}
