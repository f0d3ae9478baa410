package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/studylens-dashboard/config"
	repo "github.com/Temutjin2k/studylens-dashboard/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/studylens-dashboard/internal/adapter/rabbit"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/service/session"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/postgres"
	"github.com/Temutjin2k/studylens-dashboard/pkg/rabbit"
)

// IngestWorker stores telemetry records published to the ingest queue.
// It always needs the broker, whatever rabbitmq.enabled says.
type IngestWorker struct {
	postgresDB *postgres.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	broker     *rabbitadapter.SessionBroker
	sessions   *session.Service

	cfg config.Config
	log logger.Logger
}

func NewIngestWorker(ctx context.Context, cfg config.Config, log logger.Logger) (_ *IngestWorker, err error) {
	w := &IngestWorker{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			w.close(ctx)
		}
	}()

	w.postgresDB, err = openDatabase(ctx, cfg.Database, log)
	if err != nil {
		log.Error(ctx, "failed to setup database", err)
		return nil, err
	}

	w.rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "failed to connect to rabbitmq", err)
		return nil, err
	}
	w.broker = rabbitadapter.NewSessionBroker(w.rabbitMQ, log)

	pool := w.postgresDB.Pool
	w.sessions = session.New(repo.NewSessionRepo(pool), repo.NewUserRepo(pool), sessionConfig(cfg.Dashboard), log,
		session.WithNotifier(w.broker))

	return w, nil
}

func (w *IngestWorker) handle(ctx context.Context, msg *models.IngestMessage) error {
	_, err := w.sessions.Ingest(ctx, msg)
	return err
}

func (w *IngestWorker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := w.broker.ConsumeIngest(ctx, w.handle); err != nil && ctx.Err() == nil {
			errCh <- err
		}
	}()
	defer func() {
		cancel()
		w.close(context.WithoutCancel(ctx))
		w.log.Info(ctx, "ingest worker closed")
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	w.log.Info(ctx, "ingest worker started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		w.log.Info(ctx, "shutting down ingest worker", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (w *IngestWorker) close(ctx context.Context) {
	ctx = wrap.WithAction(ctx, "ingest_worker_close")

	if w.rabbitMQ != nil {
		if err := w.rabbitMQ.Close(ctx); err != nil {
			w.log.Warn(ctx, "failed to close rabbitmq", "error", err.Error())
		}
	}

	w.postgresDB.Close()
}
