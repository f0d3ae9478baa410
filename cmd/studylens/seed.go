package studylens

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/studylens-dashboard/internal/adapter/rabbit"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/internal/service/session"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/passhash"
	pg "github.com/Temutjin2k/studylens-dashboard/pkg/postgres"
	"github.com/Temutjin2k/studylens-dashboard/pkg/rabbit"
	"github.com/spf13/cobra"
)

const demoPassword = "password"

var demoUsers = []models.UserCreateRequest{
	{Username: "alice", Name: "Alice Demo", Password: demoPassword},
	{Username: "bob", Name: "Bob Demo", Password: demoPassword},
}

type seedOptions struct {
	sessions int
	broker   bool
	force    bool
	seed     uint64
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo users and study sessions",
		Long: "Creates the demo users alice and bob (password \"password\") and a batch of sessions for each.\n" +
			"With --broker the sessions are published to the ingest queue instead of written directly.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, root, opts)
		},
	}
	cmd.Flags().IntVar(&opts.sessions, "sessions", 20, "Sessions to create per user")
	cmd.Flags().BoolVar(&opts.broker, "broker", false, "Publish sessions to the ingest queue")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Seed users that already have sessions")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Random seed for generated sessions")
	return cmd
}

func runSeed(cmd *cobra.Command, root *rootOptions, opts *seedOptions) error {
	if opts.sessions < 0 {
		return errors.New("--sessions must not be negative")
	}

	cfg, log, err := loadConfig(root, string(types.APIService))
	if err != nil {
		return err
	}
	ctx := wrap.WithAction(cmd.Context(), "seed")

	db, err := pg.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	users := postgres.NewUserRepo(db.Pool)
	sessions := postgres.NewSessionRepo(db.Pool)
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x5eed))
	now := time.Now().UTC()

	var publish func(ctx context.Context, user *models.User, req models.SessionCreateRequest) error
	if opts.broker {
		client, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close(context.WithoutCancel(ctx)) }()

		broker := rabbitadapter.NewSessionBroker(client, log)
		publish = func(ctx context.Context, user *models.User, req models.SessionCreateRequest) error {
			return broker.PublishIngest(ctx, models.IngestMessage{Username: user.Username, SessionCreateRequest: req})
		}
	} else {
		svc := session.New(sessions, users, session.Config{}, logger.Nop())
		publish = func(ctx context.Context, user *models.User, req models.SessionCreateRequest) error {
			_, err := svc.Create(ctx, user, &req, types.ChannelQueue)
			return err
		}
	}

	for _, demo := range demoUsers {
		user, err := ensureUser(ctx, users, demo)
		if err != nil {
			return err
		}

		if !opts.force {
			n, err := sessions.CountByOwner(ctx, user.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "skipping %s: %d sessions already stored\n", user.Username, n)
				continue
			}
		}

		for _, req := range demoSessions(opts.sessions, now, rng) {
			if err := publish(ctx, user, req); err != nil {
				return fmt.Errorf("seed session for %s: %w", user.Username, err)
			}
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d sessions for %s\n", opts.sessions, user.Username)
	}
	return nil
}

func ensureUser(ctx context.Context, users *postgres.UserRepo, req models.UserCreateRequest) (*models.User, error) {
	existing, err := users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := passhash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         types.UserRoleStudent.String(),
	}
	id, err := users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create demo user %s: %w", req.Username, err)
	}
	user.ID = id
	return user, nil
}

// demoSessions generates n plausible records, one per half day going back from now.
// Every record satisfies the ingestion rules.
func demoSessions(n int, now time.Time, rng *rand.Rand) []models.SessionCreateRequest {
	out := make([]models.SessionCreateRequest, 0, n)
	for i := range n {
		ts := now.Add(-time.Duration(n-i) * 12 * time.Hour)

		total := 600 + rng.Float64()*5400
		wastedPct := rng.Float64() * 60
		wasted := total * wastedPct / 100
		focused := total - wasted
		drowsy := wasted * rng.Float64() * 0.5
		peak := focused * (0.2 + rng.Float64()*0.6)
		avg := peak * (0.3 + rng.Float64()*0.5)

		out = append(out, models.SessionCreateRequest{
			Timestamp:           &ts,
			TotalDurationSec:    ptr(round1(total)),
			FocusedTimeSec:      ptr(round1(focused)),
			WastedTimeSec:       ptr(round1(wasted)),
			DrowsyTimeSec:       ptr(round1(drowsy)),
			MaxAttentionSpanSec: ptr(round1(peak)),
			AvgAttentionSpanSec: ptr(round1(avg)),
			WastedPercentage:    ptr(round1(wastedPct)),
		})
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func round1(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}
