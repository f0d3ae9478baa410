package studylens

import (
	"context"
	"fmt"
	"os"

	"github.com/Temutjin2k/studylens-dashboard/config"
	"github.com/Temutjin2k/studylens-dashboard/internal/app"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X ...".
var Version = "dev"

type rootOptions struct {
	configPath string
	mode       string
	printCfg   bool
}

// Run executes the command line and exits non-zero on failure.
func Run() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "studylens",
		Short:         "StudyLens dashboard API and ingestion worker",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config-path", "config.yaml", "Path to the config yaml file")
	root.Flags().StringVar(&opts.mode, "mode", string(types.APIService), "Service mode: api | ingest-worker")
	root.Flags().BoolVar(&opts.printCfg, "print-config", true, "Print the effective configuration on start")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newSeedCmd(opts))
	return root
}

// loadConfig reads the configuration and builds the logger it describes.
func loadConfig(opts *rootOptions, mode string) (*config.Config, logger.Logger, error) {
	cfg, err := config.NewConfig(opts.configPath, mode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure application: %w", err)
	}

	if !logger.ValidateLogLevel(cfg.Log.Level) {
		return nil, nil, fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}

	log := logger.InitLogger(string(cfg.Mode), cfg.Log.Level,
		logger.WithFile(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups))
	return cfg, log, nil
}

func serve(ctx context.Context, opts *rootOptions) error {
	cfg, log, err := loadConfig(opts, opts.mode)
	if err != nil {
		return err
	}

	if opts.printCfg {
		config.PrintConfig(os.Stdout, cfg)
	}

	ctx = wrap.WithAction(ctx, "startup")

	application, err := app.NewApplication(ctx, *cfg, Version, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		return err
	}

	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		return err
	}
	return nil
}
