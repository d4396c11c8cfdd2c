package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "lingo-api",
		Short:         "Spaced-repetition flashcard API",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running the binary without a subcommand starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"path to a config file (default ./config.yaml when present)")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedVocabularyCmd(opts),
		newIssueTokenCmd(opts),
	)

	return root
}

// loadRuntime loads configuration and installs the application logger.
func loadRuntime(opts *rootOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(opts.configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return cfg, log, nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadRuntime(opts)
	if err != nil {
		return err
	}
	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"timezone", cfg.Scheduler.Timezone)

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		_ = db.Close()
		return err
	}

	if err := app.Run(ctx); err != nil {
		log.Error("Server stopped with error", "error", err)
		return err
	}
	return nil
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(opts)
			if err != nil {
				return err
			}

			db, err := setupAppDatabase(cmd.Context(), cfg, log)
			if err != nil {
				log.Error("Failed to connect to database", "error", err)
				return err
			}
			defer func() { _ = db.Close() }()

			if err := runMigrations(cmd.Context(), db, args[0], log); err != nil {
				log.Error("Migration failed", "command", args[0], "error", err)
				return err
			}
			return nil
		},
	}
}

func newSeedVocabularyCmd(opts *rootOptions) *cobra.Command {
	var (
		dir      string
		language string
	)

	cmd := &cobra.Command{
		Use:   "seed-vocabulary",
		Short: "Load a <language>_words.txt file into the vocabulary table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(opts)
			if err != nil {
				return err
			}

			db, err := setupAppDatabase(cmd.Context(), cfg, log)
			if err != nil {
				log.Error("Failed to connect to database", "error", err)
				return err
			}
			defer func() { _ = db.Close() }()

			vocab := postgres.NewPostgresVocabularyStore(db, log)
			added, err := seedVocabulary(cmd.Context(), vocab, dir, language)
			if err != nil {
				log.Error("Vocabulary seeding failed", "language", language, "error", err)
				return err
			}
			log.Info("Vocabulary seeded", "language", language, "added", added)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "words", "directory holding <language>_words.txt files")
	cmd.Flags().StringVar(&language, "language", "", "language to seed, e.g. spanish")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}

func newIssueTokenCmd(opts *rootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Print an access token for a learner, for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadRuntime(opts)
			if err != nil {
				return err
			}

			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}
			return issueToken(cmd.Context(), cmd.OutOrStdout(), jwtService, userID)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "learner UUID the token is issued for")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
