package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/database"
	"marketplace-backend/internal/logging"
	"marketplace-backend/internal/server"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const envFileFlag = "env-file"

// Swapped in tests.
var (
	runServe   = serve
	runMigrate = migrate
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand builds the command tree. The env-file flag is registered
// once, persistent on the root, so every subcommand reads the same value.
func newRootCommand() *cobra.Command {
	flags := map[string]cobraflags.Flag{
		envFileFlag: &cobraflags.StringFlag{
			Name:       envFileFlag,
			Value:      "",
			Usage:      "Load environment variables from this file instead of ./.env",
			Persistent: true,
		},
	}
	envFile := func() string { return flags[envFileFlag].GetString() }

	rootCmd := &cobra.Command{
		Use:           "marketplace-backend",
		Short:         "Property marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(envFile())
		},
	}
	cobraflags.RegisterMap(rootCmd, flags)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			RunE: func(_ *cobra.Command, _ []string) error {
				return runServe(envFile())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(_ *cobra.Command, _ []string) error {
				return runMigrate(envFile())
			},
		},
	)
	return rootCmd
}

func migrate(envFile string) error {
	cfg, log, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	return database.Migrate(db, log)
}

func bootstrap(envFile string) (*config.Config, *slog.Logger, error) {
	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logging.New(logging.Options{
		Level: cfg.Log.Level,
		JSON:  cfg.Log.Format == "json",
	})
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}
	return cfg, log, nil
}

func serve(envFile string) error {
	cfg, log, err := bootstrap(envFile)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	app := server.New(cfg, db, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", cfg.HTTPPort, "driver", cfg.Database.Driver)
		errCh <- app.Listen(":" + cfg.HTTPPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}
