package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/eventlog/internal/server"
	"github.com/roach88/eventlog/internal/status"
	"github.com/roach88/eventlog/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr      string
	Database  string
	BackupDir string

	// IDs overrides the request id generator (for testing).
	// If nil, defaults to server.UUIDv7Generator.
	IDs server.IDGenerator
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Run the event log HTTP service.

Opens (creating if needed) the SQLite database, ensures the events table
exists and serves until interrupted.

Settings are layered: defaults, then the config file, then the
environment (DB_PATH, BACKUP_DIR, EVENTLOG_ADDR, ...), then these flags.

Example:
  eventlog serve
  eventlog serve --db ./app.db --addr 127.0.0.1:8080 --backup-dir ./backup`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.BackupDir, "backup-dir", "", "backup directory inspected by /status (default from config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}
	if opts.BackupDir != "" {
		cfg.BackupDir = opts.BackupDir
	}
	if cfg, err = validated(cfg); err != nil {
		return err
	}

	logger := newLogger(cfg.Log, opts.Verbose, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	logger.Info("opening database", "path", cfg.DBPath)
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err).WithKind(CodeStorage)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database ready")

	srv := server.New(server.Options{
		Store: st,
		Prober: &status.Prober{
			DBPath:    cfg.DBPath,
			BackupDir: cfg.BackupDir,
			BackupExt: cfg.BackupExt,
			Logger:    logger,
		},
		ListLimit: cfg.ListLimit,
		IDs:       opts.IDs,
		Logger:    logger,
	})

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s (db %s)\n", cfg.Addr, cfg.DBPath)

	if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
		return WrapExitError(ExitFailure, "http server error", err).WithKind(CodeServer)
	}

	logger.Info("server stopped gracefully")
	return nil
}
