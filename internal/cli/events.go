package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/roach88/eventlog/internal/clock"
	"github.com/roach88/eventlog/internal/config"
	"github.com/roach88/eventlog/internal/status"
	"github.com/roach88/eventlog/internal/store"
)

// EventOptions holds flags shared by the local event commands.
type EventOptions struct {
	*RootOptions
	Database string
	Limit    int

	// Clock overrides the timestamp source for add (for testing).
	Clock clock.Clock
}

func newEventCommand(opts *EventOptions, use, short, long string, args cobra.PositionalArgs, run func(*EventOptions, *cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          long,
		Args:          args,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, a []string) error {
			return run(opts, cmd, a)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	return cmd
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventOptions{RootOptions: rootOpts}
	return newEventCommand(opts, "add [message]", "Append an event",
		`Append an event to the local database.

The message defaults to "hello". The timestamp is the current UTC time.

Example:
  eventlog add "deploy finished"`,
		cobra.MaximumNArgs(1), runAdd)
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventOptions{RootOptions: rootOpts}
	cmd := newEventCommand(opts, "list", "List the newest events",
		`List the newest events, most recent first.`,
		cobra.NoArgs, runList)
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum number of events (default from config)")
	return cmd
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventOptions{RootOptions: rootOpts}
	return newEventCommand(opts, "count", "Count stored events",
		`Print the number of stored events.`,
		cobra.NoArgs, runCount)
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventOptions{RootOptions: rootOpts}
	cmd := newEventCommand(opts, "status", "Report event count and backup freshness",
		`Report the event count and the newest backup file with its age.

Never fails: an unreadable database reports "Error reading DB" as the
count, and a missing backup directory reports no backup.`,
		cobra.NoArgs, runStatus)
	return cmd
}

func (o *EventOptions) config() (config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if o.Database != "" {
		cfg.DBPath = o.Database
	}
	return validated(cfg)
}

// withStore opens the configured database for the duration of fn.
func (o *EventOptions) withStore(fn func(cfg config.Config, st *store.Store) error) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err).WithKind(CodeStorage)
	}
	defer st.Close()
	return fn(cfg, st)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runAdd(opts *EventOptions, cmd *cobra.Command, args []string) error {
	msg := store.DefaultMessage
	if len(args) == 1 && args[0] != "" {
		msg = args[0]
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}

	return opts.withStore(func(_ config.Config, st *store.Store) error {
		e, err := st.Append(commandContext(cmd), clock.Timestamp(clk.Now()), msg)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to add event", err).WithKind(CodeStorage)
		}
		f := NewOutputFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
		f.VerboseLog("stored event %d", e.ID)
		return f.Result(e, func(p *message.Printer) string {
			return p.Sprintf("added #%d %s %s", e.ID, e.Timestamp, e.Message)
		})
	})
}

func runList(opts *EventOptions, cmd *cobra.Command, _ []string) error {
	return opts.withStore(func(cfg config.Config, st *store.Store) error {
		limit := opts.Limit
		if limit <= 0 {
			limit = cfg.ListLimit
		}
		events, err := st.Recent(commandContext(cmd), limit)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to list events", err).WithKind(CodeStorage)
		}
		f := NewOutputFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
		return f.Result(events, func(p *message.Printer) string {
			if len(events) == 0 {
				return "No events."
			}
			var b strings.Builder
			for i, e := range events {
				if i > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(p.Sprintf("#%d\t%s\t%s", e.ID, e.Timestamp, e.Message))
			}
			return b.String()
		})
	})
}

func runCount(opts *EventOptions, cmd *cobra.Command, _ []string) error {
	return opts.withStore(func(_ config.Config, st *store.Store) error {
		n, err := st.Count(commandContext(cmd))
		if err != nil {
			return WrapExitError(ExitFailure, "failed to count events", err).WithKind(CodeStorage)
		}
		f := NewOutputFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
		return f.Result(map[string]int64{"count": n}, func(p *message.Printer) string {
			return p.Sprintf("%d events", n)
		})
	})
}

func runStatus(opts *EventOptions, cmd *cobra.Command, _ []string) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}

	prober := &status.Prober{
		DBPath:    cfg.DBPath,
		BackupDir: cfg.BackupDir,
		BackupExt: cfg.BackupExt,
		Clock:     opts.Clock,
	}
	if opts.Verbose {
		prober.Logger = newLogger(cfg.Log, true, cmd.ErrOrStderr())
	}
	report := prober.Probe(commandContext(cmd))

	f := NewOutputFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return f.Result(report, func(p *message.Printer) string {
		var b strings.Builder
		if report.Count.Err != nil {
			fmt.Fprintf(&b, "count:  %s\n", status.CountUnavailable)
		} else {
			b.WriteString(p.Sprintf("count:  %d\n", report.Count.N))
		}
		if report.LastBackupFile == nil {
			b.WriteString("backup: none")
		} else {
			b.WriteString(p.Sprintf("backup: %s (%d seconds old)", *report.LastBackupFile, *report.BackupAgeSeconds))
		}
		return b.String()
	})
}
