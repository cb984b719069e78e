package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"brack/internal/bootstrap"
	"brack/internal/platform/config"
	"brack/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir string
	userID  string
	verbose bool
	asJSON  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "brack",
		Short:         "Reading streak tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data", defaultDataDir(), "data directory holding brack.yaml and the database")
	root.PersistentFlags().StringVar(&opts.userID, "user", "", "user id (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")

	root.AddCommand(newSessionCmd(opts))
	root.AddCommand(newStreakCmd(opts))
	root.AddCommand(newCalendarCmd(opts))
	root.AddCommand(newMilestonesCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newTUICmd(opts))
	return root
}

func defaultDataDir() string {
	if dir := os.Getenv("BRACK_DATA"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".brack"
	}
	return filepath.Join(home, ".brack")
}

func loadApp(ctx context.Context, opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.Load(opts.dataDir)
	if err != nil {
		return nil, err
	}
	if opts.userID != "" {
		cfg.UserID = opts.userID
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, logger)
}

// run loads the app, hands it to fn and closes it afterwards.
func run(opts *rootOptions, fn func(context.Context, *bootstrap.App) error) error {
	ctx := context.Background()
	app, err := loadApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(ctx, app)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSessionCmd(opts *rootOptions) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Reading session commands"}

	var bookID, at string
	var minutes int
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Log a finished reading session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var when time.Time
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				when = parsed
			}
			var duration *int
			if cmd.Flags().Changed("minutes") {
				duration = &minutes
			}
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Log(ctx, app.Config.UserID, bookID, duration, when)
				if err != nil {
					return err
				}
				if _, err := app.StreakCLI.Refresh(ctx, app.Config.UserID); err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged session %s at %s\n", out.ID, out.CreatedAt.Format(time.RFC3339))
				return nil
			})
		},
	}
	logCmd.Flags().StringVar(&bookID, "book", "", "book id")
	logCmd.Flags().IntVar(&minutes, "minutes", 0, "minutes read")
	logCmd.Flags().StringVar(&at, "at", "", "session time (RFC3339, default now)")

	var startBook string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a reading timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Start(ctx, app.Config.UserID, startBook)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timer %s started at %s\n", out.SessionID, out.StartedAt.Format(time.RFC3339))
				return nil
			})
		},
	}
	startCmd.Flags().StringVar(&startBook, "book", "", "book id")

	endCmd := &cobra.Command{
		Use:   "end",
		Short: "Stop the running timer and save the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.End(ctx)
				if err != nil {
					return err
				}
				refreshed, err := app.StreakCLI.Refresh(ctx, out.UserID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s saved (%d min), streak %d\n",
					out.ID, derefInt(out.DurationMin), refreshed.Streak.CurrentStreak)
				return nil
			})
		},
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				sessions, err := app.SessionCLI.List(ctx, app.Config.UserID, limit)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), sessions)
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					duration := "-"
					if s.DurationMin != nil {
						duration = strconv.Itoa(*s.DurationMin) + "m"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n",
						s.CreatedAt.Format("2006-01-02 15:04"), duration, s.Origin, s.BookID, s.ID)
				}
				return nil
			})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions (0 for all)")

	importCmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import session notes from a markdown directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Import(ctx, app.Config.UserID, args[0])
				if err != nil {
					return err
				}
				if out.Imported > 0 {
					if _, err := app.StreakCLI.Refresh(ctx, app.Config.UserID); err != nil {
						return err
					}
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", out.Imported, out.Skipped)
				return nil
			})
		},
	}

	session.AddCommand(logCmd, startCmd, endCmd, listCmd, importCmd)
	return session
}

func newStreakCmd(opts *rootOptions) *cobra.Command {
	streak := &cobra.Command{Use: "streak", Short: "Reading streak commands"}

	streak.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current streak without saving",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.StreakCLI.Show(ctx, app.Config.UserID)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				w := cmd.OutOrStdout()
				last := "never"
				if out.LastReadingDate != nil {
					last = *out.LastReadingDate
				}
				_, _ = fmt.Fprintf(w, "current: %d\nlongest: %d\nlast read: %s\n", out.CurrentStreak, out.LongestStreak, last)
				_, _ = fmt.Fprintf(w, "freeze available: %t\ncan use freeze today: %t\n", out.FreezeAvailable, out.CanUseFreezeToday)
				for _, label := range out.Milestones {
					_, _ = fmt.Fprintf(w, "milestone: %s\n", label)
				}
				return nil
			})
		},
	})

	streak.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Recompute the streak and save changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.StreakCLI.Refresh(ctx, app.Config.UserID)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "current %d, longest %d (saved=%t, new record=%t)\n",
					out.Streak.CurrentStreak, out.Streak.LongestStreak, out.Persisted, out.NewLongestSaved)
				return nil
			})
		},
	})

	streak.AddCommand(&cobra.Command{
		Use:   "freeze",
		Short: "Use the weekly streak freeze for today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.StreakCLI.Freeze(ctx, app.Config.UserID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "freeze used at %s, streak %d\n", out.UsedAt.Format(time.RFC3339), out.Streak.CurrentStreak)
				return nil
			})
		},
	})

	streak.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "Show recorded streak records and badges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.StreakCLI.History(ctx, app.Config.UserID)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				w := cmd.OutOrStdout()
				for _, b := range out.Badges {
					mark := "[ ]"
					when := ""
					if b.Achieved && b.AchievedAt != nil {
						mark = "[x]"
						when = " " + b.AchievedAt.Format("2006-01-02")
					}
					_, _ = fmt.Fprintf(w, "%s %d days%s\n", mark, b.Threshold, when)
				}
				for _, e := range out.Entries {
					_, _ = fmt.Fprintf(w, "%d\t%s\n", e.StreakCount, e.AchievedAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	})

	var exportDir string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write a markdown streak report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				dir := exportDir
				if dir == "" {
					dir = app.Config.DataDir
				}
				out, err := app.StreakCLI.Export(ctx, app.Config.UserID, dir)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Path)
				return nil
			})
		},
	}
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "report directory (default: data dir)")

	streak.AddCommand(exportCmd)
	return streak
}

func newCalendarCmd(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show daily reading activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.StreakCLI.Calendar(ctx, app.Config.UserID, days)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				for _, d := range out.Days {
					bar := strings.Repeat("#", min(d.TotalMinutes/5, 40))
					if d.HasActivity && bar == "" {
						bar = "."
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %3dm %s\n", d.Date, d.TotalMinutes, bar)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "window length in days (default from config)")
	return cmd
}

func newMilestonesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "milestones [streak]",
		Short: "List milestone labels shown for a streak length, or the whole table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			streak := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("streak must be an integer: %w", err)
				}
				streak = n
			}
			return run(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.StreakCLI.Milestones(ctx, streak)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				w := cmd.OutOrStdout()
				if len(args) == 0 {
					for _, m := range out.Table {
						_, _ = fmt.Fprintf(w, "%d\t%s\n", m.Threshold, m.Label)
					}
					return nil
				}
				if len(out.Milestones) == 0 {
					_, _ = fmt.Fprintln(w, "no milestones")
				}
				for _, label := range out.Milestones {
					_, _ = fmt.Fprintln(w, label)
				}
				return nil
			})
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if addr == "" {
				addr = app.Config.HTTP.Addr
			}
			return app.Serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(opts, func(_ context.Context, app *bootstrap.App) error {
				return bootstrap.RunTUI(app)
			})
		},
	}
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
