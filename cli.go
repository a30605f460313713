package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/studytrack/internal/chime"
	"github.com/sadopc/studytrack/internal/clock"
	"github.com/sadopc/studytrack/internal/config"
	"github.com/sadopc/studytrack/internal/export"
	"github.com/sadopc/studytrack/internal/reminder"
	"github.com/sadopc/studytrack/internal/store"
	"github.com/sadopc/studytrack/internal/streak"
	"github.com/sadopc/studytrack/internal/timer"
	"github.com/sadopc/studytrack/internal/tui"
)

const appName = "studytrack"

// env is what every command needs after flags are parsed.
type env struct {
	cfg   config.Config
	clock clock.Clock
	store *store.Store
}

type rootFlags struct {
	configPath string
	dbPath     string
}

func newRootCmd(clk clock.Clock) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           appName,
		Short:         "DAT study tracker for the terminal",
		Long:          "Track study sessions per DAT subject, keep a daily streak and get wellness reminders.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(flags, clk)
			if err != nil {
				return err
			}
			defer e.store.Close()
			return runTUI(e)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/studytrack/config.yaml)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "database file (overrides config)")

	root.AddCommand(newStatusCmd(&flags, clk))
	root.AddCommand(newExportCmd(&flags, clk))
	root.AddCommand(newRemindCmd(&flags, clk))
	root.AddCommand(newConfigCmd(&flags))
	return root
}

func (f rootFlags) resolveConfigPath() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.DefaultPath()
}

func openEnv(flags rootFlags, clk clock.Clock) (*env, error) {
	path, err := flags.resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	dbPath := flags.dbPath
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}

	s, err := store.New(dbPath, store.WithClock(clk))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &env{cfg: cfg, clock: clk, store: s}, nil
}

// newNotifier picks the configured surface. The terminal surface writes to
// w, which is nil inside the TUI (the status line is used instead).
func newNotifier(cfg config.Config, w io.Writer) reminder.Notifier {
	if cfg.Notifier == config.NotifierTerminal && w != nil {
		return reminder.WriterNotifier{W: w}
	}
	return reminder.NewDBusNotifier(appName)
}

func runTUI(e *env) error {
	if e.cfg.LogFile != "" {
		f, err := tea.LogToFile(e.cfg.LogFile, appName)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	var cue chime.Cue = chime.Silent{}
	if e.cfg.Chime {
		bell := chime.Bell{W: os.Stderr, Gap: 300 * time.Millisecond}
		cue = chime.Func(func() { go bell.Play() })
	}

	status := &tui.StatusNotifier{}
	var notifier reminder.Notifier = status
	if e.cfg.Notifier == config.NotifierDBus {
		dn := reminder.NewDBusNotifier(appName)
		defer dn.Close()
		notifier = dn
	}

	settings := e.store.Settings()
	dispatcher := reminder.NewDispatcher(e.store, e.clock, notifier)
	scheduler := reminder.NewScheduler(dispatcher, e.store)
	defer scheduler.Stop()

	timers := timer.NewCoordinator(e.store, e.clock, cue, settings.StudyTimerMinutes, settings.BreakTimerMinutes)
	defer timers.Discard()

	app := tui.NewApp(tui.Services{
		Store:      e.store,
		Timers:     timers,
		Dispatcher: dispatcher,
		Scheduler:  scheduler,
		Streak:     streak.NewCalculator(e.store, e.clock),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	status.Attach(p)

	log.Printf("starting tui, notifier=%s", e.cfg.Notifier)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func newStatusCmd(flags *rootFlags, clk clock.Clock) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's study time, target and streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(*flags, clk)
			if err != nil {
				return err
			}
			defer e.store.Close()
			return printStatus(cmd.OutOrStdout(), e)
		},
	}
}

func printStatus(out io.Writer, e *env) error {
	settings := e.store.Settings()
	total := e.store.TodayTotal()
	days := streak.NewCalculator(e.store, e.clock).CurrentStreak()

	fmt.Fprintf(out, "Today:   %d min\n", total)
	switch {
	case settings.DailyTargetMinutes <= 0:
		fmt.Fprintln(out, "Target:  none")
	case streak.TargetMet(total, settings.DailyTargetMinutes):
		fmt.Fprintf(out, "Target:  %d min (met)\n", settings.DailyTargetMinutes)
	default:
		fmt.Fprintf(out, "Target:  %d min (%d%%)\n", settings.DailyTargetMinutes,
			int(streak.Progress(total, settings.DailyTargetMinutes)*100))
	}
	fmt.Fprintf(out, "Streak:  %d %s\n", days, pluralDays(days))

	if last, ok := e.store.LastSession(); ok {
		fmt.Fprintf(out, "Last:    %s, %d min, %s\n",
			last.Subject, last.DurationMinutes, humanize.RelTime(last.StartedAt, e.clock.Now(), "ago", "from now"))
	} else {
		fmt.Fprintln(out, "Last:    no sessions yet")
	}
	return nil
}

func pluralDays(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}

func newExportCmd(flags *rootFlags, clk clock.Clock) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all study sessions as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}
			e, err := openEnv(*flags, clk)
			if err != nil {
				return err
			}
			defer e.store.Close()

			sessions := e.store.AllSessions()
			if outPath == "" || outPath == "-" {
				if format == "csv" {
					return export.WriteCSV(cmd.OutOrStdout(), sessions)
				}
				return export.WriteJSON(cmd.OutOrStdout(), sessions)
			}

			if format == "csv" {
				err = export.ToCSV(sessions, outPath)
			} else {
				err = export.ToJSON(sessions, outPath)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", len(sessions), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or json")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newRemindCmd(flags *rootFlags, clk clock.Clock) *cobra.Command {
	return &cobra.Command{
		Use:       "remind <strong|breathe|relax|water|random>",
		Short:     "Send one wellness reminder now",
		Long:      "Send one wellness reminder through the configured notifier. Quiet hours and the reminders switch still apply.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"strong", "breathe", "relax", "water", "random"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := reminder.RandomKind()
			if args[0] != "random" {
				k, err := reminder.ParseKind(args[0])
				if err != nil {
					return err
				}
				kind = k
			}

			e, err := openEnv(*flags, clk)
			if err != nil {
				return err
			}
			defer e.store.Close()

			n := newNotifier(e.cfg, cmd.OutOrStdout())
			if dn, ok := n.(*reminder.DBusNotifier); ok {
				defer dn.Close()
			}
			d := reminder.NewDispatcher(e.store, e.clock, n)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			if p := d.RequestPermission(ctx); p != reminder.PermissionGranted {
				return fmt.Errorf("notifications unavailable (permission %s)", p)
			}
			if !d.Dispatch(kind) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Reminder suppressed: reminders are off or it is quiet hours.")
			}
			return nil
		},
	}
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := flags.resolveConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.Default()
			cfg.DBPath = flags.dbPath
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}
