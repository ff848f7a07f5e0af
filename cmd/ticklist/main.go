package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ticklist/app"
	"ticklist/config"
	"ticklist/logging"
	"ticklist/model"
	"ticklist/store"
	"ticklist/tui"
)

// version is set via ldflags at build time, or read from module info
var version = "dev"

func init() {
	// Try to get version from build info if not set via ldflags
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
	// Update rootCmd.Version since it was initialized before this runs
	rootCmd.Version = version
}

var (
	flagConfig    string
	flagDataDir   string
	flagBackend   string
	flagLogLevel  string
	flagLogFormat string
)

// Slot keys in the durable medium.
const (
	slotTodos = "todos"
	slotTheme = "theme"
)

var rootCmd = &cobra.Command{
	Use:     "ticklist",
	Short:   "A persistent todo list for the terminal",
	Version: version,
	Long: `A todo list that lives in your terminal.

Running ticklist with no arguments opens the interactive UI. Subcommands
cover the same operations for scripting and quick one-liners.

Tasks and the color theme are stored under ~/.ticklist by default; see
'ticklist config' for the effective settings.

Quick start:
  ticklist                     # open the interactive UI
  ticklist add "Buy milk"
  ticklist list
  ticklist done <id>
  ticklist clear

Use 'ticklist [command] --help' for detailed help on any command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// The TUI owns the terminal, so diagnostics go to a file where
		// they cannot corrupt the alternate screen.
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		logger := logging.Discard()
		logFile, err := os.OpenFile(cfg.LogFilePath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			defer func() { _ = logFile.Close() }()
			logger = logging.New(logFile, logging.Options{
				Level:           cfg.Log.Level,
				Format:          cfg.Log.Format,
				Prefix:          "ticklist",
				ReportTimestamp: cfg.Log.Timestamps,
			})
		}

		medium, closeMedium, err := newMedium(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeMedium() }()

		svc := newService(medium, logger)
		p := tea.NewProgram(tui.NewModel(svc, ""), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	},
}

// loadConfig resolves the effective configuration: defaults, config files,
// and environment via config.Load, then command-line flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagBackend != "" {
		cfg.Storage.Backend = flagBackend
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newMedium builds the durable medium selected by the configuration. The
// returned closer is a no-op for backends that hold no resources.
func newMedium(cfg *config.Config) (store.Medium, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		return store.NewFileMedium(cfg.DataDir), func() error { return nil }, nil
	case config.BackendSQLite:
		path := cfg.SQLitePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		m, err := store.OpenSQLiteMedium(path)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	case config.BackendMemory:
		return store.NewMemoryMedium(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Storage.Backend)
	}
}

// newService assembles the controller on top of a medium.
func newService(medium store.Medium, logger *log.Logger) *app.Service {
	st := store.New(medium, logger)
	todos := store.Initialize(st, slotTodos, []model.Task{}, model.ValidateTasksJSON)
	theme := store.Initialize(st, slotTheme, model.DefaultTheme)

	todos.Subscribe(func(tasks []model.Task) {
		logger.Debug("todos persisted", "count", len(tasks))
	})
	theme.Subscribe(func(th model.Theme) {
		logger.Debug("theme persisted", "theme", th)
	})

	return app.NewService(todos, theme)
}

// openService wires config, logger, medium, and controller for a one-shot
// command. Diagnostics go to stderr. The caller must invoke the returned
// closer when done.
func openService() (*app.Service, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(os.Stderr, logging.Options{
		Level:           cfg.Log.Level,
		Format:          cfg.Log.Format,
		Prefix:          "ticklist",
		ReportTimestamp: cfg.Log.Timestamps,
	})
	medium, closeMedium, err := newMedium(cfg)
	if err != nil {
		return nil, nil, err
	}
	return newService(medium, logger), closeMedium, nil
}

var flagRestoreSlot string

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a storage file from its newest valid backup",
	Long: `Restore a storage file from its backups.

With the file backend, every write keeps the previous content as
<slot>.json.bak plus a handful of timestamped copies. If the live file is
damaged or gone, restore moves it aside and reinstates the newest backup
that still parses as JSON.

Only the file backend keeps backups; sqlite and memory are not restorable.

Examples:
  ticklist restore                 # restore the task list
  ticklist restore --slot theme`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Storage.Backend != config.BackendFile {
			return fmt.Errorf("restore needs the file backend, configured backend is %q", cfg.Storage.Backend)
		}

		slot := strings.TrimSpace(flagRestoreSlot)
		if slot != slotTodos && slot != slotTheme {
			return fmt.Errorf("unknown slot %q (valid: %s, %s)", slot, slotTodos, slotTheme)
		}

		medium := store.NewFileMedium(cfg.DataDir)
		name, err := medium.Restore(slot)
		switch {
		case errors.Is(err, store.ErrNothingToRestore):
			fmt.Printf("%s is intact, nothing to restore\n", slot)
			return nil
		case errors.Is(err, store.ErrNoValidBackup):
			return fmt.Errorf("no valid backup found for %s", slot)
		case err != nil:
			return err
		}
		fmt.Printf("Restored %s from %s\n", slot, name)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the effective configuration after merging defaults, config
files, environment variables, and flags, along with the files it was
loaded from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printConfig(os.Stdout, cfg)
		return nil
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "data dir:     %s\n", cfg.DataDir)
	fmt.Fprintf(w, "backend:      %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendSQLite {
		fmt.Fprintf(w, "database:     %s\n", cfg.SQLitePath())
	}
	fmt.Fprintf(w, "log level:    %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "log format:   %s\n", cfg.Log.Format)
	if len(cfg.Sources) == 0 {
		fmt.Fprintln(w, "config files: none (defaults and environment)")
	} else {
		fmt.Fprintf(w, "config files: %s\n", strings.Join(cfg.Sources, ", "))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: user config, then ./ticklist.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default: ~/.ticklist)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: file, sqlite, or memory")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json, logfmt)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(themeCmd)

	restoreCmd.Flags().StringVar(&flagRestoreSlot, "slot", slotTodos, "Storage slot to restore (todos or theme)")
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
