package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/schaermu/envvar/internal/config"
	"github.com/schaermu/envvar/internal/envvar"
	"github.com/schaermu/envvar/internal/output"
	"github.com/schaermu/envvar/internal/transfer"
)

var (
	// Set by goreleaser
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string

	// Action flags
	exportPath string
	importPath string
	dryRun     bool
	noColor    bool
	shellName  string
	rcFile     string
	fileStore  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "envvar",
	Short: "List, export and import persistent user environment variables",
	Long: `envvar manages the persistent environment variables of the current user.

Without an action flag it lists every variable as key=value. --export writes
the store to a JSON snapshot, --import reconciles the store against one.
Existing variables are only replaced when the snapshot entry asks for it;
entries with a delimiter are merged into the existing list instead.

On Windows the user registry is updated directly. On other platforms the
changes are written to a shell rc script that must be sourced.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRoot,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "envvar %s\n", version)
		_, _ = fmt.Fprintf(out, "  commit: %s\n", commit)
		_, _ = fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/envvar/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	// Action flags
	rootCmd.Flags().StringVar(&exportPath, "export", "", "export the store to a snapshot file")
	rootCmd.Flags().StringVar(&importPath, "import", "", "import a snapshot file into the store")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what an import would do without making changes")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().StringVar(&shellName, "shell", "", "shell the rc script is generated for (bash, zsh, sh, fish, dotenv)")
	rootCmd.Flags().StringVar(&rcFile, "rc", "", "rc script to write after an import (default is .envvar_<shell>rc)")
	rootCmd.Flags().StringVar(&fileStore, "file-store", "", "operate on a dotenv file instead of the user environment")
	rootCmd.MarkFlagsMutuallyExclusive("export", "import")

	// Add commands
	rootCmd.AddCommand(versionCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger := setupLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if cfgPath != "" {
		logger.Debug("configuration loaded",
			"path", cfgPath,
			"shell", cfg.Shell.Name,
			"rc_file", cfg.RCPath(),
			"color", cfg.Output.Color)
	} else {
		logger.Debug("no config file found, using defaults")
	}

	// Create dependencies
	fs := afero.NewOsFs()
	store, err := openStore(fs, cfg, logger)
	if err != nil {
		return err
	}
	svc := transfer.NewService(fs, store, newPrinter(cmd.OutOrStdout(), cfg), logger)

	switch {
	case exportPath != "":
		return svc.Export(exportPath)
	case importPath != "":
		return runImport(fs, svc, store, cfg, logger)
	default:
		if dryRun {
			logger.Warn("--dry-run has no effect without --import")
		}
		return svc.List()
	}
}

func runImport(fs afero.Fs, svc *transfer.Service, store envvar.Store, cfg *config.Config, logger *slog.Logger) error {
	result, err := svc.Import(importPath, dryRun)
	if dryRun || result == nil || result.Applied == 0 {
		if err != nil {
			logger.Error("import failed", "error", err)
		}
		return err
	}

	// Entries applied before a failure are kept, so they are persisted too
	if perr := persist(fs, store, cfg, logger); perr != nil {
		err = errors.Join(err, perr)
	}
	if err != nil {
		logger.Error("import failed", "error", err)
	}
	return err
}

// persist makes the applied changes durable for stores that need an explicit
// write. The registry store writes through on every Set.
func persist(fs afero.Fs, store envvar.Store, cfg *config.Config, logger *slog.Logger) error {
	if fileStore != "" {
		if err := transfer.SaveFileStore(fs, fileStore, store); err != nil {
			return err
		}
		logger.Info("file store updated", "path", fileStore)
		return nil
	}

	rc, ok := store.(envvar.RCWriter)
	if !ok {
		return nil
	}
	path := cfg.RCPath()
	if err := rc.WriteRC(fs, path); err != nil {
		return err
	}
	logger.Info("wrote rc script, source it to apply the changes",
		"path", path,
		"shell", cfg.Shell.Name)
	return nil
}

func openStore(fs afero.Fs, cfg *config.Config, logger *slog.Logger) (envvar.Store, error) {
	if fileStore == "" {
		return envvar.NewPlatformStore(
			envvar.WithShell(string(cfg.ShellKind())),
			envvar.WithLogger(logger),
		), nil
	}

	logger.Debug("using file store", "path", fileStore)
	store, err := transfer.LoadFileStore(fs, fileStore)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newPrinter(w io.Writer, cfg *config.Config) *output.Printer {
	switch cfg.Output.Color {
	case config.ColorNever:
		return output.NewPrinter(w, true)
	case config.ColorAlways:
		color.NoColor = false
	}
	return output.NewPrinter(w, false)
}

func setupLogger(w io.Writer, levelName, format string) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler based on format
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// loadConfig reads the config file and applies flag overrides on top of it
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, path, err
	}

	flags := cmd.Flags()
	if flags.Changed("shell") {
		cfg.Shell.Name = shellName
	}
	if flags.Changed("rc") {
		cfg.Shell.RCFile = rcFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if noColor {
		cfg.Output.Color = config.ColorNever
	}

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}
