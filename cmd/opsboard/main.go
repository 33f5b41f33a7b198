// Package main is the entry point for the opsboard CLI.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/Jayphen/opsboard/internal/config"
	"github.com/Jayphen/opsboard/internal/logging"
)

// Version is set at build time.
var Version = "dev"

// Persistent flags shared by every subcommand.
var (
	configPath  string
	sourceSpecs []string
	logLevel    string
	timezone    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "opsboard",
		Short: "Ops HQ task dashboard",
		Long: `Opsboard turns a Notion task database into a dashboard.

It fetches the raw task list from Notion, an exported JSON file or the Redis
snapshot cache, then shows overdue tasks, active P0/P1 tasks and the rest of
the active work together with summary counts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logging from config
			initLogging()
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default: search ~/.config/opsboard and ~/.opsboard.yaml)")
	flags.StringArrayVarP(&sourceSpecs, "source", "s", nil, `Snapshot source, repeatable (e.g. "file:path=tasks.json")`)
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&timezone, "timezone", "", `Zone that defines "today" (e.g. Asia/Seoul)`)

	// Add subcommands
	rootCmd.AddCommand(
		newBoardCmd(),
		newSyncCmd(),
		newTUICmd(),
		newServeCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// loadConfig returns the configuration with command-line overrides applied.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Get()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Copy so flag overrides never leak into the cached global
	out := *cfg
	if len(sourceSpecs) > 0 {
		out.Sources = sourceSpecs
	}
	if timezone != "" {
		out.Timezone = timezone
		if _, err := out.Location(); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		out.Logging.Level = logLevel
	}
	return &out, nil
}

// initLogging initializes the logger from config.
func initLogging() {
	cfg, err := loadConfig()
	if err != nil {
		// If config fails, use defaults (console output)
		_ = logging.Init(nil)
		return
	}

	settings := logging.Settings{
		Level:      cfg.Logging.Level,
		FilePath:   cfg.Logging.FilePath,
		JSON:       cfg.Logging.JSON,
		Console:    cfg.Logging.Console,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	}

	if err := logging.InitFromSettings(settings); err != nil {
		// Fall back to defaults on error
		_ = logging.Init(nil)
	}
}
