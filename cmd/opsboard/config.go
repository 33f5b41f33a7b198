package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jayphen/opsboard/internal/config"
	"github.com/Jayphen/opsboard/internal/redis"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage opsboard configuration files.`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the current configuration values from all sources.`,
		RunE:  runConfigShow,
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create example configuration file",
		Long: `Create an example configuration file at ~/.config/opsboard/config.yaml.

The generated file contains all available options with their default values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd.OutOrStdout(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Long:  `Display the paths where configuration files are searched.`,
		RunE:  runConfigPath,
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Notion:")
	fmt.Fprintf(out, "    token:       %s\n", maskSecret(cfg.Notion.Token))
	fmt.Fprintf(out, "    database_id: %s\n", valueOrDefault(cfg.Notion.DatabaseID, "(not set)"))
	fmt.Fprintf(out, "    version:     %s\n", valueOrDefault(cfg.Notion.Version, "(default)"))
	fmt.Fprintf(out, "    base_url:    %s\n", valueOrDefault(cfg.Notion.BaseURL, "(default)"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  sources:          %s\n", valueOrDefault(strings.Join(cfg.SourceSpecs(), "; "), "(none)"))
	fmt.Fprintf(out, "  redis_url:        %s\n", cfg.RedisURL)
	fmt.Fprintf(out, "  timezone:         %s\n", valueOrDefault(cfg.Timezone, "(local)"))
	fmt.Fprintf(out, "  done_status:      %s\n", cfg.DoneStatus)
	fmt.Fprintf(out, "  other_limit:      %d\n", cfg.OtherLimit)
	fmt.Fprintf(out, "  refresh_interval: %s\n", cfg.Interval())
	fmt.Fprintf(out, "  metrics_addr:     %s\n", cfg.MetricsAddr)
	fmt.Fprintf(out, "  log level:        %s\n", cfg.Logging.Level)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Projects (%d):\n", len(cfg.Projects))
	ids := make([]string, 0, len(cfg.Projects))
	for id := range cfg.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "    %s  %s\n", id, cfg.Projects[id])
	}

	return nil
}

func runConfigInit(out io.Writer, force bool) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".config", "opsboard", "config.yaml")

	// Check if file exists
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	if err := config.WriteExample(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(out, "Created config file at: %s\n", configPath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Edit this file to customize your settings.")
	fmt.Fprintln(out, "Run 'opsboard config show' to see current values.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration file search paths (in priority order):")
	fmt.Fprintln(out)

	paths := config.ConfigPaths()
	for i, p := range paths {
		exists := "not found"
		if _, err := os.Stat(p); err == nil {
			exists = "found"
		}
		fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, p, exists)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables can override file settings.")
	fmt.Fprintln(out, "Supported env vars:")
	fmt.Fprintln(out, "  OPSBOARD_NOTION_TOKEN (or NOTION_TOKEN)")
	fmt.Fprintln(out, "  OPSBOARD_DATABASE_ID")
	fmt.Fprintln(out, "  OPSBOARD_SOURCES (semicolon separated)")
	fmt.Fprintf(out, "  OPSBOARD_REDIS_URL (or REDIS_URL, default %s)\n", redis.DefaultRedisURL)
	fmt.Fprintln(out, "  OPSBOARD_TIMEZONE")
	fmt.Fprintln(out, "  OPSBOARD_DONE_STATUS")
	fmt.Fprintln(out, "  OPSBOARD_OTHER_LIMIT")
	fmt.Fprintln(out, "  OPSBOARD_REFRESH_INTERVAL")
	fmt.Fprintln(out, "  OPSBOARD_METRICS_ADDR")
	fmt.Fprintln(out, "  OPSBOARD_LOG_LEVEL")

	return nil
}

func valueOrDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}

func maskSecret(val string) string {
	if val == "" {
		return "(not set)"
	}
	if len(val) <= 8 {
		return "***"
	}
	return val[:4] + "..." + val[len(val)-4:]
}
