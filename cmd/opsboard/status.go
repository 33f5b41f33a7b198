package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jayphen/opsboard/internal/redis"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the Redis snapshot cache",
		Long: `Show when the snapshot was last synced and whether it is still fresh,
the counters last published by 'opsboard serve', and the archived days.

A sync is fresh within one refresh interval, stale within three and
expired after that.`,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	return writeStatus(ctx, cmd.OutOrStdout(), client, cfg.Interval(), now().In(loc))
}

// writeStatus prints the cache report. Times are shown in at's location.
func writeStatus(ctx context.Context, out io.Writer, client *redis.Client, interval time.Duration, at time.Time) error {
	status, err := client.GetSyncStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync status: %w", err)
	}

	fmt.Fprintln(out, "Last sync:")
	if status == nil {
		fmt.Fprintln(out, "  never (run 'opsboard sync')")
	} else {
		synced := time.UnixMilli(status.Timestamp).In(at.Location())
		fmt.Fprintf(out, "  at:        %s (%s ago)\n", synced.Format("2006-01-02 15:04:05 MST"), formatAge(at.Sub(synced)))
		fmt.Fprintf(out, "  pages:     %d\n", status.Pages)
		fmt.Fprintf(out, "  sources:   %s\n", valueOrDefault(strings.Join(status.Sources, "; "), "(none)"))
	}
	fmt.Fprintf(out, "  freshness: %s (interval %s)\n", redis.DetermineFreshness(status, interval, at), interval)
	fmt.Fprintln(out)

	today, stats, err := client.GetStats(ctx)
	switch {
	case errors.Is(err, redis.ErrNoSnapshot):
		fmt.Fprintln(out, "Published stats: none")
	case err != nil:
		return fmt.Errorf("failed to read stats: %w", err)
	default:
		fmt.Fprintf(out, "Published stats (%s):\n", today)
		fmt.Fprintf(out, "  total %d, overdue %d, p0 %d, p1 %d, p2 %d, done %d\n",
			stats.Total, stats.Overdue, stats.P0, stats.P1, stats.P2, stats.Done)
	}
	fmt.Fprintln(out)

	days, err := client.ListArchives(ctx)
	if err != nil {
		return fmt.Errorf("failed to list archives: %w", err)
	}
	fmt.Fprintf(out, "Archives (%d):\n", len(days))
	for _, day := range days {
		fmt.Fprintf(out, "  %s\n", day)
	}
	return nil
}

func formatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second).String()
}
