package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jayphen/opsboard/internal/board"
	"github.com/Jayphen/opsboard/internal/logging"
	"github.com/Jayphen/opsboard/internal/notion"
	"github.com/Jayphen/opsboard/internal/redis"
)

var (
	syncOut     string
	syncNoRedis bool
	syncKey     string
	syncArchive bool
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch the task snapshot and cache it",
		Long: `Fetch the raw task list from the configured sources and store it in Redis
and/or a JSON file, so that board, tui and serve can read it with
"--source redis:" or "--source file:path=...".

Only the raw upstream batch is stored; boards are always recomputed.`,
		RunE: runSync,
	}

	cmd.Flags().StringVarP(&syncOut, "out", "o", "", "Also write the snapshot to this JSON file")
	cmd.Flags().BoolVar(&syncNoRedis, "no-redis", false, "Do not write to Redis")
	cmd.Flags().StringVar(&syncKey, "key", redis.SnapshotKey, "Redis key for the snapshot")
	cmd.Flags().BoolVar(&syncArchive, "archive", true, "Keep a per-day copy of the snapshot in Redis")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if syncNoRedis && syncOut == "" {
		return fmt.Errorf("nothing to do: --no-redis needs --out")
	}

	src, err := openSources(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	log := logging.WithCommand("sync").WithSource(src.Info().Name)

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	batch, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	log.WithField("pages", len(batch.Results)).Info("snapshot fetched")

	if syncOut != "" {
		if err := notion.WriteFile(syncOut, batch); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d tasks to %s\n", len(batch.Results), syncOut)
	}

	if syncNoRedis {
		return nil
	}

	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	if err := storeSnapshot(ctx, client, batch, cfg.SourceSpecs(), loc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cached %d tasks at %s\n", len(batch.Results), syncKey)
	return nil
}

// storeSnapshot writes the batch, its archive copy and the sync status.
func storeSnapshot(ctx context.Context, client *redis.Client, batch *notion.QueryResult, specs []string, loc *time.Location) error {
	if err := client.SetSnapshot(ctx, syncKey, batch); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}

	t := now()
	if syncArchive {
		if err := client.ArchiveSnapshot(ctx, board.DateOf(t.In(loc)), batch); err != nil {
			return fmt.Errorf("failed to archive snapshot: %w", err)
		}
	}

	return client.SetSyncStatus(ctx, &redis.SyncStatus{
		Timestamp: t.UnixMilli(),
		Sources:   specs,
		Pages:     len(batch.Results),
	})
}
