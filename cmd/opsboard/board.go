package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jayphen/opsboard/internal/board"
	"github.com/Jayphen/opsboard/internal/logging"
	"github.com/Jayphen/opsboard/internal/notify"
	"github.com/Jayphen/opsboard/internal/tui"
)

var (
	boardJSON   bool
	boardNotify bool
	boardAll    bool
	boardLimit  int
	boardWidth  int
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the dashboard",
		Long: `Fetch the current snapshot and print the summary counts followed by the
overdue, P0/P1 and other task sections.`,
		RunE: runBoard,
	}

	cmd.Flags().BoolVar(&boardJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&boardNotify, "notify", false, "Send an OS notification when tasks are overdue")
	cmd.Flags().BoolVar(&boardAll, "all", false, "Show every other task instead of a preview")
	cmd.Flags().IntVar(&boardLimit, "limit", -1, "Number of other tasks to show (default from config)")
	cmd.Flags().IntVar(&boardWidth, "width", 0, "Output width (default 100)")

	return cmd
}

func runBoard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loader, err := newBoardLoader(cfg)
	if err != nil {
		return err
	}
	defer loader.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	b, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	logging.WithCommand("board").WithFields(map[string]interface{}{
		"total":   b.Stats.Total,
		"overdue": b.Stats.Overdue,
	}).Info("board loaded")

	limit := cfg.OtherLimit
	if boardLimit >= 0 {
		limit = boardLimit
	}
	if boardAll {
		limit = 0
	}

	out := cmd.OutOrStdout()
	if boardJSON {
		err = writeBoardJSON(out, b)
	} else {
		fmt.Fprintln(out, tui.RenderBoard(b, tui.RenderOptions{
			OtherLimit: limit,
			Width:      boardWidth,
			Selected:   -1,
			Timezone:   cfg.Timezone,
		}))
	}
	if err != nil {
		return err
	}

	if boardNotify {
		if done := notify.SendOverdue(b); done != nil {
			if err := <-done; err != nil {
				logging.WithCommand("board").WithError(err).Warn("notification failed")
			}
		}
	}

	return nil
}

func writeBoardJSON(w io.Writer, b board.Board) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(b)
}
