package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Jayphen/opsboard/internal/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the terminal dashboard",
		Long: `Launch the interactive dashboard. The snapshot is reloaded and the board
recomputed every refresh_interval, or on demand with "r".`,
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loader, err := newBoardLoader(cfg)
	if err != nil {
		return err
	}
	defer loader.Close()

	model := tui.NewModel(tui.Options{
		Loader:          loader.Load,
		RefreshInterval: cfg.Interval(),
		OtherLimit:      cfg.OtherLimit,
		Timezone:        cfg.Timezone,
		Version:         Version,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
