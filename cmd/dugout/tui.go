package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/dugout/internal/analyzer"
	"github.com/michaelscutari/dugout/internal/scan"
	"github.com/michaelscutari/dugout/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <drive>",
	Short: "Browse a drive interactively",
	Long:  `Walk a drive and open an interactive browser over the result.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Verbose scan logs would corrupt the alternate screen.
	cfg.Verbose = false

	var program *tea.Program
	progress := func(p scan.Progress) {
		if program != nil {
			program.Send(tui.ProgressMsg(p))
		}
	}
	engine, err := analyzer.New(cfg, analyzer.WithProgress(progress))
	if err != nil {
		return err
	}

	model := tui.NewModel(cmd.Context(), engine, args[0])
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
