package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/dugout/internal/shell"
)

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, newProgressDisplay(30*time.Second))
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	sh := shell.New(engine, os.Stdin, os.Stdout, os.Stderr, outputFormat(cfg))
	if !isTerminal(os.Stdin) {
		sh.SetPrompt("")
	}
	if code := sh.Run(ctx); code != 0 {
		stop()
		os.Exit(code)
	}
	return nil
}
