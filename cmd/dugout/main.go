package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dugout",
	Short: "A disk usage analyser with an interactive shell",
	Long: `dugout walks a drive once, keeps the result in memory and answers
questions about it: largest files and folders, file type distribution,
recent and old large files, and empty folders. Run without a command to
start the interactive shell.`,
	SilenceUsage: true,
	RunE:         runShell,
}

var (
	configPath string
	verbose    bool
	formatFlag string
	workers    int
	excludes   []string
)

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose scan logging")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: table, json, yaml (default from config)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Number of walker goroutines (0 = from config)")
	rootCmd.PersistentFlags().StringSliceVarP(&excludes, "exclude", "e", nil, "Extra regex patterns to exclude (can be repeated)")

	rootCmd.AddCommand(drivesCmd)
	rootCmd.AddCommand(spaceCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(largestFilesCmd)
	rootCmd.AddCommand(largestFoldersCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(oldCmd)
	rootCmd.AddCommand(emptyCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(childrenCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(configCmd)
}
