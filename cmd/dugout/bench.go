package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/dugout/internal/analyzer"
	"github.com/michaelscutari/dugout/internal/scan"
)

var benchCmd = &cobra.Command{
	Use:   "bench <dir>",
	Short: "Time uncached walks of a directory at several worker counts",
	Long: `Walk a directory once per worker count and report throughput. Results
are not cached, so every run reads the filesystem again.`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

var (
	benchWorkers []int
	benchRuns    int
)

func init() {
	benchCmd.Flags().IntSliceVar(&benchWorkers, "workers-list", []int{1, 2, 4, 8, 16}, "Worker counts to try")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 1, "Walks per worker count")
}

func runBench(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve root path: %w", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if benchRuns < 1 {
		benchRuns = 1
	}

	ctx, stop := signalContext()
	defer stop()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "WORKERS\tRUN\tFILES\tDIRS\tBYTES\tERRORS\tTIME\tENTRIES/SEC\t\n")
	for _, n := range benchWorkers {
		for run := 1; run <= benchRuns; run++ {
			opts, err := analyzer.ScanOptions(cfg)
			if err != nil {
				return err
			}
			opts.WithWorkers(n)
			if !cfg.Verbose {
				opts.Log = nil
			}

			res, err := scan.NewScanner(opts).Run(ctx, root)
			if err != nil {
				w.Flush()
				return fmt.Errorf("walk with %d workers: %w", n, err)
			}
			rate := 0.0
			if secs := res.Duration.Seconds(); secs > 0 {
				rate = float64(len(res.Files)+len(res.Folders)) / secs
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%d\t%s\t%.0f\t\n",
				n, run,
				humanize.Comma(int64(len(res.Files))),
				humanize.Comma(int64(len(res.Folders))),
				humanize.IBytes(uint64(res.TotalSize())),
				res.Errors,
				res.Duration.Round(time.Millisecond),
				rate,
			)
		}
	}
	return w.Flush()
}
