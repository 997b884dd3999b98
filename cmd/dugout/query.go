package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/dugout/internal/analyzer"
	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/pathutil"
	"github.com/michaelscutari/dugout/internal/query"
	"github.com/michaelscutari/dugout/internal/report"
)

// driveCommand wires the shared setup for commands that query one drive.
func driveCommand(use, short string, run func(ctx context.Context, e *analyzer.Engine, r *report.Reporter, drive string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <drive>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if emptyNoVerify {
				cfg.EmptyFolders.Verify = false
			}
			e, err := newEngine(cfg, newProgressDisplay(30*time.Second))
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return run(ctx, e, report.New(os.Stdout, outputFormat(cfg)), args[0])
		},
	}
}

var drivesCmd = &cobra.Command{
	Use:   "drives",
	Short: "List fixed drives",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		e, err := newEngine(cfg, nil)
		if err != nil {
			return err
		}
		drives, err := e.Drives(cmd.Context())
		if err != nil {
			return err
		}
		return report.New(os.Stdout, outputFormat(cfg)).Drives(drives)
	},
}

var spaceCmd = driveCommand("space", "Show total, used and free space of a drive",
	func(ctx context.Context, e *analyzer.Engine, r *report.Reporter, drive string) error {
		space, err := e.DriveSpace(ctx, drive)
		if err != nil {
			return err
		}
		return r.DriveSpace(space)
	})

var typesCmd = driveCommand("types", "Show space used per file extension",
	func(ctx context.Context, e *analyzer.Engine, r *report.Reporter, drive string) error {
		stats, err := e.FileTypeDistribution(ctx, drive)
		if err != nil {
			return err
		}
		return r.TypeDistribution(drive, stats)
	})

var largestFilesCmd = driveCommand("largest-files", "Show the largest files",
	func(ctx context.Context, e *analyzer.Engine, r *report.Reporter, drive string) error {
		files, err := e.LargestFiles(ctx, drive)
		if err != nil {
			return err
		}
		return r.Files("Largest Files", drive, files)
	})

var largestFoldersCmd = driveCommand("largest-folders", "Show the largest folders",
	func(ctx context.Context, e *analyzer.Engine, r *report.Reporter, drive string) error {
		folders, err := e.LargestFolders(ctx, drive)
		if err != nil {
			return err
		}
		return r.Folders("Largest Folders", drive, folders)
	})

var recentCmd = driveCommand("recent", "Show large files modified recently",
	func(ctx context.Context, e *analyzer.Engine, r *report.Reporter, drive string) error {
		files, err := e.RecentLargeFiles(ctx, drive)
		if err != nil {
			return err
		}
		return r.Files("Recent Large Files", drive, files)
	})

var oldCmd = driveCommand("old", "Show large files not modified for a long time",
	func(ctx context.Context, e *analyzer.Engine, r *report.Reporter, drive string) error {
		files, err := e.OldLargeFiles(ctx, drive)
		if err != nil {
			return err
		}
		return r.Files("Old Large Files", drive, files)
	})

var (
	emptySave     bool
	emptyNoVerify bool
)

var emptyCmd = driveCommand("empty", "List folders with no files beneath them",
	func(ctx context.Context, e *analyzer.Engine, r *report.Reporter, drive string) error {
		if !emptySave {
			folders, err := e.EmptyFolders(ctx, drive)
			if err != nil {
				return err
			}
			return r.EmptyFolders(drive, folders)
		}
		path, folders, err := e.SaveEmptyFolders(ctx, drive)
		if err != nil {
			return err
		}
		if err := r.EmptyFolders(drive, folders); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved empty folders report to: %s\n", path)
		return nil
	})

var analyzeCmd = driveCommand("analyze", "Run every report against a drive",
	func(ctx context.Context, e *analyzer.Engine, r *report.Reporter, drive string) error {
		a, err := e.FullAnalysis(ctx, drive)
		if err != nil {
			return err
		}
		return a.Render(r)
	})

var (
	childrenPath  string
	childrenSort  string
	childrenLimit int
)

var childrenCmd = driveCommand("children", "List the direct children of a directory",
	func(ctx context.Context, e *analyzer.Engine, r *report.Reporter, drive string) error {
		res, err := e.Result(ctx, drive)
		if err != nil {
			return err
		}
		dir := res.Root
		if childrenPath != "" {
			abs, err := filepath.Abs(childrenPath)
			if err != nil {
				return fmt.Errorf("failed to resolve path: %w", err)
			}
			dir = pathutil.Normalize(abs)
			if pathutil.Depth(res.Root, dir) < 0 {
				return fmt.Errorf("%s is outside %s", dir, res.Root)
			}
		}

		entries := query.NewIndex(res).Children(dir, childrenSort, childrenLimit)
		if r.Structured() {
			return r.Document("Children", dir, entries)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SIZE\tFILES\tDIRS\tNAME\n")
		for _, child := range entries {
			name := child.Name
			if child.Kind == entry.KindDir {
				name += "/"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				humanize.Bytes(uint64(child.TotalSize)),
				humanize.Comma(child.TotalFiles),
				humanize.Comma(child.TotalDirs),
				name,
			)
		}
		return w.Flush()
	})

func init() {
	emptyCmd.Flags().BoolVar(&emptySave, "save", false, "Write the list to the configured report file")
	emptyCmd.Flags().BoolVar(&emptyNoVerify, "no-verify", false, "Skip re-listing candidates on disk")

	childrenCmd.Flags().StringVarP(&childrenPath, "path", "p", "", "Directory to list (default: the drive root)")
	childrenCmd.Flags().StringVarP(&childrenSort, "sort", "s", "size", "Sort by: size, name, files")
	childrenCmd.Flags().IntVarP(&childrenLimit, "limit", "n", 20, "Maximum number of results (0 = all)")
}
