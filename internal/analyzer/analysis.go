package analyzer

import (
	"context"

	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/pathutil"
	"github.com/michaelscutari/dugout/internal/platform"
	"github.com/michaelscutari/dugout/internal/query"
	"github.com/michaelscutari/dugout/internal/report"
)

// Analysis is every report for one drive.
type Analysis struct {
	Drive          string                  `json:"drive" yaml:"drive"`
	Space          *platform.Space         `json:"space,omitempty" yaml:"space,omitempty"`
	SpaceError     string                  `json:"space_error,omitempty" yaml:"space_error,omitempty"`
	Summary        query.ScanSummary       `json:"summary" yaml:"summary"`
	Types          []query.TypeStat        `json:"types" yaml:"types"`
	LargestFiles   []entry.FileRecord      `json:"largest_files" yaml:"largest_files"`
	LargestFolders []entry.FolderAggregate `json:"largest_folders" yaml:"largest_folders"`
	RecentFiles    []entry.FileRecord      `json:"recent_files" yaml:"recent_files"`
	OldFiles       []entry.FileRecord      `json:"old_files" yaml:"old_files"`
	EmptyFolders   []string                `json:"empty_folders" yaml:"empty_folders"`
}

// FullAnalysis runs every query against drive. A failed space query is
// recorded on the result and does not stop the rest; a failed walk does.
func (e *Engine) FullAnalysis(ctx context.Context, drive string) (*Analysis, error) {
	root, err := pathutil.NormalizeDrive(drive)
	if err != nil {
		return nil, err
	}

	a := &Analysis{Drive: root}
	if s, err := e.space.Space(ctx, root); err != nil {
		a.SpaceError = err.Error()
	} else {
		a.Space = &s
	}

	if a.Summary, err = e.Summary(ctx, root); err != nil {
		return nil, err
	}
	if a.Types, err = e.FileTypeDistribution(ctx, root); err != nil {
		return nil, err
	}
	if a.LargestFiles, err = e.LargestFiles(ctx, root); err != nil {
		return nil, err
	}
	if a.LargestFolders, err = e.LargestFolders(ctx, root); err != nil {
		return nil, err
	}
	if a.RecentFiles, err = e.RecentLargeFiles(ctx, root); err != nil {
		return nil, err
	}
	if a.OldFiles, err = e.OldLargeFiles(ctx, root); err != nil {
		return nil, err
	}
	if a.EmptyFolders, err = e.EmptyFolders(ctx, root); err != nil {
		return nil, err
	}
	return a, nil
}

// Render writes a as one document for structured formats, or as the
// sequence of table sections otherwise.
func (a *Analysis) Render(r *report.Reporter) error {
	if r.Structured() {
		return r.Document("Full Drive Analysis", a.Drive, a)
	}

	r.Notice("\n=== Storage Distribution Analysis ===\nDrive: %s", a.Drive)
	if a.Space != nil {
		if err := r.DriveSpace(*a.Space); err != nil {
			return err
		}
	} else {
		r.Notice("\nFailed to query drive space: %s", a.SpaceError)
	}

	steps := []func() error{
		func() error { return r.Summary(a.Summary) },
		func() error { return r.TypeDistribution(a.Drive, a.Types) },
		func() error { return r.Files("Largest Files", a.Drive, a.LargestFiles) },
		func() error { return r.Folders("Largest Folders", a.Drive, a.LargestFolders) },
		func() error { return r.Files("Recent Large Files", a.Drive, a.RecentFiles) },
		func() error { return r.Files("Old Large Files", a.Drive, a.OldFiles) },
		func() error { return r.EmptyFolders(a.Drive, a.EmptyFolders) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
