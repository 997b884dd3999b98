// Package report renders query results as tables, JSON or YAML, and writes
// the empty folder report file.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/platform"
	"github.com/michaelscutari/dugout/internal/query"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

const timeLayout = "2006-01-02 15:04:05"

// ParseFormat validates a format name. An empty name means table.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Reporter writes one section per call to its writer.
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	if format == "" {
		format = FormatTable
	}
	return &Reporter{writer: writer, format: format}
}

// section is the envelope used for structured output.
type section struct {
	Section string `json:"section" yaml:"section"`
	Drive   string `json:"drive,omitempty" yaml:"drive,omitempty"`
	Data    any    `json:"data" yaml:"data"`
}

func (r *Reporter) emit(title, drive string, data any, table func(w io.Writer)) error {
	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(section{Section: title, Drive: drive, Data: data})
	case FormatYAML:
		encoder := yaml.NewEncoder(r.writer)
		defer encoder.Close()
		return encoder.Encode(section{Section: title, Drive: drive, Data: data})
	case FormatTable:
		fmt.Fprintf(r.writer, "\n--- %s ---\n", title)
		tw := tabwriter.NewWriter(r.writer, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// DriveSpace prints capacity of a drive.
func (r *Reporter) DriveSpace(s platform.Space) error {
	return r.emit("Drive Space Overview", s.Drive, s, func(w io.Writer) {
		fmt.Fprintf(w, "Total Size:\t%s\n", humanize.IBytes(s.Total))
		fmt.Fprintf(w, "Used Space:\t%s\n", humanize.IBytes(s.Used))
		fmt.Fprintf(w, "Free Space:\t%s (%.2f%%)\n", humanize.IBytes(s.Free), s.FreePercent)
	})
}

// TypeDistribution prints size per file extension.
func (r *Reporter) TypeDistribution(drive string, stats []query.TypeStat) error {
	return r.emit("File Type Distribution", drive, stats, func(w io.Writer) {
		fmt.Fprintf(w, "SIZE\tCOUNT\tTYPE\n")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.Bytes(uint64(s.TotalSize)), humanize.Comma(s.Count), s.Ext)
		}
	})
}

// Files prints a titled list of file records.
func (r *Reporter) Files(title, drive string, files []entry.FileRecord) error {
	if files == nil {
		files = []entry.FileRecord{}
	}
	return r.emit(title, drive, files, func(w io.Writer) {
		fmt.Fprintf(w, "SIZE\tMODIFIED\tACCESSED\tPATH\n")
		for _, f := range files {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				humanize.Bytes(uint64(f.Size)),
				formatTime(f.ModTime),
				formatTime(f.AccessTime),
				f.Path,
			)
		}
	})
}

// Folders prints a titled list of folder aggregates.
func (r *Reporter) Folders(title, drive string, folders []entry.FolderAggregate) error {
	if folders == nil {
		folders = []entry.FolderAggregate{}
	}
	return r.emit(title, drive, folders, func(w io.Writer) {
		fmt.Fprintf(w, "SIZE\tFILES\tDIRS\tPATH\n")
		for _, f := range folders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				humanize.Bytes(uint64(f.TotalSize)),
				humanize.Comma(f.FileCount),
				humanize.Comma(f.DirCount),
				f.Path,
			)
		}
	})
}

// EmptyFolders prints the count followed by one line per folder.
func (r *Reporter) EmptyFolders(drive string, folders []string) error {
	if folders == nil {
		folders = []string{}
	}
	return r.emit("Empty Folders", drive, folders, func(w io.Writer) {
		fmt.Fprintf(w, "Found %d empty folders.\n", len(folders))
		for _, f := range folders {
			fmt.Fprintf(w, " - %s\n", f)
		}
	})
}

// Summary prints totals of a scan.
func (r *Reporter) Summary(s query.ScanSummary) error {
	return r.emit("Scan Summary", s.Root, s, func(w io.Writer) {
		fmt.Fprintf(w, "Root Path:\t%s\n", s.Root)
		if !s.ScannedAt.IsZero() {
			fmt.Fprintf(w, "Scanned:\t%s\n", s.ScannedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(w, "Duration:\t%s\n", s.Duration.Round(time.Millisecond))
		fmt.Fprintf(w, "Files:\t%s\n", humanize.Comma(s.Files))
		fmt.Fprintf(w, "Directories:\t%s\n", humanize.Comma(s.Folders))
		fmt.Fprintf(w, "Apparent Size:\t%s\n", humanize.Bytes(uint64(s.TotalSize)))
		if s.Errors > 0 {
			fmt.Fprintf(w, "Errors:\t%s\n", humanize.Comma(s.Errors))
		}
	})
}

// Drives prints the fixed drives of the machine.
func (r *Reporter) Drives(drives []string) error {
	if drives == nil {
		drives = []string{}
	}
	return r.emit("Drives", "", drives, func(w io.Writer) {
		for _, d := range drives {
			fmt.Fprintf(w, "%s\n", d)
		}
	})
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

// Structured reports whether output is JSON or YAML.
func (r *Reporter) Structured() bool {
	return r.format == FormatJSON || r.format == FormatYAML
}

// Document writes v as one section. Table output falls back to fmt's
// default formatting.
func (r *Reporter) Document(title, drive string, v any) error {
	return r.emit(title, drive, v, func(w io.Writer) {
		fmt.Fprintf(w, "%+v\n", v)
	})
}

// Notice prints a free-form line in table mode and nothing otherwise.
func (r *Reporter) Notice(format string, args ...any) {
	if r.Structured() {
		return
	}
	fmt.Fprintf(r.writer, format+"\n", args...)
}
