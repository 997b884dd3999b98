package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// WriteEmptyFolderReport writes folders to dir/file, creating dir if
// needed and replacing any previous report. It returns the report path.
func WriteEmptyFolderReport(dir, file string, folders []string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, file)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "Empty Folders Report:")
	fmt.Fprintf(w, "Found %d empty folders.\n", len(folders))
	for _, folder := range folders {
		fmt.Fprintf(w, " - %s\n", folder)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
