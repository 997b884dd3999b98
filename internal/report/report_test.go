package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/platform"
	"github.com/michaelscutari/dugout/internal/query"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "table", "json", "yaml"} {
		if _, err := ParseFormat(s); err != nil {
			t.Fatalf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestTableOutput(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatTable)

	if err := r.DriveSpace(platform.NewSpace("C:/", 1<<30, 1<<28)); err != nil {
		t.Fatal(err)
	}
	if err := r.TypeDistribution("C:/", []query.TypeStat{{Ext: ".txt", TotalSize: 2048, Count: 2}}); err != nil {
		t.Fatal(err)
	}
	if err := r.Files("Largest Files", "C:/", []entry.FileRecord{{Path: "/x/big.iso", Size: 5000}}); err != nil {
		t.Fatal(err)
	}
	if err := r.EmptyFolders("C:/", []string{"/x/a", "/x/b"}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"--- Drive Space Overview ---",
		"Free Space:",
		"(25.00%)",
		".txt",
		"/x/big.iso",
		"Found 2 empty folders.",
		" - /x/a",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatJSON)
	if err := r.Folders("Largest Folders", "/r", []entry.FolderAggregate{{Path: "/r/a", TotalSize: 10, FileCount: 1}}); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Section string                  `json:"section"`
		Drive   string                  `json:"drive"`
		Data    []entry.FolderAggregate `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if got.Section != "Largest Folders" || got.Drive != "/r" || len(got.Data) != 1 || got.Data[0].TotalSize != 10 {
		t.Fatalf("unexpected json: %+v", got)
	}
}

func TestYAMLOutputEmptyList(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatYAML)
	if err := r.EmptyFolders("/r", nil); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	data, ok := got["data"].([]any)
	if !ok || len(data) != 0 {
		t.Fatalf("expected empty list, got %#v", got["data"])
	}
}

func TestWriteEmptyFolderReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")

	path, err := WriteEmptyFolderReport(dir, "EmptyFolderReport.txt", []string{"/r/B", "/r/C"})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Empty Folders Report:\nFound 2 empty folders.\n - /r/B\n - /r/C\n"
	if string(data) != want {
		t.Fatalf("report = %q, want %q", data, want)
	}

	// A second write replaces the first.
	if _, err := WriteEmptyFolderReport(dir, "EmptyFolderReport.txt", nil); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "Empty Folders Report:\nFound 0 empty folders.\n" {
		t.Fatalf("report not overwritten: %q", data)
	}
}
