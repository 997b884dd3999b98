package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetDefault(t *testing.T) {
	cfg := GetDefault()

	if cfg.Queries.TopN != 10 {
		t.Errorf("expected TopN 10, got %d", cfg.Queries.TopN)
	}
	if cfg.Queries.MaxFolderDepth != 3 {
		t.Errorf("expected MaxFolderDepth 3, got %d", cfg.Queries.MaxFolderDepth)
	}
	if cfg.Queries.RecentWindow() != 30*24*time.Hour {
		t.Errorf("unexpected recent window %s", cfg.Queries.RecentWindow())
	}
	if cfg.Queries.OldAge() != 180*24*time.Hour {
		t.Errorf("unexpected old age %s", cfg.Queries.OldAge())
	}
	if !cfg.Scan.Xdev {
		t.Error("expected Xdev enabled by default")
	}
	if cfg.ReportPath() != filepath.Join("outputs", "EmptyFolderReport.txt") {
		t.Errorf("unexpected report path %q", cfg.ReportPath())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Queries.TopN != 10 {
		t.Fatalf("expected defaults, got %+v", cfg.Queries)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "queries:\n  top_n: 25\n  min_folder_size: 2GB\nscan:\n  workers: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Queries.TopN != 25 || cfg.Scan.Workers != 3 {
		t.Fatalf("file values not applied: %+v %+v", cfg.Queries, cfg.Scan)
	}
	if cfg.Queries.RecentDays != 30 || cfg.Report.Dir != "outputs" {
		t.Fatalf("defaults lost: %+v %+v", cfg.Queries, cfg.Report)
	}
	n, err := cfg.Queries.MinFolderBytes()
	if err != nil || n != 2_000_000_000 {
		t.Fatalf("MinFolderBytes = %d, %v", n, err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"negative workers": "scan:\n  workers: -1\n",
		"bad regex":        "scan:\n  exclude_patterns: ['(']\n",
		"bad size":         "queries:\n  min_type_size: lots\n",
		"zero recent":      "queries:\n  recent_days: 0\n",
		"bad format":       "report:\n  format: xml\n",
		"not yaml":         "queries: [\n",
	}
	for name, data := range tests {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := GetDefault()
	cfg.Queries.OldDays = 365
	cfg.EmptyFolders.ReservedNames = []string{"keep"}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "old_days: 365") {
		t.Fatalf("saved file missing value:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Queries.OldDays != 365 || len(loaded.EmptyFolders.ReservedNames) != 1 {
		t.Fatalf("unexpected loaded config: %+v", loaded)
	}
}

func TestEnsureConfigExists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	path, err := EnsureConfigExists()
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not created: %v", err)
	}
}
