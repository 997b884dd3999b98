package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Scan         ScanConfig         `yaml:"scan"`
	Queries      QueryConfig        `yaml:"queries"`
	EmptyFolders EmptyFoldersConfig `yaml:"empty_folders"`
	Report       ReportConfig       `yaml:"report"`
	Verbose      bool               `yaml:"verbose"`
}

// ScanConfig controls the tree walker.
type ScanConfig struct {
	Workers         int      `yaml:"workers"` // 0 means one per CPU
	Xdev            bool     `yaml:"xdev"`
	MaxErrors       int      `yaml:"max_errors"`
	DefaultExcludes bool     `yaml:"default_excludes"`
	ExcludePatterns []string `yaml:"exclude_patterns"` // regular expressions
}

// QueryConfig holds thresholds applied by the report commands.
type QueryConfig struct {
	TopN              int    `yaml:"top_n"`
	MinTypeSize       string `yaml:"min_type_size"`   // e.g. "1MB"
	MinFolderSize     string `yaml:"min_folder_size"` // e.g. "100MB"
	MaxFolderDepth    int    `yaml:"max_folder_depth"`
	SkipHiddenFolders bool   `yaml:"skip_hidden_folders"`
	RecentDays        int    `yaml:"recent_days"`
	OldDays           int    `yaml:"old_days"`
}

// EmptyFoldersConfig controls empty folder detection.
type EmptyFoldersConfig struct {
	Verify        bool     `yaml:"verify"`
	ReservedNames []string `yaml:"reserved_names"`
}

// ReportConfig sets where reports go and how results are printed.
type ReportConfig struct {
	Dir    string `yaml:"dir"`
	File   string `yaml:"file"`
	Format string `yaml:"format"` // table, json or yaml
}

// Load loads configuration from a file. Keys missing from the file keep
// their default values.
func Load(configPath string) (*Config, error) {
	cfg := GetDefault()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to a file
func Save(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan workers must be >= 0")
	}
	if c.Scan.MaxErrors < 0 {
		return fmt.Errorf("scan max errors must be >= 0")
	}
	for _, pattern := range c.Scan.ExcludePatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	q := c.Queries
	if q.TopN < 0 {
		return fmt.Errorf("top_n must be >= 0")
	}
	if _, err := q.MinTypeBytes(); err != nil {
		return err
	}
	if _, err := q.MinFolderBytes(); err != nil {
		return err
	}
	if q.MaxFolderDepth < 0 {
		return fmt.Errorf("max folder depth must be >= 0")
	}
	if q.RecentDays <= 0 {
		return fmt.Errorf("recent days must be > 0")
	}
	if q.OldDays <= 0 {
		return fmt.Errorf("old days must be > 0")
	}

	if c.Report.File == "" {
		return fmt.Errorf("report file name must not be empty")
	}
	switch c.Report.Format {
	case "", "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown report format %q", c.Report.Format)
	}

	return nil
}

// MinTypeBytes parses the file type size threshold.
func (q QueryConfig) MinTypeBytes() (int64, error) {
	return parseSize("min_type_size", q.MinTypeSize)
}

// MinFolderBytes parses the folder size threshold.
func (q QueryConfig) MinFolderBytes() (int64, error) {
	return parseSize("min_folder_size", q.MinFolderSize)
}

// RecentWindow is how recently a file must have changed to be recent.
func (q QueryConfig) RecentWindow() time.Duration {
	return time.Duration(q.RecentDays) * 24 * time.Hour
}

// OldAge is how long ago a file must have changed to be old.
func (q QueryConfig) OldAge() time.Duration {
	return time.Duration(q.OldDays) * 24 * time.Hour
}

func parseSize(key, s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return int64(n), nil
}

// ReportPath is the location of the empty folder report.
func (c *Config) ReportPath() string {
	return filepath.Join(c.Report.Dir, c.Report.File)
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "dugout", "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := Save(GetDefault(), configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}
