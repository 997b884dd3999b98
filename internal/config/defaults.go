package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Scan: ScanConfig{
			Workers:         0,
			Xdev:            true,
			DefaultExcludes: true,
		},
		Queries: QueryConfig{
			TopN:              10,
			MinTypeSize:       "1MB",
			MinFolderSize:     "100MB",
			MaxFolderDepth:    3,
			SkipHiddenFolders: true,
			RecentDays:        30,
			OldDays:           180,
		},
		EmptyFolders: EmptyFoldersConfig{
			Verify: true,
			ReservedNames: []string{
				"$Recycle.Bin",
				"System Volume Information",
				"Recovery",
				"lost+found",
				".Trash",
			},
		},
		Report: ReportConfig{
			Dir:    "outputs",
			File:   "EmptyFolderReport.txt",
			Format: "table",
		},
	}
}
