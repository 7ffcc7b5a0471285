package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:           BackendSQLite,
			Path:              "~/.config/montycal",
			SQLiteFile:        "montycal.db",
			SQLiteJournalMode: "wal",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Calendar: CalendarConfig{
			SeedDefaultCategories: true,
			DefaultCategories:     defaultCategories(),
		},
		Layout: LayoutConfig{
			DefaultColor: "#3b82f6",
		},
		ICS: ICSConfig{
			ProductID: "-//montycal//EN",
			Timezone:  "UTC",
		},
	}
}
