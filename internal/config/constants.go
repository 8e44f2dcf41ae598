package config

const (
	// DefaultDatabasePath is where the SQLite database lives unless
	// DATABASE_PATH overrides it.
	DefaultDatabasePath = "./novelist.db"

	// DefaultExportDir is where manuscript exports are written unless
	// EXPORT_DIR overrides it.
	DefaultExportDir = "./manuscripts"
)
