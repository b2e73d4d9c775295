package config

// Default paths for the application databases
const (
	// DefaultDatabasePath is the default path for the catalogue database
	DefaultDatabasePath = "./library.db"
)
