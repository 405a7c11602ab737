package database

import "time"

const (
	defaultMaxIdleConns    = 4
	defaultMaxOpenConns    = 8
	defaultConnMaxLifetime = time.Hour
)

// Config holds database configuration settings
type Config struct {
	DBPath string

	// Optional settings (will use defaults if not set)
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	BusyTimeoutMS   int

	// ReadOnly opens the mirror for serving; migrations are skipped.
	ReadOnly bool
}

// NewConfig creates a new database configuration with default values
func NewConfig(dbPath string) *Config {
	return &Config{
		DBPath:          dbPath,
		ConnMaxLifetime: defaultConnMaxLifetime,
		BusyTimeoutMS:   5000,
	}
}
