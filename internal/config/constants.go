package config

// Constants defining default values for application configuration
const (
	EnvPrefix = "FEEDPROXY_"

	DefaultServerPort = 8080
	DefaultServerHost = "" // Empty string means all interfaces

	SourcePlaceholder = "placeholder"
	SourceSQLite      = "sqlite"
	DefaultSource     = SourcePlaceholder

	DefaultUpstreamURL    = "https://jsonplaceholder.typicode.com"
	DefaultDBPath         = "./placeholder.db"
	DefaultRequestTimeout = 10 // Seconds per outbound request
	DefaultUpstreamRPS    = 0  // 0 means no outbound throttle

	DefaultAPIURL = "http://localhost:8080"

	DefaultLogLevel = "info"
)
