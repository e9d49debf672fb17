package am

// Config represents the plaszyme configuration
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database" toml:"database"`
	Server     ServerConfig     `mapstructure:"server" toml:"server"`
	Search     SearchConfig     `mapstructure:"search" toml:"search"`
	Substrates SubstratesConfig `mapstructure:"substrates" toml:"substrates"`
}

// DatabaseConfig configures the SQLite enzyme store
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	Port              int      `mapstructure:"port" toml:"port"`
	AllowedOrigins    []string `mapstructure:"allowed_origins" toml:"allowed_origins"`
	RequestsPerMinute int      `mapstructure:"requests_per_minute" toml:"requests_per_minute"` // per client IP, 0 = unlimited
	LogTheme          string   `mapstructure:"log_theme" toml:"log_theme"`                     // Color theme: gruvbox, everforest
}

// SearchConfig configures the similarity search engine
type SearchConfig struct {
	DefaultMaxResults int    `mapstructure:"default_max_results" toml:"default_max_results"` // used when a request omits max_results
	MaxResultsCap     int    `mapstructure:"max_results_cap" toml:"max_results_cap"`         // upper bound on caller-supplied max_results
	DefaultThreshold  string `mapstructure:"default_threshold" toml:"default_threshold"`     // low, medium, high, very_high
	OverfetchFactor   int    `mapstructure:"overfetch_factor" toml:"overfetch_factor"`       // candidates fetched per requested result
	Workers           int    `mapstructure:"workers" toml:"workers"`                         // scoring goroutines per request
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" toml:"timeout_seconds"`         // per-request deadline, 0 = none
}

// SubstratesConfig configures the substrate (plastic) catalog
type SubstratesConfig struct {
	CatalogPath string `mapstructure:"catalog_path" toml:"catalog_path"` // CSV of name,smiles
	Watch       bool   `mapstructure:"watch" toml:"watch"`               // reload catalog when the file changes
}

// Server port constants
const (
	DefaultServerPort = 8877
)

// Search defaults
const (
	DefaultMaxResults      = 25
	DefaultMaxResultsCap   = 500
	DefaultThreshold       = "medium"
	DefaultOverfetchFactor = 3
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
