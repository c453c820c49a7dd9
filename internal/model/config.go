package model

import "time"

// Config holds all runtime settings
type Config struct {
	Highlight    HighlightConfig    `yaml:"highlight" mapstructure:"highlight"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// HighlightConfig controls the highlighting engine
type HighlightConfig struct {
	ShowHighlights bool   `yaml:"show_highlights" mapstructure:"show_highlights"`
	TermFallback   bool   `yaml:"term_fallback" mapstructure:"term_fallback"` // Use term highlighting when offsets do not project
	MaxTerms       int    `yaml:"max_terms" mapstructure:"max_terms"`         // Matched terms shown before "+N"
	MarkClass      string `yaml:"mark_class" mapstructure:"mark_class"`
}

// CacheConfig controls report memoization
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles batch rendering per feed
type RateLimitingConfig struct {
	ArticlesPerSecond float64 `yaml:"articles_per_second" mapstructure:"articles_per_second"` // 0 disables throttling
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls reporting
type OutputConfig struct {
	Verbose  bool   `yaml:"verbose" mapstructure:"verbose"`
	Color    bool   `yaml:"color" mapstructure:"color"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// DefaultMarkClass is the CSS class of every highlight wrapper
const DefaultMarkClass = "workspace-reader__highlight"

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Highlight: HighlightConfig{
			ShowHighlights: true,
			TermFallback:   true,
			MaxTerms:       3,
			MarkClass:      DefaultMarkClass,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 10 * time.Minute,
			DiskDir:   ".sift-highlight-cache",
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			ArticlesPerSecond: 0,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Verbose:  false,
			Color:    true,
			LogLevel: "info",
		},
	}
}
