package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"streamarchive/pkg/env"
	"streamarchive/pkg/logger"
	"streamarchive/pkg/paths"
)

// Config holds application configuration
type Config struct {
	// Addon settings
	AddonPort    int    `json:"addon_port"`
	AddonBaseURL string `json:"addon_base_url"`
	LogLevel     string `json:"log_level"`

	// Resolver settings
	MaxStreams       int  `json:"max_streams"`     // Max streams to return per title
	RequirePDOrCC    bool `json:"require_pd_or_cc"` // Only admit public-domain/CC items
	StrictMode       bool `json:"strict_mode"`
	MinFeatureSizeMB int  `json:"min_feature_size_mb"`

	// Confidence thresholds. Empirically tuned; override individually,
	// do not re-derive.
	TitleScoreStrict  float64 `json:"title_score_strict"`
	TitleScoreRelaxed float64 `json:"title_score_relaxed"`

	// Collection scopes tried (in order) during the scoped search phase
	CollectionScopes []string `json:"collection_scopes"`

	// Positional guess (last-resort episode selection by file order)
	AllowPositionalGuess  bool `json:"allow_positional_guess"`
	PositionalVarianceMin int  `json:"positional_guess_max_variance_min"`

	// Search settings
	SearchRows       int `json:"search_rows"`       // Rows requested per search call
	FetchConcurrency int `json:"fetch_concurrency"` // In-flight metadata fetches
	CacheCapacity    int `json:"cache_capacity"`    // Max entries retained by the TTL cache

	// TMDB settings (env only, never persisted)
	TMDBAPIKey string `json:"-"`

	// Internal - where was this config loaded from?
	LoadedPath string `json:"-"`
}

// Default returns a config populated with all defaults.
func Default() *Config {
	return &Config{
		AddonPort:             7011,
		AddonBaseURL:          "http://localhost:7011",
		LogLevel:              "INFO",
		MaxStreams:            5,
		RequirePDOrCC:         false,
		StrictMode:            false,
		MinFeatureSizeMB:      5,
		TitleScoreStrict:      0.9,
		TitleScoreRelaxed:     0.8,
		CollectionScopes:      []string{"feature_films", "classic_tv", "television"},
		AllowPositionalGuess:  false,
		PositionalVarianceMin: 25,
		SearchRows:            60,
		FetchConcurrency:      4,
		CacheCapacity:         4096,
	}
}

// Load is intended for startup only. It loads configuration from config.json,
// applies environment variable overrides once, then saves the merged config.
func Load() (*Config, error) {
	cfg := Default()

	path := filepath.Join(paths.GetDataDir(), "config.json")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		cfg.LoadedPath = path
	case os.IsNotExist(err):
		logger.Info("No config file found, using defaults", "path", path)
	default:
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Save(path); err != nil {
		logger.Warn("Failed to persist merged config", "path", path, "err", err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.AddonPort = env.GetInt(env.AddonPort, c.AddonPort)
	c.AddonBaseURL = env.GetString(env.AddonBaseURL, c.AddonBaseURL)
	c.LogLevel = env.GetString(env.LogLevel, c.LogLevel)
	c.MaxStreams = env.GetInt(env.MaxStreams, c.MaxStreams)
	c.RequirePDOrCC = env.GetBool(env.RequirePDOrCC, c.RequirePDOrCC)
	c.StrictMode = env.GetBool(env.StrictMode, c.StrictMode)
	c.MinFeatureSizeMB = env.GetInt(env.MinFeatureSizeMB, c.MinFeatureSizeMB)
	c.TitleScoreStrict = env.GetFloat(env.TitleScoreStrict, c.TitleScoreStrict)
	c.TitleScoreRelaxed = env.GetFloat(env.TitleScoreRelaxed, c.TitleScoreRelaxed)
	c.CollectionScopes = env.GetList(env.CollectionScopes, c.CollectionScopes)
	c.AllowPositionalGuess = env.GetBool(env.AllowPositionalGuess, c.AllowPositionalGuess)
	c.PositionalVarianceMin = env.GetInt(env.PositionalVarianceMin, c.PositionalVarianceMin)
	c.SearchRows = env.GetInt(env.SearchRows, c.SearchRows)
	c.FetchConcurrency = env.GetInt(env.FetchConcurrency, c.FetchConcurrency)
	c.CacheCapacity = env.GetInt(env.CacheCapacity, c.CacheCapacity)
	c.TMDBAPIKey = env.GetString(env.TMDBAPIKey, c.TMDBAPIKey)
}

// Save writes the config as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MinFeatureSizeBytes returns the minimum video file size in bytes.
func (c *Config) MinFeatureSizeBytes() int64 {
	return int64(c.MinFeatureSizeMB) * 1000 * 1000
}
