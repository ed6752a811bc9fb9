// Package env consolidates all environment variable reading for the application.
// Config overrides are applied only at startup (see config.Load).
package env

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names (single source of truth)
const (
	AddonPort             = "ADDON_PORT"
	AddonDataDir          = "ADDON_DATA_DIR"
	AddonBaseURL          = "ADDON_BASE_URL"
	LogLevel              = "LOG_LEVEL"
	MaxStreams            = "MAX_STREAMS"
	RequirePDOrCC         = "REQUIRE_PD_OR_CC"
	StrictMode            = "STRICT_MODE"
	MinFeatureSizeMB      = "MIN_FEATURE_SIZE_MB"
	TitleScoreStrict      = "TITLE_SCORE_STRICT"
	TitleScoreRelaxed     = "TITLE_SCORE_RELAXED"
	CollectionScopes      = "COLLECTION_SCOPES"
	AllowPositionalGuess  = "ALLOW_POSITIONAL_GUESS"
	PositionalVarianceMin = "POSITIONAL_GUESS_MAX_VARIANCE_MIN"
	SearchRows            = "SEARCH_ROWS"
	FetchConcurrency      = "FETCH_CONCURRENCY"
	CacheCapacity         = "CACHE_CAPACITY"
	TMDBAPIKey            = "TMDB_API_KEY"
)

// GetString returns the env value or the fallback when unset.
func GetString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// GetInt returns the env value parsed as int, or the fallback when unset
// or unparseable.
func GetInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// GetFloat returns the env value parsed as float64, or the fallback.
func GetFloat(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// GetBool returns the env value parsed as bool ("true", "1", "yes"), or
// the fallback when unset.
func GetBool(name string, fallback bool) bool {
	v := strings.ToLower(os.Getenv(name))
	switch v {
	case "":
		return fallback
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

// GetList returns a comma-separated env value as a slice, or the fallback.
func GetList(name string, fallback []string) []string {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsSet reports whether the variable is present in the environment.
func IsSet(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}
