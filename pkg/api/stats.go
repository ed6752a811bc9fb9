package api

import (
	"time"

	"streamarchive/pkg/cache"
	"streamarchive/pkg/resolver"
)

// SystemStats represents the current state of the application
type SystemStats struct {
	Timestamp time.Time      `json:"timestamp"`
	Cache     cache.Stats    `json:"cache"`
	Resolver  resolver.Stats `json:"resolver"`
}

// collectStats gathers metrics from all sources
func (s *Server) collectStats() SystemStats {
	stats := SystemStats{
		Timestamp: time.Now(),
	}
	if s.cache != nil {
		stats.Cache = s.cache.Stats()
	}
	if s.resolver != nil {
		stats.Resolver = s.resolver.Stats()
	}
	return stats
}
