package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"streamarchive/pkg/api"
	"streamarchive/pkg/archive"
	"streamarchive/pkg/cache"
	"streamarchive/pkg/config"
	"streamarchive/pkg/logger"
	"streamarchive/pkg/resolver"
	"streamarchive/pkg/services/metadata/cinemeta"
	"streamarchive/pkg/services/metadata/tmdb"
	"streamarchive/pkg/stremio"
)

// Version is set at build time via -ldflags
var Version = "0.1.0"

func main() {
	// Load environment variables for logger and bootstrap
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	// Initialize Logger early so config loading can use it
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}
	logger.Init(logLevel)
	defer logger.Close()

	logger.Info("Starting StreamArchive", "version", Version)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "err", err)
	}

	// Shared TTL cache for search results and metadata
	cacheSvc := cache.New(cfg.CacheCapacity, 24*time.Hour)

	archiveClient := archive.NewClient(cacheSvc, cfg.SearchRows)
	cinemetaClient := cinemeta.NewClient(cacheSvc)

	var altTitles resolver.AlternateTitlesProvider
	if cfg.TMDBAPIKey != "" {
		altTitles = tmdb.NewClient(cfg.TMDBAPIKey, cacheSvc)
		logger.Info("TMDB alternate titles enabled")
	}

	res := resolver.New(cfg, archiveClient, cinemetaClient, altTitles)

	stremioServer := stremio.NewServer(cfg, res, Version)
	if err := stremioServer.CheckPort(cfg.AddonPort); err != nil {
		logger.Fatal("Port check failed", "err", err)
	}

	apiServer := api.NewServer(cfg, cacheSvc, res)
	stremioServer.SetAPIHandler(apiServer.Handler())

	mux := http.NewServeMux()
	stremioServer.SetupRoutes(mux)

	addr := fmt.Sprintf(":%d", cfg.AddonPort)
	logger.Info("Stremio manifest URL", "url", fmt.Sprintf("%s/manifest.json", cfg.AddonBaseURL))

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", "err", err)
	}
}
