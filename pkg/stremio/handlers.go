package stremio

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"streamarchive/pkg/config"
	"streamarchive/pkg/logger"
	"streamarchive/pkg/resolver"
)

const streamTimeout = 30 * time.Second

// Server represents the Stremio addon HTTP server
type Server struct {
	manifest   *Manifest
	config     *config.Config
	resolver   *resolver.Resolver
	apiHandler http.Handler
}

// NewServer creates a new Stremio addon server
func NewServer(cfg *config.Config, res *resolver.Resolver, version string) *Server {
	return &Server{
		manifest: NewManifest(version),
		config:   cfg,
		resolver: res,
	}
}

// CheckPort verifies if the specified port is available for the addon
func (s *Server) CheckPort(port int) error {
	address := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("addon port %d is already in use", port)
	}
	ln.Close()
	return nil
}

// SetAPIHandler sets the handler for API requests
func (s *Server) SetAPIHandler(h http.Handler) {
	s.apiHandler = h
}

// SetupRoutes configures HTTP routes for the addon
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/manifest.json", s.handleManifest)
	mux.HandleFunc("/stream/", s.handleStream)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if s.apiHandler != nil {
			s.apiHandler.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// handleManifest serves the addon manifest
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Manifest request", "remote", r.RemoteAddr)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	data, err := s.manifest.ToJSON()
	if err != nil {
		http.Error(w, "Failed to generate manifest", http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

// handleStream handles stream requests
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	// Parse URL: /stream/{type}/{id}.json
	path := strings.TrimPrefix(r.URL.Path, "/stream/")
	path = strings.TrimSuffix(path, ".json")

	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		http.Error(w, "Invalid stream URL", http.StatusBadRequest)
		return
	}

	contentType := parts[0]
	if contentType != "movie" && contentType != "series" {
		http.Error(w, "Unsupported type", http.StatusNotFound)
		return
	}
	id, season, episode, err := parseVideoID(parts[1])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("Stream request", "type", contentType, "id", id, "season", season, "episode", episode)

	ctx, cancel := context.WithTimeout(r.Context(), streamTimeout)
	defer cancel()

	streams := s.resolver.Resolve(ctx, contentType, id, season, episode)

	response := StreamResponse{Streams: make([]Stream, 0, len(streams))}
	for _, st := range streams {
		response.Streams = append(response.Streams, Stream{
			URL:   st.URL,
			Name:  st.Label,
			Title: st.Title,
			BehaviorHints: &BehaviorHints{
				BingeGroup: st.GroupKey,
			},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	json.NewEncoder(w).Encode(response)
}

// parseVideoID splits a Stremio video id into its IMDb id and optional
// season/episode. Movies arrive as "tt0031381", episodes as "tt0903747:2:5".
func parseVideoID(raw string) (id string, season, episode int, err error) {
	decoded, uerr := url.PathUnescape(raw)
	if uerr != nil {
		decoded = raw
	}

	segments := strings.Split(decoded, ":")
	id = segments[0]
	if !strings.HasPrefix(id, "tt") {
		return "", 0, 0, fmt.Errorf("unsupported id %q", decoded)
	}

	if len(segments) == 1 {
		return id, 0, 0, nil
	}
	if len(segments) != 3 {
		return "", 0, 0, fmt.Errorf("malformed series id %q", decoded)
	}

	season, err = strconv.Atoi(segments[1])
	if err != nil || season < 0 {
		return "", 0, 0, fmt.Errorf("malformed season in %q", decoded)
	}
	episode, err = strconv.Atoi(segments[2])
	if err != nil || episode < 1 {
		return "", 0, 0, fmt.Errorf("malformed episode in %q", decoded)
	}
	return id, season, episode, nil
}

// handleHealth is a simple liveness probe
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
