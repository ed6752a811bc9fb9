// Package cinemeta resolves a canonical id to title, year, runtime, and
// the episode list, via Stremio's public Cinemeta catalog.
package cinemeta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"streamarchive/pkg/cache"
)

const (
	endpoint  = "https://v3-cinemeta.strem.io/meta/%s/%s.json"
	userAgent = "streamarchive/0.1"
	metaTTL   = 12 * time.Hour
)

var yearPattern = regexp.MustCompile(`\d{4}`)
var runtimePattern = regexp.MustCompile(`\d+`)

// Meta is the resolved title metadata for a movie or series.
type Meta struct {
	ID             string
	Name           string
	Year           int
	RuntimeMinutes int
	IMDBID         string
	Videos         []Video
}

// Video is one episode entry of a series.
type Video struct {
	Season   int
	Episode  int
	Title    string
	Released string // RFC3339 or date-only, as provided
}

// EpisodeInfo returns the title and release date of the given episode,
// or empty strings when unknown.
func (m *Meta) EpisodeInfo(season, episode int) (title, released string) {
	for _, v := range m.Videos {
		if v.Season == season && v.Episode == episode {
			return v.Title, v.Released
		}
	}
	return "", ""
}

type rawMeta struct {
	Meta struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Year        string `json:"year"`
		ReleaseInfo string `json:"releaseInfo"`
		Runtime     string `json:"runtime"`
		IMDBID      string `json:"imdb_id"`
		Videos      []struct {
			Season   int    `json:"season"`
			Episode  int    `json:"episode"`
			Number   int    `json:"number"`
			Name     string `json:"name"`
			Title    string `json:"title"`
			Released string `json:"released"`
		} `json:"videos"`
	} `json:"meta"`
}

// Client fetches Cinemeta metadata.
type Client struct {
	httpClient *http.Client
	cache      *cache.Service
}

// NewClient creates a Cinemeta client backed by the given cache.
func NewClient(cacheSvc *cache.Service) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cacheSvc,
	}
}

// GetMeta resolves (mediaType, id) to title metadata. mediaType is
// "movie" or "series"; id is an IMDb id such as tt0013442.
func (c *Client) GetMeta(ctx context.Context, mediaType, id string) (*Meta, error) {
	key := fmt.Sprintf("cm:%s:%s", mediaType, id)

	v, err := c.cache.GetOrCompute(key, metaTTL, func() (any, error) {
		reqURL := fmt.Sprintf(endpoint, mediaType, url.PathEscape(id))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("cinemeta returned status %d", resp.StatusCode)
		}

		var raw rawMeta
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, err
		}

		meta := &Meta{
			ID:             raw.Meta.ID,
			Name:           raw.Meta.Name,
			Year:           firstYear(raw.Meta.Year, raw.Meta.ReleaseInfo),
			RuntimeMinutes: runtimeMinutes(raw.Meta.Runtime),
			IMDBID:         raw.Meta.IMDBID,
		}
		for _, rv := range raw.Meta.Videos {
			episode := rv.Episode
			if episode == 0 {
				episode = rv.Number
			}
			title := rv.Name
			if title == "" {
				title = rv.Title
			}
			meta.Videos = append(meta.Videos, Video{
				Season:   rv.Season,
				Episode:  episode,
				Title:    title,
				Released: rv.Released,
			})
		}
		return meta, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Meta), nil
}

// firstYear extracts the first 4-digit year found in the given strings.
// Series expose ranges like "2005-2013"; the start year is what matters
// for search.
func firstYear(values ...string) int {
	for _, v := range values {
		if m := yearPattern.FindString(v); m != "" {
			if y, err := strconv.Atoi(m); err == nil {
				return y
			}
		}
	}
	return 0
}

// runtimeMinutes parses runtime strings like "94 min".
func runtimeMinutes(s string) int {
	if m := runtimePattern.FindString(s); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 0
}
