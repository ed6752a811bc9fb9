package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"streamarchive/pkg/cache"
)

const (
	findTTL    = 24 * time.Hour
	detailsTTL = 24 * time.Hour
)

// Client for TheMovieDB API, used only to widen the search-term set with
// alternate and localized titles. Optional: the resolver degrades to the
// primary title when no API key is configured.
type Client struct {
	apiKey string
	client *http.Client
	cache  *cache.Service
}

// NewClient creates a new TMDB client
func NewClient(apiKey string, cacheSvc *cache.Service) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cacheSvc,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// FindResponse represents the response from /find/{id}
type FindResponse struct {
	MovieResults []Result `json:"movie_results"`
	TVResults    []Result `json:"tv_results"`
}

// Result represents a search result item
type Result struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`           // TV
	Title         string `json:"title"`          // Movie
	OriginalName  string `json:"original_name"`  // TV
	OriginalTitle string `json:"original_title"` // Movie
}

type altTitle struct {
	Title string `json:"title"`
}

type translation struct {
	Data struct {
		Title string `json:"title"` // Movie
		Name  string `json:"name"`  // TV
	} `json:"data"`
}

// details is the shared shape of /movie/{id} and /tv/{id} with
// append_to_response=alternative_titles,translations.
type details struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	Name          string `json:"name"`
	OriginalName  string `json:"original_name"`

	AlternativeTitles struct {
		Titles  []altTitle `json:"titles"`  // Movie
		Results []altTitle `json:"results"` // TV
	} `json:"alternative_titles"`

	Translations struct {
		Translations []translation `json:"translations"`
	} `json:"translations"`
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("accept", "application/json")

	return c.client.Do(req)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	resp, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return fmt.Errorf("TMDB request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB returned status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}

// Find searches for objects by external ID (IMDb ID)
func (c *Client) Find(ctx context.Context, imdbID string) (*FindResponse, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("TMDB API key not configured")
	}

	key := "tmdb:find:" + imdbID
	v, err := c.cache.GetOrCompute(key, findTTL, func() (any, error) {
		endpoint := fmt.Sprintf("https://api.themoviedb.org/3/find/%s", url.PathEscape(imdbID))
		params := url.Values{}
		params.Set("external_source", "imdb_id")

		var result FindResponse
		if err := c.getJSON(ctx, endpoint, params, &result); err != nil {
			return nil, err
		}
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*FindResponse), nil
}

func (c *Client) getDetails(ctx context.Context, mediaType string, tmdbID int) (*details, error) {
	key := fmt.Sprintf("tmdb:%s:%d", mediaType, tmdbID)
	v, err := c.cache.GetOrCompute(key, detailsTTL, func() (any, error) {
		endpoint := fmt.Sprintf("https://api.themoviedb.org/3/%s/%d", mediaType, tmdbID)
		params := url.Values{}
		params.Set("append_to_response", "alternative_titles,translations")

		var d details
		if err := c.getJSON(ctx, endpoint, params, &d); err != nil {
			return nil, err
		}
		return &d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*details), nil
}

// AlternateTitles returns alternate and translated titles for the given
// IMDb id. mediaType is "movie" or "series".
func (c *Client) AlternateTitles(ctx context.Context, mediaType, imdbID string) ([]string, error) {
	if !c.Enabled() || imdbID == "" {
		return nil, nil
	}

	find, err := c.Find(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	var (
		tmdbType string
		tmdbID   int
	)
	if mediaType == "movie" {
		if len(find.MovieResults) == 0 {
			return nil, nil
		}
		tmdbType = "movie"
		tmdbID = find.MovieResults[0].ID
	} else {
		if len(find.TVResults) == 0 {
			return nil, nil
		}
		tmdbType = "tv"
		tmdbID = find.TVResults[0].ID
	}

	d, err := c.getDetails(ctx, tmdbType, tmdbID)
	if err != nil {
		return nil, err
	}

	var titles []string
	add := func(t string) {
		if t != "" {
			titles = append(titles, t)
		}
	}

	add(d.Title)
	add(d.OriginalTitle)
	add(d.Name)
	add(d.OriginalName)
	for _, at := range d.AlternativeTitles.Titles {
		add(at.Title)
	}
	for _, at := range d.AlternativeTitles.Results {
		add(at.Title)
	}
	for _, tr := range d.Translations.Translations {
		add(tr.Data.Title)
		add(tr.Data.Name)
	}
	return titles, nil
}
