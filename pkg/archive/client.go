// Package archive is the HTTP client for the Internet Archive's search
// and per-item metadata endpoints. All calls are memoized through the
// injected TTL cache; a failed call is never cached.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"streamarchive/pkg/cache"
	"streamarchive/pkg/logger"
)

const (
	searchEndpoint   = "https://archive.org/advancedsearch.php"
	metadataEndpoint = "https://archive.org/metadata/"
	downloadEndpoint = "https://archive.org/download/"

	userAgent = "streamarchive/0.1"

	searchTTL   = 1 * time.Hour
	metadataTTL = 24 * time.Hour
)

// searchFields are the document fields requested from the search index.
var searchFields = []string{
	"identifier", "title", "year", "downloads", "licenseurl", "rights",
	"mediatype", "creator", "subject", "description", "date",
}

// SearchRequest describes one full-text search call.
type SearchRequest struct {
	Query       string
	MediaType   string   // facet filter, e.g. "movies" or "collection"
	Collections []string // scope to these collections (OR within each)
	Rows        int
}

// Client talks to the archive endpoints.
type Client struct {
	httpClient *http.Client
	cache      *cache.Service
	rows       int
}

// NewClient creates an archive client. rows is the default result count
// per search call.
func NewClient(cacheSvc *cache.Service, rows int) *Client {
	if rows <= 0 {
		rows = 60
	}
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		cache:      cacheSvc,
		rows:       rows,
	}
}

// Search executes a query and returns the raw candidate documents,
// pre-sorted by download count by the search engine.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]Doc, error) {
	fullQuery := strings.TrimSpace(req.Query)
	if req.MediaType != "" {
		fullQuery += fmt.Sprintf(" AND mediatype:(%s)", req.MediaType)
	}
	for _, coll := range req.Collections {
		fullQuery += fmt.Sprintf(" AND collection:(%s)", coll)
	}
	rows := req.Rows
	if rows <= 0 {
		rows = c.rows
	}

	params := url.Values{}
	params.Set("q", fullQuery)
	for _, f := range searchFields {
		params.Add("fl[]", f)
	}
	params.Add("sort[]", "downloads desc")
	params.Set("rows", fmt.Sprintf("%d", rows))
	params.Set("output", "json")

	reqURL := searchEndpoint + "?" + params.Encode()

	v, err := c.cache.GetOrCompute("ia:search:"+reqURL, searchTTL, func() (any, error) {
		var parsed searchResponse
		if err := c.getJSON(ctx, reqURL, &parsed); err != nil {
			return nil, err
		}
		logger.Debug("Archive search", "query", fullQuery, "found", parsed.Response.NumFound, "returned", len(parsed.Response.Docs))
		return parsed.Response.Docs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Doc), nil
}

// GetMetadata fetches an item's file listing and license fields.
func (c *Client) GetMetadata(ctx context.Context, identifier string) (*Item, error) {
	reqURL := metadataEndpoint + url.PathEscape(identifier)

	v, err := c.cache.GetOrCompute("ia:meta:"+identifier, metadataTTL, func() (any, error) {
		var item Item
		if err := c.getJSON(ctx, reqURL, &item); err != nil {
			return nil, err
		}
		return &item, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Item), nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("archive returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// DownloadURL builds the fully percent-encoded URL of a file within an
// item. File names may contain slashes; each segment is escaped
// separately so the path structure survives.
func DownloadURL(identifier, name string) string {
	segments := strings.Split(name, "/")
	for i := range segments {
		segments[i] = url.PathEscape(segments[i])
	}
	return downloadEndpoint + url.PathEscape(identifier) + "/" + strings.Join(segments, "/")
}
