// Package resolver is the title-resolution and stream-matching engine:
// it turns a canonical movie or episode id into a ranked list of playable
// archive file URLs, using only free-text search and file listings.
package resolver

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"streamarchive/pkg/archive"
	"streamarchive/pkg/config"
	"streamarchive/pkg/logger"
	"streamarchive/pkg/query"
	"streamarchive/pkg/services/metadata/cinemeta"
	"streamarchive/pkg/terms"
)

// Per-phase accumulation ceilings, independent of how many queries were
// generated, bounding external call volume.
const (
	movieCandidateCeiling   = 150
	episodeCandidateCeiling = 180
)

// ArchiveClient is the search gateway plus per-item metadata fetcher.
type ArchiveClient interface {
	Search(ctx context.Context, req archive.SearchRequest) ([]archive.Doc, error)
	GetMetadata(ctx context.Context, identifier string) (*archive.Item, error)
}

// TitleProvider resolves a canonical id to title/runtime/episode
// metadata.
type TitleProvider interface {
	GetMeta(ctx context.Context, mediaType, id string) (*cinemeta.Meta, error)
}

// AlternateTitlesProvider supplies localized and alternate titles; it is
// optional and failures only narrow the term set.
type AlternateTitlesProvider interface {
	AlternateTitles(ctx context.Context, mediaType, imdbID string) ([]string, error)
}

// Stream is one playable result: display label, file description, the
// fully encoded download URL, and a grouping key (the archive item).
type Stream struct {
	Label    string
	Title    string
	URL      string
	GroupKey string
}

// Stats are cumulative resolver counters for diagnostics.
type Stats struct {
	Requests       int64 `json:"requests"`
	StreamsServed  int64 `json:"streams_served"`
	EmptyResponses int64 `json:"empty_responses"`
}

// Resolver runs the phased resolution pipeline.
type Resolver struct {
	cfg       *config.Config
	archive   ArchiveClient
	titles    TitleProvider
	altTitles AlternateTitlesProvider

	requests       atomic.Int64
	streamsServed  atomic.Int64
	emptyResponses atomic.Int64
}

// New creates a resolver. altTitles may be nil.
func New(cfg *config.Config, archiveClient ArchiveClient, titles TitleProvider, altTitles AlternateTitlesProvider) *Resolver {
	return &Resolver{
		cfg:       cfg,
		archive:   archiveClient,
		titles:    titles,
		altTitles: altTitles,
	}
}

// resolveContext is the per-request immutable input to every phase.
type resolveContext struct {
	mediaType  string
	terms      []string
	year       int
	runtimeMin int
	season     int
	episode    int
	epTitle    string
	epContext  EpisodeContext
}

// Resolve maps (mediaType, id, season, episode) to a ranked stream list.
// It never fails: every internal error resolves to an empty list.
func (r *Resolver) Resolve(ctx context.Context, mediaType, id string, season, episode int) []Stream {
	r.requests.Add(1)

	streams := r.resolve(ctx, mediaType, id, season, episode)
	if len(streams) == 0 {
		r.emptyResponses.Add(1)
		return []Stream{}
	}
	r.streamsServed.Add(int64(len(streams)))
	return streams
}

func (r *Resolver) resolve(ctx context.Context, mediaType, id string, season, episode int) []Stream {
	meta, err := r.titles.GetMeta(ctx, mediaType, id)
	if err != nil {
		logger.Warn("Title lookup failed", "type", mediaType, "id", id, "err", err)
		return nil
	}
	if meta == nil || meta.Name == "" {
		logger.Debug("No title for id", "type", mediaType, "id", id)
		return nil
	}
	if mediaType == "series" && (season <= 0 || episode <= 0) {
		logger.Debug("Series request without season/episode", "id", id)
		return nil
	}

	var alternates []string
	if r.altTitles != nil {
		imdbID := meta.IMDBID
		if imdbID == "" {
			imdbID = id
		}
		alternates, err = r.altTitles.AlternateTitles(ctx, mediaType, imdbID)
		if err != nil {
			logger.Debug("Alternate titles unavailable", "id", id, "err", err)
		}
	}

	rc := &resolveContext{
		mediaType:  mediaType,
		terms:      terms.Expand(meta.Name, alternates),
		year:       meta.Year,
		runtimeMin: meta.RuntimeMinutes,
		season:     season,
		episode:    episode,
	}
	if mediaType == "series" {
		epTitle, released := meta.EpisodeInfo(season, episode)
		rc.epTitle = epTitle
		rc.epContext = EpisodeContext{
			Season:        season,
			Episode:       episode,
			AirDateTokens: AirDateTokens(released),
		}
		if epTitle != "" {
			rc.epContext.TitleCandidates = []string{epTitle}
		}
	}

	for _, ph := range r.plan(mediaType) {
		streams := r.runPhase(ctx, ph, rc)
		logger.Debug("Phase finished", "phase", ph.kind.String(), "streams", len(streams))
		if len(streams) > 0 {
			return streams
		}
	}
	return nil
}

// searchAndSelect is one full pass: build queries, gather candidates,
// rank, then inspect the shortlist until the stream cap is met.
func (r *Resolver) searchAndSelect(ctx context.Context, rc *resolveContext, collections []string, positional bool) []Stream {
	var (
		queries   []string
		ceiling   int
		shortlist int
	)
	if rc.mediaType == "movie" {
		queries = query.Movie(rc.terms, rc.year)
		ceiling = movieCandidateCeiling
		shortlist = movieShortlistSize
	} else {
		queries = query.Episode(rc.terms, rc.season, rc.episode, rc.year, rc.epTitle)
		ceiling = episodeCandidateCeiling
		shortlist = episodeShortlistSize
	}

	var docs []archive.Doc
	for _, q := range queries {
		res, err := r.archive.Search(ctx, archive.SearchRequest{
			Query:       q,
			MediaType:   "movies",
			Collections: collections,
		})
		if err != nil {
			// Transient failure: skip this query, keep going.
			logger.Debug("Search query failed", "query", q, "err", err)
			continue
		}
		docs = append(docs, res...)
		if len(docs) >= ceiling {
			break
		}
	}

	ranked := Rank(docs, rc.terms, rc.year, shortlist)
	logger.Debug("Shortlist ready", "candidates", len(docs), "shortlisted", len(ranked))
	return r.collectStreams(ctx, rc, ranked, positional)
}

// fetchMetadata retrieves item metadata for the whole shortlist with
// bounded concurrency. Results align with the shortlist by index, so
// concurrency never changes selection order; failed fetches leave nil.
func (r *Resolver) fetchMetadata(ctx context.Context, shortlist []ScoredCandidate) []*archive.Item {
	items := make([]*archive.Item, len(shortlist))

	g, gctx := errgroup.WithContext(ctx)
	limit := r.cfg.FetchConcurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	for i, cand := range shortlist {
		g.Go(func() error {
			item, err := r.archive.GetMetadata(gctx, cand.Doc.Identifier)
			if err != nil {
				logger.Debug("Metadata fetch failed", "identifier", cand.Doc.Identifier, "err", err)
				return nil
			}
			items[i] = item
			return nil
		})
	}
	g.Wait()
	return items
}

// collectStreams walks the shortlist in rank order and applies the
// license gate, file selection, and episode matching, accumulating
// streams up to the configured cap.
func (r *Resolver) collectStreams(ctx context.Context, rc *resolveContext, shortlist []ScoredCandidate, positional bool) []Stream {
	items := r.fetchMetadata(ctx, shortlist)

	label := "Internet Archive"
	if rc.mediaType == "series" {
		label = "Internet Archive (Episode)"
	}

	var streams []Stream
	for i, cand := range shortlist {
		if len(streams) >= r.cfg.MaxStreams {
			break
		}
		item := items[i]
		if item == nil {
			continue
		}
		if r.cfg.RequirePDOrCC && !PermissiveLicense(cand.Doc, item) {
			logger.Debug("Skipping candidate: license", "identifier", cand.Doc.Identifier)
			continue
		}

		videos := RankVideoFiles(item.Files, r.cfg.MinFeatureSizeBytes())
		if len(videos) == 0 {
			continue
		}

		switch {
		case rc.mediaType == "movie":
			for _, f := range videos {
				if !AcceptFeature(f, rc.runtimeMin, cand.Score, r.cfg.TitleScoreStrict) {
					continue
				}
				streams = append(streams, makeStream(label, cand.Doc.Identifier, f))
				if len(streams) >= r.cfg.MaxStreams {
					break
				}
			}

		case positional:
			if f, ok := PositionalGuess(videos, rc.epContext, rc.runtimeMin, r.cfg.PositionalVarianceMin); ok {
				streams = append(streams, makeStream(label, cand.Doc.Identifier, f))
			}

		default:
			matched := SelectEpisodeFiles(videos, rc.epContext)
			if len(matched) > 0 {
				for _, f := range matched {
					streams = append(streams, makeStream(label, cand.Doc.Identifier, f))
					if len(streams) >= r.cfg.MaxStreams {
						break
					}
				}
			} else if len(videos) == 1 && cand.Score > r.singleVideoThreshold() {
				// A lone video in a high-confidence candidate is accepted
				// even without an episode marker.
				streams = append(streams, makeStream(label, cand.Doc.Identifier, videos[0]))
			}
		}
	}
	return streams
}

// singleVideoThreshold is the confidence needed to accept a lone,
// unmarked video file. Strict mode raises it to the strict score.
func (r *Resolver) singleVideoThreshold() float64 {
	if r.cfg.StrictMode {
		return r.cfg.TitleScoreStrict
	}
	return r.cfg.TitleScoreRelaxed
}

func makeStream(label, identifier string, f archive.File) Stream {
	return Stream{
		Label:    label,
		Title:    StreamLabel(f),
		URL:      archive.DownloadURL(identifier, f.Name),
		GroupKey: identifier,
	}
}

// Stats returns cumulative counters.
func (r *Resolver) Stats() Stats {
	return Stats{
		Requests:       r.requests.Load(),
		StreamsServed:  r.streamsServed.Load(),
		EmptyResponses: r.emptyResponses.Load(),
	}
}
