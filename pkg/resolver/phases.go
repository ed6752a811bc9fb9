package resolver

import (
	"context"

	"streamarchive/pkg/archive"
	"streamarchive/pkg/logger"
	"streamarchive/pkg/query"
)

// The orchestrator is a phase state machine: each phase runs the full
// search → rank → inspect pipeline under one scope, and the first phase
// that yields at least one stream terminates the machine. Looser phases
// only ever run when the stricter ones found nothing, trading
// completeness for precision and latency.

type phaseKind int

const (
	phaseScoped phaseKind = iota
	phaseUnscoped
	phaseCollectionFallback
	phasePositional
)

func (k phaseKind) String() string {
	switch k {
	case phaseScoped:
		return "scoped"
	case phaseUnscoped:
		return "unscoped"
	case phaseCollectionFallback:
		return "collection-fallback"
	case phasePositional:
		return "positional-guess"
	}
	return "unknown"
}

type phase struct {
	kind        phaseKind
	collections []string
}

// plan orders the phases for a request. Movies stop after the unscoped
// search; series additionally fall back to collection-scoped re-querying
// and, when explicitly enabled, the positional guess.
func (r *Resolver) plan(mediaType string) []phase {
	var phases []phase
	if len(r.cfg.CollectionScopes) > 0 {
		phases = append(phases, phase{kind: phaseScoped, collections: r.cfg.CollectionScopes})
	}
	phases = append(phases, phase{kind: phaseUnscoped})
	if mediaType == "series" {
		phases = append(phases, phase{kind: phaseCollectionFallback})
		if r.cfg.AllowPositionalGuess {
			phases = append(phases, phase{kind: phasePositional})
		}
	}
	return phases
}

func (r *Resolver) runPhase(ctx context.Context, ph phase, rc *resolveContext) []Stream {
	switch ph.kind {
	case phaseScoped:
		// Collections are tried in configured order; the first one that
		// produces output wins.
		for _, coll := range ph.collections {
			if streams := r.searchAndSelect(ctx, rc, []string{coll}, false); len(streams) > 0 {
				return streams
			}
		}
		return nil
	case phaseUnscoped:
		return r.searchAndSelect(ctx, rc, nil, false)
	case phaseCollectionFallback:
		return r.collectionFallback(ctx, rc)
	case phasePositional:
		return r.searchAndSelect(ctx, rc, nil, true)
	}
	return nil
}

// collectionFallback resolves collection records matching the title
// terms, then re-runs the episode pipeline scoped to each collection's
// child items.
func (r *Resolver) collectionFallback(ctx context.Context, rc *resolveContext) []Stream {
	const maxCollections = 5

	var collections []string
	seen := make(map[string]struct{})
	for _, q := range query.Collection(rc.terms) {
		docs, err := r.archive.Search(ctx, archive.SearchRequest{
			Query:     q,
			MediaType: "collection",
		})
		if err != nil {
			logger.Debug("Collection search failed", "query", q, "err", err)
			continue
		}
		for _, d := range docs {
			if d.Identifier == "" {
				continue
			}
			if _, dup := seen[d.Identifier]; dup {
				continue
			}
			seen[d.Identifier] = struct{}{}
			collections = append(collections, d.Identifier)
			if len(collections) >= maxCollections {
				break
			}
		}
		if len(collections) >= maxCollections {
			break
		}
	}

	logger.Debug("Collection fallback", "collections", len(collections))
	for _, coll := range collections {
		if streams := r.searchAndSelect(ctx, rc, []string{coll}, false); len(streams) > 0 {
			return streams
		}
	}
	return nil
}
