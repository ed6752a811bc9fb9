package resolver

import (
	"math"
	"regexp"
	"sort"

	"streamarchive/pkg/archive"
	"streamarchive/pkg/normalize"
)

const (
	movieShortlistSize   = 30
	episodeShortlistSize = 40

	yearExactBonus = 0.25
	yearCloseBonus = 0.15

	// popularityDamping keeps the download-count signal well below the
	// similarity term: log10 of even millions of downloads stays under
	// 0.15 after division.
	popularityDamping = 50.0
)

// junkPattern flags search results that are clearly not the feature
// itself. Checked against the normalized title, subject, and description.
var junkPattern = regexp.MustCompile(`\b(trailer|teaser|clip|sample|test|promo|announcement|music video|fan edit|mashup|review|reaction|parody)\b`)

// ScoredCandidate pairs a search document with its confidence score.
type ScoredCandidate struct {
	Doc   archive.Doc
	Score float64
}

// LooksLikeJunk reports whether the document's text fields mark it as a
// trailer, clip, review, or similar non-feature content.
func LooksLikeJunk(d archive.Doc) bool {
	for _, field := range []string{d.Title.String(), d.Subject.String(), d.Description.String()} {
		if field == "" {
			continue
		}
		if junkPattern.MatchString(normalize.String(field)) {
			return true
		}
	}
	return false
}

// Score computes the confidence score for a candidate: best title
// similarity across the term set (dominant), a year-proximity bonus, and
// a log-damped popularity term.
func Score(d archive.Doc, terms []string, year int) float64 {
	title := d.Title.String()
	best := 0.0
	for _, t := range terms {
		if s := normalize.Similarity(t, title); s > best {
			best = s
		}
	}

	yearScore := 0.0
	if year > 0 && d.Year.Int() > 0 {
		diff := year - d.Year.Int()
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff == 0:
			yearScore = yearExactBonus
		case diff <= 1:
			yearScore = yearCloseBonus
		}
	}

	downloads := d.Downloads.Int64()
	if downloads < 1 {
		downloads = 1
	}
	pop := math.Log10(float64(downloads)+1) / popularityDamping

	return best + yearScore + pop
}

// Rank filters junk, deduplicates by identifier (first occurrence wins),
// scores every candidate, and returns the top `limit` sorted by score
// descending. The sort is stable, so ties keep search-priority order.
func Rank(docs []archive.Doc, terms []string, year, limit int) []ScoredCandidate {
	seen := make(map[string]struct{}, len(docs))
	scored := make([]ScoredCandidate, 0, len(docs))

	for _, d := range docs {
		if d.Identifier == "" {
			continue
		}
		if _, dup := seen[d.Identifier]; dup {
			continue
		}
		seen[d.Identifier] = struct{}{}
		if LooksLikeJunk(d) {
			continue
		}
		scored = append(scored, ScoredCandidate{Doc: d, Score: Score(d, terms, year)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
