// Package query turns a search-term set into the ordered list of
// full-text query strings issued against the archive's search endpoint.
// The grammar is the archive's lucene-style syntax: quoted phrase
// filters, field ranges, and AND composition. Recall matters more than
// precision here; the scorer downstream separates hits from noise.
package query

import (
	"fmt"
	"strings"
)

const (
	// maxTerms bounds how many search terms participate in query
	// generation; terms are already priority-ordered (primary first).
	maxTerms = 8

	// popularityFloor weeds out zero-traffic items in loose queries.
	popularityFloor = "downloads:[10 TO *]"
)

// phrase renders a term as an exact title filter with quotes escaped.
func phrase(term string) string {
	return fmt.Sprintf("title:(%q)", strings.ReplaceAll(term, `"`, ``))
}

func yearExact(year int) string {
	if year <= 0 {
		return ""
	}
	return fmt.Sprintf(" AND year:%d", year)
}

// yearRange spans -1/+2 around the target year, tolerating festival vs.
// wide-release year drift in archive metadata.
func yearRange(year int) string {
	if year <= 0 {
		return ""
	}
	return fmt.Sprintf(" AND year:[%d TO %d]", year-1, year+2)
}

// Movie builds the movie-mode query list: per term, one exact-year
// phrase query and one year-range query with a popularity floor.
func Movie(terms []string, year int) []string {
	var queries []string
	for _, t := range topTerms(terms) {
		p := phrase(t)
		queries = append(queries, p+yearExact(year))
		queries = append(queries, p+yearRange(year)+" AND "+popularityFloor)
	}
	return dedupe(queries)
}

// episodePatterns returns the ordered season/episode fragments tried for
// each term, covering the numbering conventions seen in archive titles.
func episodePatterns(season, episode int) []string {
	return []string{
		fmt.Sprintf("S%02dE%02d", season, episode),
		fmt.Sprintf("%dx%02d", season, episode),
		fmt.Sprintf(`"Season %d" AND ("Episode %d" OR "Ep %d" OR "Ep. %d")`, season, episode, episode, episode),
		fmt.Sprintf(`"Episode %d"`, episode),
		fmt.Sprintf(`"Part %d"`, episode),
	}
}

// Episode builds the episode-mode query list: every term crossed with
// every season/episode pattern, an exact episode-title query per term
// when the title is known, and a loose term+year catch-all per term.
func Episode(terms []string, season, episode, year int, episodeTitle string) []string {
	var queries []string
	top := topTerms(terms)
	patterns := episodePatterns(season, episode)

	for _, t := range top {
		p := phrase(t)
		for _, pat := range patterns {
			queries = append(queries, fmt.Sprintf("%s AND (%s)%s", p, pat, yearRange(year)))
		}
	}

	if episodeTitle != "" {
		ep := fmt.Sprintf("(%q)", strings.ReplaceAll(episodeTitle, `"`, ``))
		for _, t := range top {
			queries = append(queries, fmt.Sprintf("%s AND %s%s", phrase(t), ep, yearRange(year)))
		}
	}

	for _, t := range top {
		queries = append(queries, phrase(t)+yearRange(year)+" AND "+popularityFloor)
	}

	return dedupe(queries)
}

// Collection builds queries that locate collection records matching the
// title terms, used by the collection fallback phase.
func Collection(terms []string) []string {
	var queries []string
	for i, t := range topTerms(terms) {
		if i >= 3 {
			break
		}
		queries = append(queries, phrase(t))
	}
	return dedupe(queries)
}

func topTerms(terms []string) []string {
	if len(terms) > maxTerms {
		return terms[:maxTerms]
	}
	return terms
}

func dedupe(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := queries[:0]
	for _, q := range queries {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
