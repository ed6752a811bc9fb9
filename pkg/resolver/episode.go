package resolver

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/MunifTanjim/go-ptt"

	"streamarchive/pkg/archive"
	"streamarchive/pkg/normalize"
)

// EpisodeContext carries everything the matcher may use to tie a file to
// a specific episode.
type EpisodeContext struct {
	Season          int
	Episode         int
	TitleCandidates []string // known episode titles, raw
	AirDateTokens   []string // rendered forms of the episode air date
}

// heuristic is one independent episode-matching strategy. Heuristics are
// pure and never consult each other; the first that fires decides.
type heuristic struct {
	name  string
	match func(f archive.File, ctx EpisodeContext) bool
}

// Ordered by reliability: structured season/episode markers first, then
// localized keywords, then episode-title substrings, then air dates.
var episodeHeuristics = []heuristic{
	{"structured", matchStructured},
	{"localized", matchLocalized},
	{"episode-title", matchEpisodeTitle},
	{"airdate", matchAirDate},
}

// MatchEpisode reports whether any heuristic ties the file to the
// requested episode, returning the name of the first that fired.
func MatchEpisode(f archive.File, ctx EpisodeContext) (string, bool) {
	if ctx.Episode <= 0 {
		return "", false
	}
	for _, h := range episodeHeuristics {
		if h.match(f, ctx) {
			return h.name, true
		}
	}
	return "", false
}

// SelectEpisodeFiles returns the files confirmed by at least one
// heuristic, largest first. The largest of several matches is assumed to
// be the highest-quality rip of the same content; when the archive item
// actually packs distinct episodes under identical markers this picks
// one of them, a known precision limit.
func SelectEpisodeFiles(videos []archive.File, ctx EpisodeContext) []archive.File {
	var matched []archive.File
	for _, f := range videos {
		if _, ok := MatchEpisode(f, ctx); ok {
			matched = append(matched, f)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Size.Int64() > matched[j].Size.Int64()
	})
	return matched
}

const sep = `[\s._-]*`

func matchRe(pattern, s string) bool {
	ok, err := regexp.MatchString(pattern, s)
	return err == nil && ok
}

// matchStructured covers SxxEyy, NxEE, verbose "season N episode E",
// bare Eyy, and "part N" markers, separator-tolerant and word-bounded.
func matchStructured(f archive.File, ctx EpisodeContext) bool {
	s, e := ctx.Season, ctx.Episode

	// The release-title parser understands most structured layouts.
	info := ptt.Parse(f.Name)
	if s > 0 && containsInt(info.Seasons, s) && containsInt(info.Episodes, e) {
		return true
	}

	name := strings.ToLower(f.Name)
	if s > 0 {
		if matchRe(fmt.Sprintf(`\bs0?%d%se0?%d\b`, s, sep, e), name) {
			return true
		}
		if matchRe(fmt.Sprintf(`\b%dx0?%d\b`, s, e), name) {
			return true
		}
		if matchRe(fmt.Sprintf(`\bseason%s0?%d\b`, sep, s), name) &&
			matchRe(fmt.Sprintf(`\b(?:episode|ep)\.?%s0?%d\b`, sep, e), name) {
			return true
		}
	}
	if matchRe(fmt.Sprintf(`\be0?%d\b`, e), name) {
		return true
	}
	if matchRe(fmt.Sprintf(`\b(?:episode|ep)\.?%s0?%d\b`, sep, e), name) {
		return true
	}
	return matchRe(fmt.Sprintf(`\b(?:part|pt)\.?%s0?%d\b`, sep, e), name)
}

// matchLocalized matches non-English episode keywords followed by the
// episode number.
func matchLocalized(f archive.File, ctx EpisodeContext) bool {
	pattern := fmt.Sprintf(`\b(?:episodio|episódio|capitulo|capítulo|cap|parte|folge|kapitel|chapter)%s0?%d\b`, sep, ctx.Episode)
	if matchRe(pattern, strings.ToLower(f.Name)) {
		return true
	}
	// Accent-stripped form catches transliterated names
	return matchRe(pattern, normalize.String(f.Name))
}

// matchEpisodeTitle looks for the leading words of a known episode title
// inside the normalized filename or the file's own title field.
func matchEpisodeTitle(f archive.File, ctx EpisodeContext) bool {
	// Underscore-separated names are common in archive listings; the
	// normalizer keeps underscores, so match a space-joined variant too.
	haystacks := []string{
		normalize.String(f.Name),
		normalize.String(strings.ReplaceAll(f.Name, "_", " ")),
	}
	if t := f.Title.String(); t != "" {
		haystacks = append(haystacks, normalize.String(t))
	}
	for _, raw := range ctx.TitleCandidates {
		words := normalize.Tokens(raw)
		if len(words) > 6 {
			words = words[:6]
		}
		needle := strings.Join(words, " ")
		if len(needle) < 3 {
			continue
		}
		for _, h := range haystacks {
			if strings.Contains(h, needle) {
				return true
			}
		}
	}
	return false
}

// matchAirDate looks for any rendering of the episode air date in the
// filename.
func matchAirDate(f archive.File, ctx EpisodeContext) bool {
	name := strings.ToLower(f.Name)
	for _, tok := range ctx.AirDateTokens {
		if tok != "" && strings.Contains(name, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}

// AirDateTokens renders an episode release date (RFC3339 or date-only)
// into the substring forms seen in archive filenames.
func AirDateTokens(released string) []string {
	released = strings.TrimSpace(released)
	if released == "" {
		return nil
	}
	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02"} {
		if t, err = time.Parse(layout, released); err == nil {
			break
		}
	}
	if err != nil {
		return nil
	}
	return []string{
		t.Format("2006-01-02"),
		t.Format("2006.01.02"),
		t.Format("2006_01_02"),
		t.Format("20060102"),
	}
}

func containsInt(values []int, want int) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// naturalLess compares two filenames with digit runs ordered
// numerically, so "ep2" sorts before "ep10".
func naturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na := strings.TrimLeft(a[si:i], "0")
			nb := strings.TrimLeft(b[sj:j], "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			continue
		}
		la, lb := lowerByte(ca), lowerByte(cb)
		if la != lb {
			return la < lb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// PositionalGuess selects the file at the zero-based episode-1 position
// of the naturally sorted listing, optionally narrowed to files carrying
// a season marker. The pick is accepted only when its duration lies
// within the configured variance of the expected runtime, or when either
// is unknown. This is a last resort, gated behind an opt-in flag.
func PositionalGuess(videos []archive.File, ctx EpisodeContext, expectedRuntimeMin, maxVarianceMin int) (archive.File, bool) {
	if ctx.Episode <= 0 || len(videos) == 0 {
		return archive.File{}, false
	}

	pool := videos
	if ctx.Season > 0 {
		marker := fmt.Sprintf(`\bs0?%d\b|\bseason%s0?%d\b`, ctx.Season, sep, ctx.Season)
		var filtered []archive.File
		for _, f := range videos {
			if matchRe(marker, strings.ToLower(f.Name)) {
				filtered = append(filtered, f)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	sorted := make([]archive.File, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return naturalLess(sorted[i].Name, sorted[j].Name)
	})

	idx := ctx.Episode - 1
	if idx >= len(sorted) {
		return archive.File{}, false
	}
	f := sorted[idx]

	if expectedRuntimeMin > 0 && maxVarianceMin > 0 {
		if sec := f.Length.Seconds(); sec > 0 {
			diff := sec/60 - float64(expectedRuntimeMin)
			if diff < 0 {
				diff = -diff
			}
			if diff > float64(maxVarianceMin) {
				return archive.File{}, false
			}
		}
	}
	return f, true
}
