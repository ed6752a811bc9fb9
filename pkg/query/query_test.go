package query

import (
	"strings"
	"testing"
)

func TestMovie(t *testing.T) {
	queries := Movie([]string{"Nosferatu"}, 1922)

	if len(queries) != 2 {
		t.Fatalf("got %d queries, want 2: %v", len(queries), queries)
	}

	if want := `title:("Nosferatu") AND year:1922`; queries[0] != want {
		t.Errorf("exact query = %q, want %q", queries[0], want)
	}
	if !strings.Contains(queries[1], "year:[1921 TO 1924]") {
		t.Errorf("range query missing year span: %q", queries[1])
	}
	if !strings.Contains(queries[1], "downloads:[10 TO *]") {
		t.Errorf("range query missing popularity floor: %q", queries[1])
	}
}

func TestMovieNoYear(t *testing.T) {
	queries := Movie([]string{"Nosferatu"}, 0)
	for _, q := range queries {
		if strings.Contains(q, "year:") {
			t.Errorf("query carries year filter without a year: %q", q)
		}
	}
}

func TestMovieQuoteStripping(t *testing.T) {
	queries := Movie([]string{`The "Great" Escape`}, 0)
	for _, q := range queries {
		if strings.Count(q, `"`) != 2 {
			t.Errorf("embedded quotes should be stripped: %q", q)
		}
	}
}

func TestMovieTermCap(t *testing.T) {
	terms := make([]string, 20)
	for i := range terms {
		terms[i] = strings.Repeat("x", i+1)
	}
	queries := Movie(terms, 0)
	if len(queries) > maxTerms*2 {
		t.Errorf("got %d queries, cap is %d", len(queries), maxTerms*2)
	}
}

func TestEpisode(t *testing.T) {
	queries := Episode([]string{"Beverly Hillbillies"}, 2, 5, 1963, "The Clampetts Strike Oil")

	if len(queries) == 0 {
		t.Fatal("no queries generated")
	}

	mustContain := []string{"S02E05", "2x05", `"Episode 5"`, `"Part 5"`, "The Clampetts Strike Oil"}
	joined := strings.Join(queries, "\n")
	for _, frag := range mustContain {
		if !strings.Contains(joined, frag) {
			t.Errorf("queries missing fragment %q", frag)
		}
	}

	// Structured patterns come before the loose catch-all.
	last := queries[len(queries)-1]
	if !strings.Contains(last, "downloads:[10 TO *]") {
		t.Errorf("last query should be the loose catch-all, got %q", last)
	}
	if !strings.Contains(queries[0], "S02E05") {
		t.Errorf("first query should use the most specific pattern, got %q", queries[0])
	}
}

func TestEpisodeNoTitle(t *testing.T) {
	queries := Episode([]string{"Some Show"}, 1, 2, 0, "")
	joined := strings.Join(queries, "\n")
	if strings.Contains(joined, "AND ()") {
		t.Errorf("empty episode title leaked into queries:\n%s", joined)
	}
}

func TestCollection(t *testing.T) {
	queries := Collection([]string{"a", "b", "c", "d", "e"})
	if len(queries) != 3 {
		t.Errorf("collection queries use at most 3 terms, got %d", len(queries))
	}
}

func TestDedupe(t *testing.T) {
	queries := Movie([]string{"Metropolis", "Metropolis"}, 1927)
	seen := make(map[string]struct{})
	for _, q := range queries {
		if _, dup := seen[q]; dup {
			t.Errorf("duplicate query %q", q)
		}
		seen[q] = struct{}{}
	}
}
