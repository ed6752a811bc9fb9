package terms

import (
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	got := Expand("Night of the Living Dead", []string{
		"La Noche de los Muertos Vivientes",
		"night of the living dead", // dup of primary, different case
		"",
	})

	if len(got) == 0 || got[0] != "Night of the Living Dead" {
		t.Fatalf("primary title must come first, got %v", got)
	}

	seen := make(map[string]int)
	for _, term := range got {
		seen[strings.ToLower(term)]++
	}
	if seen["night of the living dead"] != 1 {
		t.Errorf("duplicate primary not collapsed: %v", got)
	}

	// Acronym variants are appended after all real titles.
	acronymIdx := -1
	for i, term := range got {
		if term == "nld" {
			acronymIdx = i
		}
	}
	if acronymIdx == -1 {
		t.Fatalf("expected acronym variant in %v", got)
	}
	if acronymIdx < 2 {
		t.Errorf("acronym at %d precedes alternate titles: %v", acronymIdx, got)
	}
}

func TestExpandEmptyPrimary(t *testing.T) {
	got := Expand("", []string{"Fallback Title"})
	if len(got) != 1 || got[0] != "Fallback Title" {
		t.Errorf("Expand with empty primary = %v", got)
	}
}

func TestAcronyms(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []string // must all be present
		none  bool
	}{
		{
			name:  "significant word initials skip stop words",
			title: "Night of the Living Dead",
			want:  []string{"nld"},
		},
		{
			name:  "single significant word yields nothing",
			title: "The Kid",
			none:  true,
		},
		{
			name:  "empty title yields nothing",
			title: "",
			none:  true,
		},
		{
			name:  "vowel stripped variant",
			title: "It Came from Outer Space",
			want:  []string{"icfos", "cfs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Acronyms(tt.title)
			if tt.none {
				if len(got) != 0 {
					t.Errorf("Acronyms(%q) = %v, want none", tt.title, got)
				}
				return
			}
			for _, w := range tt.want {
				found := false
				for _, g := range got {
					if g == w {
						found = true
					}
				}
				if !found {
					t.Errorf("Acronyms(%q) = %v, missing %q", tt.title, got, w)
				}
			}
			if len(got) > maxAcronymsPerTitle {
				t.Errorf("too many variants: %v", got)
			}
		})
	}
}

func TestAcronymsLengthBounds(t *testing.T) {
	long := strings.Repeat("word ", 20)
	for _, ac := range Acronyms(long) {
		if len(ac) > maxAcronymLen {
			t.Errorf("acronym %q exceeds max length", ac)
		}
	}
}
