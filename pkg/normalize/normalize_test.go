package normalize

import (
	"reflect"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Nosferatu", "nosferatu"},
		{"strips punctuation", "It's a Wonderful Life!", "it s a wonderful life"},
		{"strips diacritics", "Amélie", "amelie"},
		{"collapses whitespace", "The   Kid  ", "the kid"},
		{"keeps digits", "Metropolis 1927", "metropolis 1927"},
		{"keeps underscore", "night_of_the_living_dead", "night_of_the_living_dead"},
		{"german umlaut", "Männer", "manner"},
		{"empty", "", ""},
		{"only punctuation", "...!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.input); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("The Cabinet of Dr. Caligari")
	want := []string{"the", "cabinet", "of", "dr", "caligari"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}

	if got := Tokens("   "); len(got) != 0 {
		t.Errorf("Tokens(blank) = %v, want empty", got)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Night of the Living Dead", "night of the living dead", 1.0},
		{"disjoint", "Metropolis", "Nosferatu", 0.0},
		{"both empty", "", "", 0.0},
		{"one empty", "Metropolis", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}

	// Partial overlap lands strictly between the extremes.
	got := Similarity("Night of the Living Dead", "Night of the Living Dead 1968 restored")
	if got <= 0 || got >= 1 {
		t.Errorf("partial overlap similarity = %v, want in (0,1)", got)
	}

	// Token order must not matter.
	if Similarity("dead living the of night", "night of the living dead") != 1.0 {
		t.Error("similarity should ignore token order")
	}
}
