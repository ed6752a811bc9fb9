package resolver

import (
	"strings"
	"testing"

	"streamarchive/pkg/archive"
)

const mb = 1_000_000

func file(name string, sizeBytes int64) archive.File {
	return archive.File{Name: name, Size: archive.FlexInt(sizeBytes)}
}

func TestIsVideoFile(t *testing.T) {
	minSize := int64(5 * mb)

	tests := []struct {
		name string
		file archive.File
		want bool
	}{
		{"mp4 above min size", file("movie.mp4", 700*mb), true},
		{"mkv above min size", file("movie.mkv", 700*mb), true},
		{"too small", file("movie.mp4", 2*mb), false},
		{"subtitle file", file("movie.srt", 700*mb), false},
		{"sample name rejected", file("movie.sample.mp4", 700*mb), false},
		{"trailer name rejected", file("nosferatu_trailer.mp4", 700*mb), false},
		{
			name: "format signature without known extension",
			file: archive.File{Name: "movie.ia", Format: "h.264", Size: archive.FlexInt(700 * mb)},
			want: true,
		},
		{"thumbnail", file("movie.thumbs/frame001.jpg", 700*mb), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVideoFile(tt.file, minSize); got != tt.want {
				t.Errorf("IsVideoFile(%q) = %v, want %v", tt.file.Name, got, tt.want)
			}
		})
	}
}

func TestRankVideoFiles(t *testing.T) {
	files := []archive.File{
		file("movie.avi", 700*mb),
		file("movie.1080p.mp4", 700*mb),
		file("movie.srt", 1 * mb),
		file("movie.480p.mp4", 300*mb),
	}

	ranked := RankVideoFiles(files, 5*mb)

	if len(ranked) != 3 {
		t.Fatalf("got %d videos, want 3", len(ranked))
	}
	if ranked[0].Name != "movie.1080p.mp4" {
		t.Errorf("best file = %q, want the 1080p mp4", ranked[0].Name)
	}
}

func TestGuessResolution(t *testing.T) {
	tests := []struct {
		name string
		file archive.File
		want string
	}{
		{"marker in name", file("Nosferatu.1922.1080p.mp4", 0), "1080p"},
		{"dimensions in name", file("movie_640x480.mp4", 0), "480p"},
		{"height field", archive.File{Name: "movie.mp4", Height: archive.FlexInt(720)}, "720p"},
		{"low height field", archive.File{Name: "movie.mp4", Height: archive.FlexInt(240)}, "360p"},
		{"nothing known", file("movie.mp4", 0), "SD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GuessResolution(tt.file); got != tt.want {
				t.Errorf("GuessResolution(%q) = %q, want %q", tt.file.Name, got, tt.want)
			}
		})
	}
}

func TestStreamLabel(t *testing.T) {
	f := archive.File{
		Name:   "Nosferatu.1922.1080p.x264.AAC.mp4",
		Size:   archive.FlexInt(700 * mb),
		Format: "h.264",
	}
	label := StreamLabel(f)

	for _, part := range []string{"1080p", "H.264/AVC", "AAC", "700MB"} {
		if !strings.Contains(label, part) {
			t.Errorf("label %q missing %q", label, part)
		}
	}
}

func TestStreamLabelUnknownFields(t *testing.T) {
	label := StreamLabel(file("movie.avi", 100*mb))
	for _, part := range []string{"SD", "Video", "Audio", "100MB"} {
		if !strings.Contains(label, part) {
			t.Errorf("label %q missing fallback %q", label, part)
		}
	}
}

func TestAcceptFeature(t *testing.T) {
	withLength := func(name string, seconds float64) archive.File {
		return archive.File{Name: name, Length: archive.Duration(seconds)}
	}

	tests := []struct {
		name     string
		file     archive.File
		runtime  int
		score    float64
		strict   float64
		accepted bool
	}{
		{
			name:     "short rejected outright",
			file:     withLength("clip5min.mp4", 300),
			runtime:  90,
			score:    0.99,
			strict:   0.9,
			accepted: false,
		},
		{
			name:     "runtime within tolerance",
			file:     withLength("movie.mp4", 85*60),
			runtime:  90,
			score:    0.5,
			strict:   0.9,
			accepted: true,
		},
		{
			name:     "runtime off, weak score rejected",
			file:     withLength("movie.mp4", 150*60),
			runtime:  90,
			score:    0.7,
			strict:   0.9,
			accepted: false,
		},
		{
			name:     "runtime off, strong score accepted",
			file:     withLength("movie.mp4", 150*60),
			runtime:  90,
			score:    0.95,
			strict:   0.9,
			accepted: true,
		},
		{
			name:     "unknown duration passes",
			file:     withLength("movie.mp4", 0),
			runtime:  90,
			score:    0.5,
			strict:   0.9,
			accepted: true,
		},
		{
			name:     "unknown expected runtime passes",
			file:     withLength("movie.mp4", 150*60),
			runtime:  0,
			score:    0.5,
			strict:   0.9,
			accepted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AcceptFeature(tt.file, tt.runtime, tt.score, tt.strict)
			if got != tt.accepted {
				t.Errorf("AcceptFeature = %v, want %v", got, tt.accepted)
			}
		})
	}
}
