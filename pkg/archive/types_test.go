package archive

import (
	"encoding/json"
	"testing"
)

func TestFlexString(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"plain string", `"Nosferatu"`, "Nosferatu"},
		{"number", `1922`, "1922"},
		{"array joined", `["horror","silent","vampire"]`, "horror; silent; vampire"},
		{"array with empties", `["a","","b"]`, "a; b"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			if err := json.Unmarshal([]byte(tt.json), &f); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if f.String() != tt.want {
				t.Errorf("got %q, want %q", f.String(), tt.want)
			}
		})
	}
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int64
	}{
		{"number", `1922`, 1922},
		{"numeric string", `"1922"`, 1922},
		{"float", `12.7`, 12},
		{"date prefixed year", `"1922-03-04"`, 1922},
		{"null", `null`, 0},
		{"garbage", `"unknown"`, 0},
		{"empty string", `""`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			if err := json.Unmarshal([]byte(tt.json), &f); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if f.Int64() != tt.want {
				t.Errorf("got %d, want %d", f.Int64(), tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
	}{
		{"seconds number", `5400`, 5400},
		{"seconds string", `"5400.5"`, 5400.5},
		{"h:mm:ss", `"1:30:00"`, 5400},
		{"mm:ss", `"02:30"`, 150},
		{"null", `null`, 0},
		{"garbage", `"n/a"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			if err := json.Unmarshal([]byte(tt.json), &d); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if d.Seconds() != tt.want {
				t.Errorf("got %v, want %v", d.Seconds(), tt.want)
			}
		})
	}
}

func TestDocUnmarshal(t *testing.T) {
	raw := `{
		"identifier": "nosferatu_1922",
		"title": "Nosferatu",
		"year": "1922",
		"downloads": 123456,
		"subject": ["horror","silent"],
		"mediatype": "movies"
	}`

	var d Doc
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Identifier != "nosferatu_1922" || d.Year.Int() != 1922 || d.Downloads.Int64() != 123456 {
		t.Errorf("doc = %+v", d)
	}
	if d.Subject.String() != "horror; silent" {
		t.Errorf("subject = %q", d.Subject)
	}
}

func TestDownloadURL(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		file       string
		want       string
	}{
		{
			name:       "plain",
			identifier: "nosferatu_1922",
			file:       "nosferatu.mp4",
			want:       "https://archive.org/download/nosferatu_1922/nosferatu.mp4",
		},
		{
			name:       "spaces escaped per segment",
			identifier: "some item",
			file:       "disc 1/Episode 05.mkv",
			want:       "https://archive.org/download/some%20item/disc%201/Episode%2005.mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DownloadURL(tt.identifier, tt.file); got != tt.want {
				t.Errorf("DownloadURL = %q, want %q", got, tt.want)
			}
		})
	}
}
