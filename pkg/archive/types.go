package archive

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The archive's JSON is loosely typed: the same field may arrive as a
// string, a number, or an array depending on the item. The Flex types
// absorb that so the rest of the pipeline sees plain values.

// FlexString decodes a string, number, or array of strings (joined by
// "; ") into a plain string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case '[':
		var parts []FlexString
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		strs := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				strs = append(strs, string(p))
			}
		}
		*f = FlexString(strings.Join(strs, "; "))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
	}
	return nil
}

func (f FlexString) String() string { return string(f) }

// FlexInt decodes a number or numeric string into an int64. Unparseable
// values decode to zero rather than failing the whole document.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int64(fl))
		return nil
	}
	// Year fields occasionally carry text like "1922-01-01"
	if len(s) >= 4 {
		if n, err := strconv.ParseInt(s[:4], 10, 64); err == nil {
			*f = FlexInt(n)
			return nil
		}
	}
	*f = 0
	return nil
}

func (f FlexInt) Int() int     { return int(f) }
func (f FlexInt) Int64() int64 { return int64(f) }

// Duration decodes a file length given as seconds (number or decimal
// string) or as "h:mm:ss" / "mm:ss". Zero means unknown.
type Duration float64

func (d *Duration) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*d = Duration(f)
		return nil
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		total := 0.0
		ok := true
		for _, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				ok = false
				break
			}
			total = total*60 + f
		}
		if ok {
			*d = Duration(total)
			return nil
		}
	}
	*d = 0
	return nil
}

// Seconds returns the duration in seconds, zero when unknown.
func (d Duration) Seconds() float64 { return float64(d) }

// Doc is a single search-result record prior to file-level inspection.
type Doc struct {
	Identifier  string     `json:"identifier"`
	Title       FlexString `json:"title"`
	Year        FlexInt    `json:"year"`
	Downloads   FlexInt    `json:"downloads"`
	LicenseURL  FlexString `json:"licenseurl"`
	Rights      FlexString `json:"rights"`
	MediaType   FlexString `json:"mediatype"`
	Creator     FlexString `json:"creator"`
	Subject     FlexString `json:"subject"`
	Description FlexString `json:"description"`
	Date        FlexString `json:"date"`
}

// File is one entry of an item's file listing, owned by the item whose
// metadata produced it.
type File struct {
	Name   string     `json:"name"`
	Source string     `json:"source"`
	Format string     `json:"format"`
	Title  FlexString `json:"title"`
	Size   FlexInt    `json:"size"`
	Length Duration   `json:"length"`
	Height FlexInt    `json:"height"`
	Width  FlexInt    `json:"width"`
}

// ItemMetadata carries the item-level fields relevant to licensing.
type ItemMetadata struct {
	Identifier FlexString `json:"identifier"`
	Title      FlexString `json:"title"`
	Rights     FlexString `json:"rights"`
	LicenseURL FlexString `json:"licenseurl"`
}

// Item is the per-item metadata response: the file listing plus license
// fields.
type Item struct {
	Files    []File       `json:"files"`
	Metadata ItemMetadata `json:"metadata"`
}

type searchResponse struct {
	Response struct {
		NumFound int   `json:"numFound"`
		Docs     []Doc `json:"docs"`
	} `json:"response"`
}
