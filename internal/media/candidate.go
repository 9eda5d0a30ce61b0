// Package media picks the image that accompanies a published article.
package media

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ScrapedContent is what the scraper hands over for one article.
type ScrapedContent struct {
	URL      string         `json:"url,omitempty"`
	Images   []RawImage     `json:"images,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RawImage is one scraped image entry as it arrives on the wire: either a
// bare URL string or an object keyed by src/url, alt/caption, width, height.
// Entries of any other shape decode without error and are dropped by Normalize.
type RawImage struct {
	Src     string
	URL     string
	Alt     string
	Caption string
	Width   json.RawMessage
	Height  json.RawMessage

	bare   bool
	object bool
}

// ImageURL builds a bare-string entry.
func ImageURL(u string) RawImage {
	return RawImage{Src: u, bare: true}
}

type rawImageObject struct {
	Src     json.RawMessage `json:"src,omitempty"`
	URL     json.RawMessage `json:"url,omitempty"`
	Alt     json.RawMessage `json:"alt,omitempty"`
	Caption json.RawMessage `json:"caption,omitempty"`
	Width   json.RawMessage `json:"width,omitempty"`
	Height  json.RawMessage `json:"height,omitempty"`
}

func (r *RawImage) UnmarshalJSON(data []byte) error {
	*r = RawImage{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		r.Src, r.bare = s, true
	case '{':
		var obj rawImageObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		r.object = true
		r.Src = jsonString(obj.Src)
		r.URL = jsonString(obj.URL)
		r.Alt = jsonString(obj.Alt)
		r.Caption = jsonString(obj.Caption)
		r.Width = obj.Width
		r.Height = obj.Height
	}
	return nil
}

func (r RawImage) MarshalJSON() ([]byte, error) {
	if r.bare {
		return json.Marshal(r.Src)
	}
	if !r.object && r.Src == "" && r.URL == "" {
		return []byte("null"), nil
	}
	obj := map[string]any{}
	if r.Src != "" {
		obj["src"] = r.Src
	}
	if r.URL != "" {
		obj["url"] = r.URL
	}
	if r.Alt != "" {
		obj["alt"] = r.Alt
	}
	if r.Caption != "" {
		obj["caption"] = r.Caption
	}
	if len(r.Width) > 0 {
		obj["width"] = r.Width
	}
	if len(r.Height) > 0 {
		obj["height"] = r.Height
	}
	return json.Marshal(obj)
}

func jsonString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// Candidate is the canonical image record all ordering works on.
type Candidate struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Area is width*height; zero when either side is unknown.
func (c Candidate) Area() int64 {
	return int64(c.Width) * int64(c.Height)
}

// Normalize turns raw entries into candidates, dropping entries with no
// usable URL. Object entries prefer src over url and alt over caption; bare
// strings are trimmed and carry no caption or size.
func Normalize(raw []RawImage) []Candidate {
	out := make([]Candidate, 0, len(raw))
	for _, im := range raw {
		switch {
		case im.bare:
			src := strings.TrimSpace(im.Src)
			if src == "" {
				continue
			}
			out = append(out, Candidate{Src: src})
		case im.object:
			src := im.Src
			if src == "" {
				src = im.URL
			}
			if src == "" {
				continue
			}
			alt := im.Alt
			if alt == "" {
				alt = im.Caption
			}
			out = append(out, Candidate{
				Src:    src,
				Alt:    alt,
				Width:  dimension(im.Width),
				Height: dimension(im.Height),
			})
		}
	}
	return out
}

// dimension accepts a JSON integer or a string of digits; anything else is 0.
func dimension(raw json.RawMessage) int {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return 0
	}
	if s[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
	}
	if s == "" {
		return 0
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0
		}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}
