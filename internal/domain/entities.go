package domain

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// DefaultImageTitle is used when nothing better can be derived from a URL
const DefaultImageTitle = "New"

// Image is a single record placed on the board. Records are immutable once
// created; the board holds pointers to them and never edits them in place.
type Image struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// NewImage builds a record for a raw URL string. The URL is not validated;
// anything that is not blank is accepted as-is.
func NewImage(raw string) Image {
	raw = strings.TrimSpace(raw)
	return Image{
		URL:   raw,
		Title: TitleFromURL(raw),
	}
}

// TitleFromURL derives a short display title from the last path segment,
// falling back to the host and then to DefaultImageTitle.
func TitleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return DefaultImageTitle
	}
	// Split before decoding so an escaped slash stays inside its segment
	if base := path.Base(u.EscapedPath()); base != "" && base != "/" && base != "." {
		if decoded, err := url.PathUnescape(base); err == nil {
			base = decoded
		}
		return base
	}
	if u.Host != "" {
		return u.Host
	}
	return DefaultImageTitle
}

// Host returns the host part of the image URL, or "" when there is none
func (i Image) Host() string {
	u, err := url.Parse(i.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// HistoryEntry is one remembered URL submission. Only the string typed into
// the URL bar is kept, never the board position.
type HistoryEntry struct {
	URL     string    `json:"url"`
	Count   int       `json:"count"`
	FirstAt time.Time `json:"first_at"`
	LastAt  time.Time `json:"last_at"`
}
