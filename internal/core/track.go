package core

import "time"

// Track represents the track mirrored from the remote playback device.
type Track struct {
	ID         string        `json:"id"`
	URI        string        `json:"uri"`
	Name       string        `json:"name"`
	Artist     string        `json:"artist"`
	AlbumArt   string        `json:"album_art"`
	AlbumName  string        `json:"album_name"`
	Duration   time.Duration `json:"duration"`
	Explicit   bool          `json:"explicit"`
	Popularity int           `json:"popularity"`
	IsLocal    bool          `json:"is_local"`
	PreviewURL string        `json:"preview_url"`
}

// Key returns the track's identity key: the ID, falling back to the URI
// for local files that have no catalog ID.
func (t *Track) Key() string {
	if t == nil {
		return ""
	}
	if t.ID != "" {
		return t.ID
	}
	return t.URI
}
