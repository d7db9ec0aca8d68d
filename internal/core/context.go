package core

// ContextType indicates the kind of playback context a track is playing from.
type ContextType string

const (
	ContextTypeAlbum      ContextType = "album"
	ContextTypeArtist     ContextType = "artist"
	ContextTypePlaylist   ContextType = "playlist"
	ContextTypeShow       ContextType = "show"
	ContextTypeCollection ContextType = "collection"
)

// Context describes where the current track is playing from. It is nullable
// as a whole: free playback (e.g. a single queued track) has no context.
type Context struct {
	Type ContextType `json:"type"`
	URI  string      `json:"uri"`
	Name string      `json:"name"`
	Href string      `json:"href"`
}
