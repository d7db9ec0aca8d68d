package playback

// legacyPlaybackPayload is the flat full snapshot of the original protocol
// version. Newer servers send init plus deltas instead; some deployments
// still emit this shape.
type legacyPlaybackPayload struct {
	TrackID    string `json:"trackId"`
	TrackURI   string `json:"trackUri"`
	TrackName  string `json:"trackName"`
	ArtistName string `json:"artistName"`
	AlbumArt   string `json:"albumArt"`
	Duration   int64  `json:"duration"` // ms
	IsPlaying  bool   `json:"isPlaying"`
	Progress   int64  `json:"progress"` // ms
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	Timestamp  int64  `json:"timestamp"`
}

// toInit converts the legacy flat shape into a canonical init payload so
// both protocol versions flow through the same full-replace path and end up
// indistinguishable in the store.
func (p *legacyPlaybackPayload) toInit() *initPayload {
	init := &initPayload{
		IsPlaying: p.IsPlaying,
		Progress:  p.Progress,
		Timestamp: p.Timestamp,
		// The legacy protocol predates seq. A full snapshot always wins
		// outright, so zero is safe here.
		Seq:         0,
		PlayingType: "track",
	}

	if p.TrackID != "" || p.TrackURI != "" {
		init.Track = &trackPayload{
			ID:       p.TrackID,
			URI:      p.TrackURI,
			Name:     p.TrackName,
			Artist:   p.ArtistName,
			AlbumArt: p.AlbumArt,
			Duration: p.Duration,
		}
	}

	if p.DeviceID != "" || p.DeviceName != "" {
		init.Device = &devicePayload{
			ID:   p.DeviceID,
			Name: p.DeviceName,
		}
	}

	return init
}
