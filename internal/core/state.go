package core

import "time"

// RepeatMode is the repeat setting on the remote device.
type RepeatMode string

const (
	RepeatOff     RepeatMode = "off"
	RepeatTrack   RepeatMode = "track"
	RepeatContext RepeatMode = "context"
)

// Modes holds the shuffle and repeat settings.
type Modes struct {
	Shuffle bool       `json:"shuffle"`
	Repeat  RepeatMode `json:"repeat"`
}

// PlayingType indicates what kind of item is playing.
type PlayingType string

const (
	PlayingTypeTrack   PlayingType = "track"
	PlayingTypeEpisode PlayingType = "episode"
	PlayingTypeAd      PlayingType = "ad"
	PlayingTypeUnknown PlayingType = "unknown"
)

// ConnectionStatus is the state of the stream connection.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusError        ConnectionStatus = "error"
)

// Advisory is a soft, non-fatal error reported by the server while the
// connection stays open.
type Advisory struct {
	Message          string `json:"message"`
	RetriesRemaining int    `json:"retries_remaining"`
}

// Snapshot is the locally mirrored playback state. Progress is carried
// alongside the core fields so simple consumers get one merged view; the
// store still notifies progress-only changes on a separate channel.
type Snapshot struct {
	Track       *Track           `json:"track"`
	Device      Device           `json:"device"`
	Context     *Context         `json:"context"`
	Modes       Modes            `json:"modes"`
	PlayingType PlayingType      `json:"playing_type"`
	IsPlaying   bool             `json:"is_playing"`
	Timestamp   int64            `json:"timestamp"` // server epoch ms
	Seq         int64            `json:"seq"`
	Progress    time.Duration    `json:"progress"`
	Status      ConnectionStatus `json:"status"`
	Error       string           `json:"error,omitempty"`
	Advisory    *Advisory        `json:"advisory,omitempty"`
}

// HasTrack returns true if there is an active track.
func (s *Snapshot) HasTrack() bool {
	return s != nil && s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *Snapshot) ProgressPercent() float64 {
	if s == nil || s.Track == nil || s.Track.Duration == 0 {
		return 0
	}
	return float64(s.Progress) / float64(s.Track.Duration) * 100
}
