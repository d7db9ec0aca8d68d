// Package playback maintains a locally consistent mirror of a remote
// device's playback state from a server-pushed delta-event stream.
package playback

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/currentspace/djsync/internal/core"
)

// Wire payload shapes. Field names are the server's camelCase.

type trackPayload struct {
	ID         string `json:"id"`
	URI        string `json:"uri"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	AlbumArt   string `json:"albumArt"`
	AlbumName  string `json:"albumName"`
	Duration   int64  `json:"duration"` // ms
	Explicit   bool   `json:"explicit"`
	Popularity int    `json:"popularity"`
	IsLocal    bool   `json:"isLocal"`
	PreviewURL string `json:"previewUrl"`
	Seq        int64  `json:"seq"`
}

type devicePayload struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	VolumePercent    int    `json:"volumePercent"`
	SupportsVolume   bool   `json:"supportsVolume"`
	IsPrivateSession bool   `json:"isPrivateSession"`
	IsRestricted     bool   `json:"isRestricted"`
	Seq              int64  `json:"seq"`
}

type contextBody struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
	Name string `json:"name"`
	Href string `json:"href"`
}

type modesPayload struct {
	Shuffle bool   `json:"shuffle"`
	Repeat  string `json:"repeat"`
	Seq     int64  `json:"seq"`
}

type initPayload struct {
	Track       *trackPayload  `json:"track"`
	Device      *devicePayload `json:"device"`
	Context     *contextBody   `json:"context"`
	Modes       *modesPayload  `json:"modes"`
	PlayingType string         `json:"playingType"`
	IsPlaying   bool           `json:"isPlaying"`
	Progress    int64          `json:"progress"` // ms
	Timestamp   int64          `json:"timestamp"`
	Seq         int64          `json:"seq"`
}

type tickPayload struct {
	P  int64 `json:"p"`  // progress ms
	TS int64 `json:"ts"` // server epoch ms
}

type statePayload struct {
	IsPlaying bool  `json:"isPlaying"`
	Seq       int64 `json:"seq"`
}

type volumePayload struct {
	Percent int   `json:"percent"`
	Seq     int64 `json:"seq"`
}

type contextPayload struct {
	Context *contextBody `json:"context"`
	Seq     int64        `json:"seq"`
}

type idlePayload struct {
	Seq int64 `json:"seq"`
}

type errorPayload struct {
	Message          string `json:"message"`
	RetriesRemaining int    `json:"retriesRemaining"`
}

type connectedPayload struct {
	Message string `json:"message"`
}

// decode parses a payload strictly enough to reject frames whose JSON is
// broken, without failing on unknown fields the server may add.
func decode(data []byte, v any) error {
	if len(data) == 0 {
		// Events like reconnect carry no payload.
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func (p *trackPayload) toCore() *core.Track {
	if p == nil {
		return nil
	}
	return &core.Track{
		ID:         p.ID,
		URI:        p.URI,
		Name:       p.Name,
		Artist:     p.Artist,
		AlbumArt:   p.AlbumArt,
		AlbumName:  p.AlbumName,
		Duration:   time.Duration(p.Duration) * time.Millisecond,
		Explicit:   p.Explicit,
		Popularity: p.Popularity,
		IsLocal:    p.IsLocal,
		PreviewURL: p.PreviewURL,
	}
}

func (p *devicePayload) toCore() core.Device {
	if p == nil {
		return core.UnknownDevice()
	}
	return core.Device{
		ID:               p.ID,
		Name:             p.Name,
		Type:             deviceType(p.Type),
		VolumePercent:    p.VolumePercent,
		SupportsVolume:   p.SupportsVolume,
		IsPrivateSession: p.IsPrivateSession,
		IsRestricted:     p.IsRestricted,
	}
}

func (p *contextBody) toCore() *core.Context {
	if p == nil {
		return nil
	}
	return &core.Context{
		Type: core.ContextType(p.Type),
		URI:  p.URI,
		Name: p.Name,
		Href: p.Href,
	}
}

func (p *modesPayload) toCore() core.Modes {
	if p == nil {
		return core.Modes{Repeat: core.RepeatOff}
	}
	return core.Modes{
		Shuffle: p.Shuffle,
		Repeat:  repeatMode(p.Repeat),
	}
}

func deviceType(s string) core.DeviceType {
	switch core.DeviceType(s) {
	case core.DeviceTypeComputer, core.DeviceTypeSmartphone, core.DeviceTypeSpeaker, core.DeviceTypeTV:
		return core.DeviceType(s)
	}
	return core.DeviceTypeUnknown
}

func repeatMode(s string) core.RepeatMode {
	switch core.RepeatMode(s) {
	case core.RepeatTrack, core.RepeatContext:
		return core.RepeatMode(s)
	}
	return core.RepeatOff
}

func playingType(s string) core.PlayingType {
	switch core.PlayingType(s) {
	case core.PlayingTypeTrack, core.PlayingTypeEpisode, core.PlayingTypeAd:
		return core.PlayingType(s)
	}
	return core.PlayingTypeUnknown
}
