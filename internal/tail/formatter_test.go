package tail

import (
	"strings"
	"testing"
	"time"

	"github.com/currentspace/djsync/internal/core"
)

func testEvent(t EventType) Event {
	return Event{
		Type:      t,
		Timestamp: time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		Current: &core.Snapshot{
			Track: &core.Track{
				ID:     "t1",
				Name:   "Bohemian Like You",
				Artist: "The Dandy Warhols",
			},
			Device:    core.Device{Name: "Kitchen", VolumePercent: 60},
			IsPlaying: true,
			Status:    core.StatusConnected,
		},
	}
}

func TestFormatDefault(t *testing.T) {
	f := NewFormatter()
	got := f.Format(testEvent(EventTrackChange))

	if !strings.Contains(got, "The Dandy Warhols") || !strings.Contains(got, "Bohemian Like You") {
		t.Errorf("Format() = %q, missing track info", got)
	}
	if !strings.Contains(got, "🎵") {
		t.Errorf("Format() = %q, emoji enabled by default", got)
	}
	if strings.Contains(got, "15:09:26") {
		t.Errorf("Format() = %q, timestamp should be off by default", got)
	}
}

func TestFormatOptions(t *testing.T) {
	f := NewFormatter(WithEmoji(false), WithTimestamp(true))
	got := f.Format(testEvent(EventPause))

	if strings.Contains(got, "⏸") {
		t.Errorf("Format() = %q, emoji disabled", got)
	}
	if !strings.Contains(got, "15:09:26") {
		t.Errorf("Format() = %q, want timestamp", got)
	}
	if !strings.Contains(got, "Paused") {
		t.Errorf("Format() = %q, want Paused", got)
	}
}

func TestFormatTemplate(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Type}}|{{.Artist}}|{{.Title}}|{{.Volume}}"))
	got := f.Format(testEvent(EventTrackChange))

	want := "track_change|The Dandy Warhols|Bohemian Like You|60"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatBadTemplateFallsBack(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Broken"))
	got := f.Format(testEvent(EventResume))

	if !strings.Contains(got, "Resumed") {
		t.Errorf("Format() = %q, want fallback line format", got)
	}
}

func TestFormatStatusChange(t *testing.T) {
	f := NewFormatter(WithEmoji(false))
	got := f.Format(testEvent(EventStatusChange))

	if !strings.Contains(got, "Connection: connected") {
		t.Errorf("Format() = %q", got)
	}
}
