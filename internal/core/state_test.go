package core

import (
	"testing"
	"time"
)

func TestTrackKey(t *testing.T) {
	tests := []struct {
		name  string
		track *Track
		want  string
	}{
		{
			name:  "nil track",
			track: nil,
			want:  "",
		},
		{
			name:  "id present",
			track: &Track{ID: "abc123", URI: "spotify:track:abc123"},
			want:  "abc123",
		},
		{
			name:  "local file falls back to uri",
			track: &Track{URI: "spotify:local:foo"},
			want:  "spotify:local:foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	s := &Snapshot{
		Track:    &Track{Duration: 200 * time.Second},
		Progress: 50 * time.Second,
	}
	if got := s.ProgressPercent(); got != 25 {
		t.Errorf("ProgressPercent() = %v, want 25", got)
	}

	var nilSnap *Snapshot
	if got := nilSnap.ProgressPercent(); got != 0 {
		t.Errorf("nil ProgressPercent() = %v, want 0", got)
	}

	noTrack := &Snapshot{Progress: 10 * time.Second}
	if got := noTrack.ProgressPercent(); got != 0 {
		t.Errorf("no-track ProgressPercent() = %v, want 0", got)
	}
}

func TestHasTrack(t *testing.T) {
	s := &Snapshot{}
	if s.HasTrack() {
		t.Error("HasTrack() = true for empty snapshot")
	}
	s.Track = &Track{ID: "x"}
	if !s.HasTrack() {
		t.Error("HasTrack() = false with track set")
	}
}
