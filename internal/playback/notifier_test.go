package playback

import (
	"testing"

	"github.com/currentspace/djsync/internal/core"
)

func TestNotifierFiresOncePerTransition(t *testing.T) {
	n := NewNotifier(nil)

	var calls [][3]string
	n.Register(func(prevID, prevURI, newID string) {
		calls = append(calls, [3]string{prevID, prevURI, newID})
	})

	// First observation seeds the memory, no firing.
	n.Observe(&core.Track{ID: "A", URI: "spotify:track:A"})
	if len(calls) != 0 {
		t.Fatalf("fired on first observation: %v", calls)
	}

	// Same identity again: no firing.
	n.Observe(&core.Track{ID: "A", URI: "spotify:track:A"})
	if len(calls) != 0 {
		t.Fatalf("fired on repeated identity: %v", calls)
	}

	// Genuine transition fires exactly once.
	n.Observe(&core.Track{ID: "B", URI: "spotify:track:B"})
	if len(calls) != 1 {
		t.Fatalf("fired %d times on A→B, want 1", len(calls))
	}
	if calls[0] != [3]string{"A", "spotify:track:A", "B"} {
		t.Errorf("callback args = %v", calls[0])
	}
}

func TestNotifierIdleCycle(t *testing.T) {
	n := NewNotifier(nil)

	fired := 0
	n.Register(func(_, _, _ string) { fired++ })

	n.Observe(&core.Track{ID: "A", URI: "u:A"})
	n.Reset() // idle clears identity memory

	// First track after idle: no false transition, even for a repeat of A.
	n.Observe(&core.Track{ID: "A", URI: "u:A"})
	if fired != 0 {
		t.Fatalf("fired %d times on post-idle reappearance, want 0", fired)
	}

	// The next genuine change still fires once.
	n.Observe(&core.Track{ID: "B", URI: "u:B"})
	if fired != 1 {
		t.Errorf("fired %d times on post-idle A→B, want 1", fired)
	}
}

func TestNotifierNilTrackClearsIdentity(t *testing.T) {
	n := NewNotifier(nil)

	fired := 0
	n.Register(func(_, _, _ string) { fired++ })

	n.Observe(&core.Track{ID: "A", URI: "u:A"})
	n.Observe(nil) // e.g. an init with no active track
	n.Observe(&core.Track{ID: "B", URI: "u:B"})

	if fired != 0 {
		t.Errorf("fired %d times across a nil-track gap, want 0", fired)
	}
}

func TestNotifierLocalTrackUsesURIKey(t *testing.T) {
	n := NewNotifier(nil)

	fired := 0
	n.Register(func(_, _, _ string) { fired++ })

	n.Observe(&core.Track{URI: "spotify:local:one", IsLocal: true})
	n.Observe(&core.Track{URI: "spotify:local:two", IsLocal: true})

	if fired != 1 {
		t.Errorf("fired %d times for local-file transition, want 1", fired)
	}
}

func TestNotifierIsolatesPanickingCallback(t *testing.T) {
	n := NewNotifier(nil)

	var good int
	n.Register(func(_, _, _ string) { panic("bad subscriber") })
	n.Register(func(_, _, _ string) { good++ })

	n.Observe(&core.Track{ID: "A"})
	n.Observe(&core.Track{ID: "B"})

	if good != 1 {
		t.Errorf("healthy callback fired %d times, want 1", good)
	}

	// Propagation survives: the memory advanced past B.
	n.Observe(&core.Track{ID: "C"})
	if good != 2 {
		t.Errorf("healthy callback fired %d times after second transition, want 2", good)
	}
}

func TestNotifierUnsubscribe(t *testing.T) {
	n := NewNotifier(nil)

	fired := 0
	unsub := n.Register(func(_, _, _ string) { fired++ })

	n.Observe(&core.Track{ID: "A"})
	unsub()
	n.Observe(&core.Track{ID: "B"})

	if fired != 0 {
		t.Errorf("fired %d times after unsubscribe, want 0", fired)
	}
	if n.Count() != 0 {
		t.Errorf("Count() = %d, want 0", n.Count())
	}
}
