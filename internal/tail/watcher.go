package tail

import (
	"sync"
	"time"

	"github.com/currentspace/djsync/internal/core"
	"github.com/currentspace/djsync/internal/playback"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventVolumeChange
	EventDeviceChange
	EventModeChange
	EventStatusChange
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.Snapshot
	Current   *core.Snapshot
}

// Watcher subscribes to a playback session and emits discrete events
// derived from successive snapshots.
type Watcher struct {
	session *playback.Session
	events  chan Event

	mu     sync.Mutex
	prev   *core.Snapshot
	unsub  func()
	closed bool
}

// NewWatcher creates a watcher over the session.
func NewWatcher(session *playback.Session) *Watcher {
	return &Watcher{
		session: session,
		events:  make(chan Event, 16),
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start subscribes to the session. Events flow until Stop.
func (w *Watcher) Start() {
	w.unsub = w.session.Subscribe(func(snap core.Snapshot) {
		w.observe(snap)
	})
}

// Stop unsubscribes from the session and closes the event channel.
func (w *Watcher) Stop() {
	if w.unsub != nil {
		w.unsub()
		w.unsub = nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.events)
	}
}

func (w *Watcher) observe(snap core.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	prev := w.prev
	w.prev = &snap

	for _, e := range diffSnapshots(prev, &snap) {
		select {
		case w.events <- e:
		default:
			// Drop event if the consumer is behind.
		}
	}
}

// diffSnapshots compares two snapshots and returns detected events.
func diffSnapshots(prev, curr *core.Snapshot) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	var events []Event

	// First observation: report the current track if any.
	if prev == nil {
		if curr.HasTrack() {
			events = append(events, Event{
				Type:      EventTrackChange,
				Timestamp: now,
				Current:   curr,
			})
		}
		return events
	}

	if trackChanged(prev, curr) {
		eventType := EventTrackChange

		if prev.HasTrack() && wasCompleted(prev) {
			eventType = EventTrackComplete
		} else if prev.HasTrack() && curr.HasTrack() && wasSkipped(prev) {
			eventType = EventTrackSkip
		}

		events = append(events, Event{
			Type:      eventType,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if prev.IsPlaying && !curr.IsPlaying {
		events = append(events, Event{Type: EventPause, Timestamp: now, Previous: prev, Current: curr})
	} else if !prev.IsPlaying && curr.IsPlaying {
		events = append(events, Event{Type: EventResume, Timestamp: now, Previous: prev, Current: curr})
	}

	if prev.Device.VolumePercent != curr.Device.VolumePercent {
		events = append(events, Event{Type: EventVolumeChange, Timestamp: now, Previous: prev, Current: curr})
	}

	if prev.Device.ID != curr.Device.ID {
		events = append(events, Event{Type: EventDeviceChange, Timestamp: now, Previous: prev, Current: curr})
	}

	if prev.Modes != curr.Modes {
		events = append(events, Event{Type: EventModeChange, Timestamp: now, Previous: prev, Current: curr})
	}

	if prev.Status != curr.Status {
		events = append(events, Event{Type: EventStatusChange, Timestamp: now, Previous: prev, Current: curr})
	}

	return events
}

// trackChanged returns true if the track identity changed.
func trackChanged(prev, curr *core.Snapshot) bool {
	return prev.Track.Key() != curr.Track.Key()
}

// wasCompleted returns true if the track likely completed naturally.
func wasCompleted(state *core.Snapshot) bool {
	if state.Track == nil || state.Track.Duration == 0 {
		return false
	}
	// Consider completed if progress is >= 95% of duration
	threshold := float64(state.Track.Duration) * 0.95
	return float64(state.Progress) >= threshold
}

// wasSkipped returns true if the track was likely skipped.
func wasSkipped(state *core.Snapshot) bool {
	if state.Track == nil || state.Track.Duration == 0 {
		return true // Assume skip if we can't determine
	}
	threshold := float64(state.Track.Duration) * 0.95
	return float64(state.Progress) < threshold
}
