package playback

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/currentspace/djsync/internal/core"
)

// TrackChangeFunc is invoked when the playing track genuinely changes
// identity. prevID and prevURI describe the track that just ended.
type TrackChangeFunc func(prevID, prevURI, newID string)

// Notifier derives discrete "track changed" events from the stream of
// track-identity updates. It fires exactly once per genuine transition:
// never on first observation, never on a repeat of the same identity, and
// never on the first track after an idle period.
type Notifier struct {
	mu        sync.Mutex
	prevID    string
	prevURI   string
	callbacks map[int]TrackChangeFunc
	nextID    int
	logger    *log.Logger
}

// NewNotifier creates a notifier. A nil logger discards.
func NewNotifier(logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Notifier{
		callbacks: make(map[int]TrackChangeFunc),
		logger:    logger,
	}
}

// Register adds a callback and returns an unsubscribe func.
func (n *Notifier) Register(fn TrackChangeFunc) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.callbacks[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.callbacks, id)
	}
}

// Count returns the number of registered callbacks.
func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.callbacks)
}

// Observe records a new track identity. Callbacks fire only when the
// previous identity is non-empty, the new one is non-empty, and they
// differ. The remembered identity is updated unconditionally afterward so
// a first observation seeds future comparisons without firing.
func (n *Notifier) Observe(track *core.Track) {
	newID := track.Key()
	newURI := ""
	if track != nil {
		newURI = track.URI
	}

	n.mu.Lock()
	prevID, prevURI := n.prevID, n.prevURI
	fire := prevID != "" && newID != "" && prevID != newID
	n.prevID, n.prevURI = newID, newURI

	var fns []TrackChangeFunc
	if fire {
		fns = make([]TrackChangeFunc, 0, len(n.callbacks))
		for _, fn := range n.callbacks {
			fns = append(fns, fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range fns {
		n.invoke(fn, prevID, prevURI, newID)
	}
}

// invoke runs one callback with panic isolation: one faulty subscriber
// must not break the others or state propagation.
func (n *Notifier) invoke(fn TrackChangeFunc, prevID, prevURI, newID string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("track-change callback panicked", "panic", r)
		}
	}()
	fn(prevID, prevURI, newID)
}

// Reset clears the remembered identity. Called on idle and disconnect so
// the next track observed never raises a false transition.
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prevID = ""
	n.prevURI = ""
}
