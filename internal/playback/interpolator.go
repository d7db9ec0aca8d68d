package playback

import (
	"sync"
	"time"
)

const (
	// DefaultTickInterval is the interpolation cadence between
	// authoritative ticks.
	DefaultTickInterval = 200 * time.Millisecond

	// publishThreshold suppresses interpolated writes smaller than this,
	// so listeners only see meaningful movement.
	publishThreshold = 120 * time.Millisecond
)

// Interpolator extrapolates playback position between authoritative server
// ticks on a fixed cadence. It runs only while a track is playing; the
// store itself refuses to advance when playback is paused or trackless, so
// a straggling tick after Stop is harmless.
type Interpolator struct {
	store     *Store
	interval  time.Duration
	threshold time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

// NewInterpolator creates an interpolator over the store. A zero interval
// selects the default cadence.
func NewInterpolator(store *Store, interval time.Duration) *Interpolator {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Interpolator{
		store:     store,
		interval:  interval,
		threshold: publishThreshold,
	}
}

// Start begins the interpolation timer. Starting while already running is
// a no-op.
func (i *Interpolator) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.running {
		return
	}
	i.running = true
	i.stop = make(chan struct{})
	go i.loop(i.stop)
}

// Stop halts the interpolation timer. Stopping while stopped is a no-op.
func (i *Interpolator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.running {
		return
	}
	i.running = false
	close(i.stop)
}

// Running reports whether the timer is active.
func (i *Interpolator) Running() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.running
}

func (i *Interpolator) loop(stop chan struct{}) {
	ticker := time.NewTicker(i.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			i.store.AdvanceProgress(time.Now(), i.threshold)
		}
	}
}
