package playback

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/currentspace/djsync/internal/core"
	"github.com/currentspace/djsync/internal/stream"
)

// Dispatcher parses event frames and applies the corresponding store
// mutation. All mutation funnels through here (and the interpolation
// timer), so updates are serialized by the store's lock and each frame
// runs to completion before the next.
type Dispatcher struct {
	store    *Store
	notifier *Notifier
	interp   *Interpolator
	logger   *log.Logger

	// onReconnect is invoked for server-requested reconnects, bypassing
	// the normal failure path. Set by the owning session.
	onReconnect func()
}

// NewDispatcher wires a dispatcher over the store, notifier and
// interpolator. A nil logger discards.
func NewDispatcher(store *Store, notifier *Notifier, interp *Interpolator, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{
		store:    store,
		notifier: notifier,
		interp:   interp,
		logger:   logger,
	}
}

// SetReconnectHook registers the session's reconnect handler.
func (d *Dispatcher) SetReconnectHook(fn func()) {
	d.onReconnect = fn
}

// Dispatch applies one frame. A malformed payload drops the frame without
// mutating state; one corrupt frame must never corrupt the snapshot.
func (d *Dispatcher) Dispatch(f stream.Frame) {
	switch f.Event {
	case "connected":
		var p connectedPayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		d.logger.Info("stream connected", "message", p.Message)

	case "init":
		var p initPayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		d.applyInit(&p)

	case "playback":
		// Legacy protocol: a flat full snapshot. Translated into init so
		// both versions land in the store through the same path.
		var p legacyPlaybackPayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		d.applyInit(p.toInit())

	case "tick":
		var p tickPayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		d.store.SetBaseline(p.P, time.Now())

	case "track":
		var p trackPayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		snap, ok := d.store.ApplyTrack(&p)
		if !ok {
			d.stale(f, p.Seq)
			return
		}
		d.notifier.Observe(snap.Track)

	case "state":
		var p statePayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		if _, ok := d.store.ApplyState(&p, time.Now()); !ok {
			d.stale(f, p.Seq)
			return
		}
		if p.IsPlaying {
			d.interp.Start()
		} else {
			d.interp.Stop()
		}

	case "device":
		var p devicePayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		if _, ok := d.store.ApplyDevice(&p); !ok {
			d.stale(f, p.Seq)
		}

	case "modes":
		var p modesPayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		if _, ok := d.store.ApplyModes(&p); !ok {
			d.stale(f, p.Seq)
		}

	case "volume":
		var p volumePayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		if _, ok := d.store.ApplyVolume(&p); !ok {
			d.stale(f, p.Seq)
		}

	case "context":
		var p contextPayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		if _, ok := d.store.ApplyContext(&p); !ok {
			d.stale(f, p.Seq)
		}

	case "idle":
		var p idlePayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		if _, ok := d.store.ApplyIdle(&p); !ok {
			d.stale(f, p.Seq)
			return
		}
		d.interp.Stop()
		// Clear the identity memory: the next track after an idle period
		// is not a transition.
		d.notifier.Reset()

	case "error":
		var p errorPayload
		if err := decode(f.Data, &p); err != nil {
			d.drop(f, err)
			return
		}
		d.logger.Warn("server advisory", "message", p.Message, "retries_remaining", p.RetriesRemaining)
		d.store.SetAdvisory(&core.Advisory{
			Message:          p.Message,
			RetriesRemaining: p.RetriesRemaining,
		})

	case "reconnect":
		if d.onReconnect != nil {
			d.onReconnect()
		}

	default:
		// Heartbeats and future event types land here.
		d.logger.Debug("ignoring event", "event", f.Event)
	}
}

// applyInit full-replaces state, re-baselines interpolation, runs the
// track-change check and starts/stops the interpolator per isPlaying.
func (d *Dispatcher) applyInit(p *initPayload) {
	snap := d.store.ApplyInit(p, time.Now())
	d.notifier.Observe(snap.Track)
	if snap.IsPlaying {
		d.interp.Start()
	} else {
		d.interp.Stop()
	}
}

func (d *Dispatcher) drop(f stream.Frame, err error) {
	d.logger.Warn("dropping malformed frame", "event", f.Event, "err", err)
}

func (d *Dispatcher) stale(f stream.Frame, seq int64) {
	d.logger.Debug("ignoring stale delta", "event", f.Event, "seq", seq)
}
