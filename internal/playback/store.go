package playback

import (
	"sync"
	"time"

	"github.com/currentspace/djsync/internal/core"
)

// CoreListener receives a snapshot copy whenever any field other than bare
// progress changes.
type CoreListener func(core.Snapshot)

// ProgressListener receives the current progress whenever it changes.
type ProgressListener func(time.Duration)

// Store is the single source of truth for the mirrored playback state.
// Every mutation is serialized under one mutex so each event or timer tick
// runs to completion before the next begins, and observers never see a torn
// snapshot. It exposes two independent notification channels: "core" for
// metadata changes and "progress" for the high-frequency position scalar,
// so a progress-bar consumer never re-evaluates on unrelated updates.
type Store struct {
	mu      sync.Mutex
	snap    core.Snapshot
	lastSeq int64

	// Interpolation baseline: the last authoritative progress and the
	// local time it was observed.
	baseProgress time.Duration
	baseTime     time.Time

	coreSubs     map[int]CoreListener
	progressSubs map[int]ProgressListener
	nextSub      int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		snap:         emptySnapshot(),
		coreSubs:     make(map[int]CoreListener),
		progressSubs: make(map[int]ProgressListener),
	}
}

func emptySnapshot() core.Snapshot {
	return core.Snapshot{
		Device:      core.UnknownDevice(),
		Modes:       core.Modes{Repeat: core.RepeatOff},
		PlayingType: core.PlayingTypeUnknown,
		Status:      core.StatusDisconnected,
	}
}

// Snapshot returns a copy of the current state. Track and Context are
// replaced wholesale on update, never mutated in place, so sharing the
// pointers is safe for read-only consumers.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers a listener for core (non-progress) changes and
// returns an unsubscribe func.
func (s *Store) Subscribe(fn CoreListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.coreSubs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.coreSubs, id)
	}
}

// SubscribeProgress registers a listener for progress changes and returns
// an unsubscribe func.
func (s *Store) SubscribeProgress(fn ProgressListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.progressSubs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.progressSubs, id)
	}
}

// admit applies the seq ordering guard. Deltas below the last applied seq
// are stale redeliveries and must not regress state. Called under s.mu.
func (s *Store) admit(seq int64) bool {
	if seq < s.lastSeq {
		return false
	}
	s.lastSeq = seq
	return true
}

// ApplyInit fully replaces the snapshot from an init (or translated legacy)
// payload and re-baselines interpolation at now. A fresh init always wins
// outright regardless of its seq: it is the anchor the delta protocol
// re-establishes on every (re)connect.
func (s *Store) ApplyInit(p *initPayload, now time.Time) core.Snapshot {
	s.mu.Lock()
	s.snap.Track = p.Track.toCore()
	s.snap.Device = p.Device.toCore()
	s.snap.Context = p.Context.toCore()
	s.snap.Modes = p.Modes.toCore()
	s.snap.PlayingType = playingType(p.PlayingType)
	s.snap.IsPlaying = p.IsPlaying
	s.snap.Timestamp = p.Timestamp
	s.snap.Seq = p.Seq
	s.lastSeq = p.Seq

	progress := clampProgress(time.Duration(p.Progress)*time.Millisecond, s.snap.Track)
	s.snap.Progress = progress
	s.baseProgress = progress
	s.baseTime = now

	snap, coreFns, progFns := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
	notifyProgress(snap.Progress, progFns)
	return snap
}

// SetBaseline handles an authoritative tick: it updates progress and the
// interpolation baseline and notifies progress listeners. The rest of the
// snapshot is untouched.
func (s *Store) SetBaseline(progressMS int64, now time.Time) {
	s.mu.Lock()
	progress := clampProgress(time.Duration(progressMS)*time.Millisecond, s.snap.Track)
	s.snap.Progress = progress
	s.baseProgress = progress
	s.baseTime = now
	_, _, progFns := s.collectAllLocked()
	s.mu.Unlock()

	notifyProgress(progress, progFns)
}

// ApplyTrack patches the track field. Returns the updated snapshot and
// true when the delta was admitted.
func (s *Store) ApplyTrack(p *trackPayload) (core.Snapshot, bool) {
	s.mu.Lock()
	if !s.admit(p.Seq) {
		s.mu.Unlock()
		return core.Snapshot{}, false
	}
	s.snap.Track = p.toCore()
	s.snap.Seq = p.Seq
	s.snap.Progress = clampProgress(s.snap.Progress, s.snap.Track)
	snap, coreFns, _ := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
	return snap, true
}

// ApplyState patches isPlaying. On a transition to playing the baseline is
// reset to the current progress so paused time is not counted as playback.
func (s *Store) ApplyState(p *statePayload, now time.Time) (core.Snapshot, bool) {
	s.mu.Lock()
	if !s.admit(p.Seq) {
		s.mu.Unlock()
		return core.Snapshot{}, false
	}
	if p.IsPlaying && !s.snap.IsPlaying {
		s.baseProgress = s.snap.Progress
		s.baseTime = now
	}
	s.snap.IsPlaying = p.IsPlaying
	s.snap.Seq = p.Seq
	snap, coreFns, _ := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
	return snap, true
}

// ApplyDevice patches the device.
func (s *Store) ApplyDevice(p *devicePayload) (core.Snapshot, bool) {
	s.mu.Lock()
	if !s.admit(p.Seq) {
		s.mu.Unlock()
		return core.Snapshot{}, false
	}
	s.snap.Device = p.toCore()
	s.snap.Seq = p.Seq
	snap, coreFns, _ := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
	return snap, true
}

// ApplyModes patches shuffle/repeat.
func (s *Store) ApplyModes(p *modesPayload) (core.Snapshot, bool) {
	s.mu.Lock()
	if !s.admit(p.Seq) {
		s.mu.Unlock()
		return core.Snapshot{}, false
	}
	s.snap.Modes = p.toCore()
	s.snap.Seq = p.Seq
	snap, coreFns, _ := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
	return snap, true
}

// ApplyVolume patches the device volume.
func (s *Store) ApplyVolume(p *volumePayload) (core.Snapshot, bool) {
	s.mu.Lock()
	if !s.admit(p.Seq) {
		s.mu.Unlock()
		return core.Snapshot{}, false
	}
	s.snap.Device.VolumePercent = p.Percent
	s.snap.Seq = p.Seq
	snap, coreFns, _ := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
	return snap, true
}

// ApplyContext patches the playback context.
func (s *Store) ApplyContext(p *contextPayload) (core.Snapshot, bool) {
	s.mu.Lock()
	if !s.admit(p.Seq) {
		s.mu.Unlock()
		return core.Snapshot{}, false
	}
	s.snap.Context = p.Context.toCore()
	s.snap.Seq = p.Seq
	snap, coreFns, _ := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
	return snap, true
}

// ApplyIdle clears active playback: no track, not playing, progress zero.
func (s *Store) ApplyIdle(p *idlePayload) (core.Snapshot, bool) {
	s.mu.Lock()
	if !s.admit(p.Seq) {
		s.mu.Unlock()
		return core.Snapshot{}, false
	}
	s.snap.Track = nil
	s.snap.IsPlaying = false
	s.snap.Progress = 0
	s.snap.Seq = p.Seq
	s.baseProgress = 0
	s.baseTime = time.Time{}
	snap, coreFns, progFns := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
	notifyProgress(0, progFns)
	return snap, true
}

// SetStatus updates the connection status and optional error message.
func (s *Store) SetStatus(status core.ConnectionStatus, errMsg string) {
	s.mu.Lock()
	s.snap.Status = status
	s.snap.Error = errMsg
	snap, coreFns, _ := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
}

// Status returns the current connection status.
func (s *Store) Status() core.ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Status
}

// SetAdvisory stores a server-reported soft error. The connection stays
// open; this is informational only.
func (s *Store) SetAdvisory(a *core.Advisory) {
	s.mu.Lock()
	s.snap.Advisory = a
	snap, coreFns, _ := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
}

// Reset returns the snapshot to its empty construction state. Used on
// disconnect; the seq guard restarts because ordering is only meaningful
// within one connection's lifetime.
func (s *Store) Reset() {
	s.mu.Lock()
	s.snap = emptySnapshot()
	s.lastSeq = 0
	s.baseProgress = 0
	s.baseTime = time.Time{}
	snap, coreFns, progFns := s.collectAllLocked()
	s.mu.Unlock()

	notifyCore(snap, coreFns)
	notifyProgress(0, progFns)
}

// AdvanceProgress extrapolates progress from the baseline at now, clamped
// to the track duration. The write is suppressed unless the delta from the
// last published value exceeds threshold, so listeners are not flooded with
// redundant updates. Returns the published value and whether a publish
// happened.
func (s *Store) AdvanceProgress(now time.Time, threshold time.Duration) (time.Duration, bool) {
	s.mu.Lock()
	if !s.snap.IsPlaying || s.snap.Track == nil || s.baseTime.IsZero() {
		s.mu.Unlock()
		return 0, false
	}
	candidate := clampProgress(s.baseProgress+now.Sub(s.baseTime), s.snap.Track)
	if candidate-s.snap.Progress < threshold {
		s.mu.Unlock()
		return 0, false
	}
	s.snap.Progress = candidate
	_, _, progFns := s.collectAllLocked()
	s.mu.Unlock()

	notifyProgress(candidate, progFns)
	return candidate, true
}

// collectAllLocked copies the snapshot and listener sets under the lock so
// callbacks can be invoked after it is released.
func (s *Store) collectAllLocked() (core.Snapshot, []CoreListener, []ProgressListener) {
	coreFns := make([]CoreListener, 0, len(s.coreSubs))
	for _, fn := range s.coreSubs {
		coreFns = append(coreFns, fn)
	}
	progFns := make([]ProgressListener, 0, len(s.progressSubs))
	for _, fn := range s.progressSubs {
		progFns = append(progFns, fn)
	}
	return s.snap, coreFns, progFns
}

func notifyCore(snap core.Snapshot, fns []CoreListener) {
	for _, fn := range fns {
		fn(snap)
	}
}

func notifyProgress(p time.Duration, fns []ProgressListener) {
	for _, fn := range fns {
		fn(p)
	}
}

// clampProgress pins a progress value to [0, track.Duration].
func clampProgress(p time.Duration, track *core.Track) time.Duration {
	if p < 0 {
		return 0
	}
	if track != nil && track.Duration > 0 && p > track.Duration {
		return track.Duration
	}
	return p
}
