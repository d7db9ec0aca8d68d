package playback

import (
	"testing"
	"time"

	"github.com/currentspace/djsync/internal/core"
)

func testInit(trackID string, playing bool, progressMS, seq int64) *initPayload {
	return &initPayload{
		Track: &trackPayload{
			ID:       trackID,
			URI:      "spotify:track:" + trackID,
			Name:     "Song " + trackID,
			Artist:   "Artist",
			Duration: 180000,
		},
		Device: &devicePayload{
			ID:   "dev1",
			Name: "Kitchen",
			Type: "speaker",
		},
		Modes:       &modesPayload{Repeat: "off"},
		PlayingType: "track",
		IsPlaying:   playing,
		Progress:    progressMS,
		Timestamp:   1700000000000,
		Seq:         seq,
	}
}

func TestStoreEmptyAtConstruction(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()

	if snap.Track != nil {
		t.Error("new store has a track")
	}
	if snap.Device.Type != core.DeviceTypeUnknown {
		t.Errorf("Device.Type = %q, want unknown sentinel", snap.Device.Type)
	}
	if snap.Status != core.StatusDisconnected {
		t.Errorf("Status = %q, want disconnected", snap.Status)
	}
}

func TestApplyInitFullReplace(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.ApplyInit(testInit("t1", true, 5000, 7), now)

	snap := s.Snapshot()
	if snap.Track == nil || snap.Track.ID != "t1" {
		t.Fatalf("Track = %+v, want t1", snap.Track)
	}
	if !snap.IsPlaying {
		t.Error("IsPlaying = false, want true")
	}
	if snap.Progress != 5*time.Second {
		t.Errorf("Progress = %v, want 5s", snap.Progress)
	}
	if snap.Seq != 7 {
		t.Errorf("Seq = %d, want 7", snap.Seq)
	}
	if snap.Device.Name != "Kitchen" {
		t.Errorf("Device.Name = %q", snap.Device.Name)
	}
}

func TestSeqGuardDropsStaleDeltas(t *testing.T) {
	s := NewStore()
	s.ApplyInit(testInit("t1", true, 0, 10), time.Now())

	// A delta with a lower seq must not regress state.
	if _, ok := s.ApplyTrack(&trackPayload{ID: "old", Seq: 3}); ok {
		t.Error("stale track delta was applied")
	}
	if got := s.Snapshot().Track.ID; got != "t1" {
		t.Errorf("Track.ID = %q after stale delta, want t1", got)
	}

	// Equal or higher seq applies.
	if _, ok := s.ApplyTrack(&trackPayload{ID: "t2", Duration: 60000, Seq: 11}); !ok {
		t.Error("fresh track delta was dropped")
	}
	if got := s.Snapshot().Track.ID; got != "t2" {
		t.Errorf("Track.ID = %q, want t2", got)
	}
}

func TestInitAlwaysWinsRegardlessOfSeq(t *testing.T) {
	s := NewStore()
	s.ApplyInit(testInit("t1", true, 0, 100), time.Now())

	// A fresh init with a lower seq (server restart) still fully replaces.
	s.ApplyInit(testInit("t9", false, 1000, 1), time.Now())

	snap := s.Snapshot()
	if snap.Track.ID != "t9" {
		t.Errorf("Track.ID = %q, want t9", snap.Track.ID)
	}
	if snap.Seq != 1 {
		t.Errorf("Seq = %d, want 1", snap.Seq)
	}

	// The guard is re-anchored: seq 2 is now fresh.
	if _, ok := s.ApplyState(&statePayload{IsPlaying: true, Seq: 2}, time.Now()); !ok {
		t.Error("delta after re-anchoring init was dropped")
	}
}

func TestProgressClampedToDuration(t *testing.T) {
	s := NewStore()
	s.ApplyInit(testInit("t1", true, 0, 1), time.Now())

	// Tick beyond the 180s duration pins at duration.
	s.SetBaseline(999999, time.Now())
	if got := s.Snapshot().Progress; got != 180*time.Second {
		t.Errorf("Progress = %v, want clamped 180s", got)
	}

	s.SetBaseline(-5, time.Now())
	if got := s.Snapshot().Progress; got != 0 {
		t.Errorf("Progress = %v, want clamped 0", got)
	}
}

func TestTickLeavesCoreUntouched(t *testing.T) {
	s := NewStore()
	s.ApplyInit(testInit("t1", true, 0, 1), time.Now())

	coreFired := 0
	progressFired := 0
	defer s.Subscribe(func(core.Snapshot) { coreFired++ })()
	defer s.SubscribeProgress(func(time.Duration) { progressFired++ })()

	s.SetBaseline(3000, time.Now())

	if coreFired != 0 {
		t.Errorf("core listeners fired %d times on a bare tick, want 0", coreFired)
	}
	if progressFired != 1 {
		t.Errorf("progress listeners fired %d times, want 1", progressFired)
	}
	if got := s.Snapshot().Track.ID; got != "t1" {
		t.Errorf("Track.ID = %q after tick, want t1", got)
	}
}

func TestApplyIdleClearsPlayback(t *testing.T) {
	s := NewStore()
	s.ApplyInit(testInit("t1", true, 4000, 1), time.Now())

	if _, ok := s.ApplyIdle(&idlePayload{Seq: 2}); !ok {
		t.Fatal("idle was dropped")
	}

	snap := s.Snapshot()
	if snap.Track != nil {
		t.Error("Track != nil after idle")
	}
	if snap.IsPlaying {
		t.Error("IsPlaying = true after idle")
	}
	if snap.Progress != 0 {
		t.Errorf("Progress = %v after idle, want 0", snap.Progress)
	}
}

func TestVolumePatchesDevice(t *testing.T) {
	s := NewStore()
	s.ApplyInit(testInit("t1", true, 0, 1), time.Now())

	s.ApplyVolume(&volumePayload{Percent: 85, Seq: 2})

	snap := s.Snapshot()
	if snap.Device.VolumePercent != 85 {
		t.Errorf("VolumePercent = %d, want 85", snap.Device.VolumePercent)
	}
	if snap.Device.Name != "Kitchen" {
		t.Error("volume patch replaced the whole device")
	}
}

func TestResetRestoresEmptyState(t *testing.T) {
	s := NewStore()
	s.ApplyInit(testInit("t1", true, 4000, 50), time.Now())

	s.Reset()

	snap := s.Snapshot()
	if snap.Track != nil || snap.IsPlaying || snap.Progress != 0 {
		t.Errorf("snapshot not empty after reset: %+v", snap)
	}
	if snap.Status != core.StatusDisconnected {
		t.Errorf("Status = %q, want disconnected", snap.Status)
	}

	// Seq guard restarted: low seqs from a new connection apply.
	s.ApplyInit(testInit("t2", false, 0, 1), time.Now())
	if _, ok := s.ApplyState(&statePayload{IsPlaying: true, Seq: 2}, time.Now()); !ok {
		t.Error("delta after reset was dropped")
	}
}

func TestAdvanceProgress(t *testing.T) {
	s := NewStore()
	base := time.Now()
	s.ApplyInit(testInit("t1", true, 10000, 1), base)

	// 1s of wall time: progress grows by about that much.
	got, ok := s.AdvanceProgress(base.Add(1*time.Second), 120*time.Millisecond)
	if !ok {
		t.Fatal("AdvanceProgress did not publish")
	}
	if got != 11*time.Second {
		t.Errorf("progress = %v, want 11s", got)
	}

	// A sub-threshold advance is suppressed.
	if _, ok := s.AdvanceProgress(base.Add(1*time.Second+50*time.Millisecond), 120*time.Millisecond); ok {
		t.Error("sub-threshold advance was published")
	}

	// Far beyond the end: pinned at duration.
	got, ok = s.AdvanceProgress(base.Add(10*time.Minute), 120*time.Millisecond)
	if !ok {
		t.Fatal("AdvanceProgress did not publish at clamp")
	}
	if got != 180*time.Second {
		t.Errorf("progress = %v, want pinned 180s", got)
	}
}

func TestAdvanceProgressRequiresPlayback(t *testing.T) {
	s := NewStore()
	base := time.Now()
	s.ApplyInit(testInit("t1", false, 10000, 1), base)

	if _, ok := s.AdvanceProgress(base.Add(5*time.Second), 0); ok {
		t.Error("AdvanceProgress published while paused")
	}

	s.ApplyIdle(&idlePayload{Seq: 2})
	if _, ok := s.AdvanceProgress(base.Add(10*time.Second), 0); ok {
		t.Error("AdvanceProgress published while idle")
	}
}

func TestResumeRebaselines(t *testing.T) {
	s := NewStore()
	base := time.Now()
	s.ApplyInit(testInit("t1", false, 30000, 1), base)

	// Paused for a minute, then resume: the paused minute must not count.
	resumeAt := base.Add(1 * time.Minute)
	s.ApplyState(&statePayload{IsPlaying: true, Seq: 2}, resumeAt)

	got, ok := s.AdvanceProgress(resumeAt.Add(2*time.Second), 0)
	if !ok {
		t.Fatal("AdvanceProgress did not publish after resume")
	}
	if got != 32*time.Second {
		t.Errorf("progress = %v, want 32s", got)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := NewStore()
	fired := 0
	unsub := s.Subscribe(func(core.Snapshot) { fired++ })

	s.SetStatus(core.StatusConnecting, "")
	unsub()
	s.SetStatus(core.StatusConnected, "")

	if fired != 1 {
		t.Errorf("listener fired %d times, want 1", fired)
	}
}
