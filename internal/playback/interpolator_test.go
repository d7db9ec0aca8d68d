package playback

import (
	"testing"
	"time"
)

func TestInterpolatorStartIsIdempotent(t *testing.T) {
	s := NewStore()
	i := NewInterpolator(s, time.Hour)
	defer i.Stop()

	i.Start()
	i.Start()
	i.Start()

	if !i.Running() {
		t.Fatal("Running() = false after Start")
	}

	i.Stop()
	i.Stop()

	if i.Running() {
		t.Fatal("Running() = true after Stop")
	}

	// Restart after stop works.
	i.Start()
	if !i.Running() {
		t.Fatal("Running() = false after restart")
	}
}

func TestInterpolatorPublishesWhilePlaying(t *testing.T) {
	s := NewStore()
	s.ApplyInit(testInit("t1", true, 0, 1), time.Now())

	published := make(chan time.Duration, 64)
	s.SubscribeProgress(func(p time.Duration) {
		select {
		case published <- p:
		default:
		}
	})

	i := NewInterpolator(s, 20*time.Millisecond)
	i.Start()
	defer i.Stop()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case p := <-published:
			if p > 0 {
				return
			}
		case <-deadline:
			t.Fatal("no interpolated progress published")
		}
	}
}

func TestInterpolatorDefaultInterval(t *testing.T) {
	i := NewInterpolator(NewStore(), 0)
	if i.interval != DefaultTickInterval {
		t.Errorf("interval = %v, want default %v", i.interval, DefaultTickInterval)
	}
}
