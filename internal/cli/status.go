package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/currentspace/djsync/internal/core"
	"github.com/currentspace/djsync/internal/errors"
	"github.com/currentspace/djsync/internal/playback"
)

var statusTimeout time.Duration

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long:  `Connects to the event stream, waits for the initial snapshot, and prints it.`,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 10*time.Second, "how long to wait for the snapshot")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	session, token, err := newSession()
	if err != nil {
		return err
	}

	snapCh := make(chan core.Snapshot, 16)
	unsub := session.Subscribe(func(s core.Snapshot) {
		select {
		case snapCh <- s:
		default:
		}
	})
	defer unsub()

	session.Connect(token)

	deadline := time.After(statusTimeout)
	for {
		select {
		case snap := <-snapCh:
			if snap.Status == core.StatusError {
				return fmt.Errorf("%w: %s", errors.ErrSessionExpired, snap.Error)
			}
			// Wait for the anchoring init: connected alone means no
			// snapshot has been established yet. Legacy servers send
			// snapshots without a sequence number.
			if snap.Status == core.StatusConnected && (snap.Seq > 0 || snap.Timestamp > 0 || snap.HasTrack()) {
				return printStatus(session)
			}

		case <-deadline:
			return fmt.Errorf("%w: no snapshot within %v", errors.ErrNotConnected, statusTimeout)
		}
	}
}

func printStatus(session *playback.Session) error {
	snap := session.Snapshot()

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(snap)
	}

	if !snap.HasTrack() {
		fmt.Println("No active playback")
		return nil
	}

	state := "Paused"
	if snap.IsPlaying {
		state = "Playing"
	}

	t := NewTable("FIELD", "VALUE")
	t.Row("State", state)
	t.Row("Track", fmt.Sprintf("%s - %s", snap.Track.Artist, snap.Track.Name))
	if snap.Track.AlbumName != "" {
		t.Row("Album", snap.Track.AlbumName)
	}
	t.Row("Position", fmt.Sprintf("%s / %s (%d%%)",
		formatDuration(snap.Progress),
		formatDuration(snap.Track.Duration),
		int(snap.ProgressPercent())))
	t.Row("Device", fmt.Sprintf("%s (%s, volume %d%%)",
		snap.Device.Name, snap.Device.Type, snap.Device.VolumePercent))
	if snap.Context != nil {
		t.Row("Context", fmt.Sprintf("%s: %s", snap.Context.Type, snap.Context.Name))
	}
	t.Row("Modes", fmt.Sprintf("shuffle=%t repeat=%s", snap.Modes.Shuffle, snap.Modes.Repeat))
	if snap.Timestamp > 0 {
		t.Row("Updated", humanize.Time(time.UnixMilli(snap.Timestamp)))
	}
	if snap.Advisory != nil {
		t.Row("Advisory", snap.Advisory.Message)
	}
	t.Flush()

	return nil
}

// formatDuration renders a duration as m:ss.
func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
