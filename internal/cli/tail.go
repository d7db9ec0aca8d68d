package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/currentspace/djsync/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Watch the live event stream and print state changes as they happen.

Events tracked:
  - Track changes (new song started)
  - Track completions (song finished)
  - Track skips (song skipped before completion)
  - Pause/Resume
  - Volume, device and mode changes
  - Connection status transitions`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	session, token, err := newSession()
	if err != nil {
		return err
	}

	formatter := tail.NewFormatter(
		tail.WithEmoji(cfg.Tail.Emoji && !tailNoEmoji),
		tail.WithTimestamp(cfg.Tail.Timestamp || tailTimestamp),
		tail.WithTemplate(tailFormat),
	)

	watcher := tail.NewWatcher(session)
	watcher.Start()
	defer watcher.Stop()

	session.Connect(token)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			fmt.Println(formatter.Format(event))

		case <-sigCh:
			return nil
		}
	}
}
