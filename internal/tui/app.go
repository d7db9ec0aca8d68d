package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/currentspace/djsync/internal/core"
	"github.com/currentspace/djsync/internal/playback"
	"github.com/currentspace/djsync/internal/tui/styles"
)

// snapshotMsg carries a core state change into the update loop.
type snapshotMsg core.Snapshot

// progressMsg carries a progress-only change into the update loop.
type progressMsg time.Duration

// Model is the now-playing TUI model. It is fed by the session's two
// subscription channels: metadata changes redraw the panel, progress
// changes only move the bar.
type Model struct {
	session *playback.Session
	token   string

	updates chan tea.Msg
	unsubs  []func()

	snap    core.Snapshot
	spinner spinner.Model
	width   int
	height  int
}

// NewModel creates the TUI model over an unconnected session.
func NewModel(session *playback.Session, token string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	m := &Model{
		session: session,
		token:   token,
		updates: make(chan tea.Msg, 64),
		snap:    session.Snapshot(),
		spinner: sp,
	}

	m.unsubs = append(m.unsubs,
		session.Subscribe(func(s core.Snapshot) {
			m.push(snapshotMsg(s))
		}),
		session.SubscribeProgress(func(p time.Duration) {
			m.push(progressMsg(p))
		}),
	)

	return m
}

// push hands a message to the update loop without ever blocking the
// engine's notification path.
func (m *Model) push(msg tea.Msg) {
	select {
	case m.updates <- msg:
	default:
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		return <-m.updates
	}
}

// Init connects the session and starts listening.
func (m *Model) Init() tea.Cmd {
	m.session.Connect(m.token)
	return tea.Batch(m.spinner.Tick, m.waitForUpdate())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			for _, unsub := range m.unsubs {
				unsub()
			}
			return m, tea.Quit
		}
		return m, nil

	case snapshotMsg:
		m.snap = core.Snapshot(msg)
		return m, m.waitForUpdate()

	case progressMsg:
		m.snap.Progress = time.Duration(msg)
		return m, m.waitForUpdate()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the now-playing panel.
func (m *Model) View() string {
	width := m.width
	if width == 0 {
		width = 60
	}
	inner := width - 6

	var content string
	switch m.snap.Status {
	case core.StatusConnecting:
		content = fmt.Sprintf("%s %s", m.spinner.View(), styles.Muted.Render("Connecting..."))
	case core.StatusError:
		content = styles.ErrorText.Render(m.snap.Error)
	case core.StatusDisconnected:
		content = styles.Muted.Render("Disconnected")
	default:
		content = m.renderPlayback(inner)
	}

	title := styles.Highlight.Render(" Now Playing ")
	return styles.Panel.Width(width - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", content),
	)
}

func (m *Model) renderPlayback(width int) string {
	snap := m.snap
	if !snap.HasTrack() {
		return styles.Muted.Render("No track playing")
	}

	track := snap.Track

	icon := styles.StatusIcon(snap.IsPlaying)
	title := styles.Title.Render(track.Name)
	artist := styles.Subtitle.Render(track.Artist)
	album := styles.Dim.Render(track.AlbumName)

	progressWidth := width - 14 // room for the times on either side
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(snap.ProgressPercent(), progressWidth)
	progress := fmt.Sprintf("%s %s %s",
		formatDuration(snap.Progress), bar, formatDuration(track.Duration))

	deviceInfo := fmt.Sprintf("%s %s",
		styles.DeviceIcon(string(snap.Device.Type)), snap.Device.Name)
	if snap.Device.SupportsVolume {
		deviceInfo += fmt.Sprintf(" 🔊 %d%%", snap.Device.VolumePercent)
	}

	lines := []string{
		fmt.Sprintf("%s %s", icon, title),
		artist,
	}
	if track.AlbumName != "" {
		lines = append(lines, album)
	}
	if snap.Context != nil {
		lines = append(lines, styles.Dim.Render(
			fmt.Sprintf("from %s: %s", snap.Context.Type, snap.Context.Name)))
	}
	lines = append(lines, "", progress, "", styles.Label.Render(deviceInfo))

	if snap.Advisory != nil {
		lines = append(lines, styles.Paused.Render("⚠ "+snap.Advisory.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// formatDuration renders a duration as m:ss.
func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
