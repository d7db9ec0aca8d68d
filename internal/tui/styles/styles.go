package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	Primary = lipgloss.Color("#7C3AED") // Purple
	Accent  = lipgloss.Color("#F59E0B") // Amber

	Success = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red

	Border    = lipgloss.Color("#4B5563")
	Text      = lipgloss.Color("#F9FAFB")
	TextMuted = lipgloss.Color("#9CA3AF")
	TextDim   = lipgloss.Color("#6B7280")

	PlayingGreen = lipgloss.Color("#1DB954")
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextMuted)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Highlight = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Playing = lipgloss.NewStyle().
		Foreground(PlayingGreen)

	Paused = lipgloss.NewStyle().
		Foreground(Warning)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)
)

// Panel is the bordered container for the now-playing view.
var Panel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// StatusIcon returns the play/pause indicator.
func StatusIcon(isPlaying bool) string {
	if isPlaying {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// ProgressBar renders a percent (0-100) as a fixed-width bar.
func ProgressBar(percent float64, width int) string {
	if width < 2 {
		width = 2
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}

	return Playing.Render(strings.Repeat("━", filled)) + Dim.Render(strings.Repeat("─", width-filled))
}

// DeviceIcon returns an icon for the device type.
func DeviceIcon(deviceType string) string {
	switch deviceType {
	case "computer":
		return "💻"
	case "smartphone":
		return "📱"
	case "speaker":
		return "🔈"
	case "tv":
		return "📺"
	default:
		return "🎧"
	}
}
