// Package tui provides the Bubble Tea integration for the escape game.
// It handles the terminal UI loop, key mapping, audio and score persistence.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// frameMillis returns the milliseconds between two ticks, or fallback for
// the first tick.
func frameMillis(last, now time.Time, fallback float64) float64 {
	if last.IsZero() || !now.After(last) {
		return fallback
	}
	return float64(now.Sub(last)) / float64(time.Millisecond)
}
