package session

import (
	"context"
	"fmt"

	"pomobar/internal/core/model"
)

// Display is the render update handed to the display sink.
type Display struct {
	TimerText     string
	PhaseLabel    string
	ProgressLabel string
	StartVisible  bool
	PauseVisible  bool
	Finished      bool
	// LongerBreak is set on the first render after a multi-interval sequence completes.
	LongerBreak bool
}

// Text joins the display parts into a single status line.
func (display Display) Text() string {
	text := display.TimerText
	if display.PhaseLabel != "" {
		text += " - " + display.PhaseLabel
	}
	if display.ProgressLabel != "" {
		text += " " + display.ProgressLabel
	}
	return text
}

// DisplaySink presents render updates and owns the display resources.
type DisplaySink interface {
	Render(Display)
	Dispose()
}

// Notifier shows one-shot messages to the user.
type Notifier interface {
	Notify(message string)
}

// Recorder persists completed phases.
type Recorder interface {
	Record(ctx context.Context, record model.PhaseRecord) error
}

// FormatClock renders seconds as zero-padded MM:SS. Negative values render as 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

type nopDisplay struct{}

func (nopDisplay) Render(Display) {}
func (nopDisplay) Dispose()       {}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}
