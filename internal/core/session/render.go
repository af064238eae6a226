package session

import "fmt"

func (controller *Controller) renderLocked() Display {
	if controller.status == StatusDone {
		display := Display{
			TimerText:    MessageSessionOver,
			StartVisible: true,
			Finished:     true,
			LongerBreak:  controller.longerBreak,
		}
		controller.longerBreak = false
		return display
	}

	interval := controller.intervals[controller.activeIndex]
	display := Display{
		TimerText:  FormatClock(interval.RemainingSeconds),
		PhaseLabel: phaseLabel(controller.status),
	}
	if count := len(controller.intervals); count > 1 {
		display.ProgressLabel = fmt.Sprintf("(%d of %d)", controller.activeIndex+1, count)
	}

	switch interval.Phase {
	case PhaseNotStarted, PhasePaused, PhaseCompleted:
		display.StartVisible = true
	case PhaseWorking, PhaseResting:
		display.PauseVisible = true
	}
	return display
}

func phaseLabel(status Status) string {
	switch status {
	case StatusWork:
		return "work"
	case StatusBreak:
		return "pause"
	case StatusNone, StatusDone:
		return ""
	}
	return ""
}
