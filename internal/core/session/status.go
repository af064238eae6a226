package session

// Status is the session-level state used to pick the next transition.
type Status string

const (
	StatusNone  Status = "none"
	StatusWork  Status = "work"
	StatusBreak Status = "break"
	StatusDone  Status = "done"
)

// Phase is the lifecycle state of a single interval.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseWorking    Phase = "working"
	PhasePaused     Phase = "paused"
	PhaseResting    Phase = "resting"
	PhaseCompleted  Phase = "completed"
)

// Message texts sent to the notification sink and shown on completion.
const (
	MessageWorkComplete     = "Great Work! Now let's give your eyes some break."
	MessageBreakComplete    = "Eyes rested! You can resume work now."
	MessageSequenceComplete = "Well done ! Your session is complete."
	MessageLongerBreak      = "Well done ! You should now take a longer break."
	MessageSessionOver      = "session over, start again ?"
)

// activePhase maps a running session status to the interval phase it implies.
func activePhase(status Status) Phase {
	switch status {
	case StatusWork:
		return PhaseWorking
	case StatusBreak:
		return PhaseResting
	case StatusNone:
		return PhaseNotStarted
	case StatusDone:
		return PhaseCompleted
	}
	return PhaseNotStarted
}
