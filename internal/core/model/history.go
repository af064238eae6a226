package model

import "time"

// PhaseKind names the half of an interval that finished.
type PhaseKind string

const (
	PhaseWork  PhaseKind = "work"
	PhaseBreak PhaseKind = "break"
)

// PhaseRecord is written once per completed work or break phase.
type PhaseRecord struct {
	IntervalIndex int
	Kind          PhaseKind
	Seconds       int
	FinishedAt    time.Time
}
