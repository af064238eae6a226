package model

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	DefaultWork  = 25 * time.Minute
	DefaultPause = 5 * time.Minute
)

// ErrInvalidConfiguration indicates an interval that cannot be scheduled.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// IntervalConfig defines one work/break pair.
type IntervalConfig struct {
	Work  time.Duration
	Pause time.Duration
}

// SessionConfig contains runtime settings for a session sequence.
// An empty Pomodori list means a single default interval.
// With ManualAdvance set, each new phase waits for Start instead of ticking right away.
type SessionConfig struct {
	Pomodori      []IntervalConfig
	ManualAdvance bool
}

// ConfigError describes the interval entry that failed validation.
type ConfigError struct {
	Index int
	Field string
	Value time.Duration
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf("%s: pomodoro %d has %s %s", ErrInvalidConfiguration, err.Index+1, err.Field, err.Value)
}

func (err *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() SessionConfig {
	return SessionConfig{}
}

// DefaultInterval is the single interval used for an empty configuration.
func DefaultInterval() IntervalConfig {
	return IntervalConfig{Work: DefaultWork, Pause: DefaultPause}
}

// Validate rejects entries with a work time under one second or a negative pause.
func (config SessionConfig) Validate() error {
	for index, entry := range config.Pomodori {
		if entry.Work < time.Second {
			return &ConfigError{Index: index, Field: "work", Value: entry.Work}
		}
		if entry.Pause < 0 {
			return &ConfigError{Index: index, Field: "pause", Value: entry.Pause}
		}
	}
	return nil
}

// Equal reports whether both configurations schedule the same session.
func (config SessionConfig) Equal(other SessionConfig) bool {
	return config.ManualAdvance == other.ManualAdvance && slices.Equal(config.Pomodori, other.Pomodori)
}

// Intervals returns the effective interval list, falling back to the default interval.
func (config SessionConfig) Intervals() []IntervalConfig {
	if len(config.Pomodori) == 0 {
		return []IntervalConfig{DefaultInterval()}
	}
	return append([]IntervalConfig(nil), config.Pomodori...)
}
