package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pomobar/internal/core/countdown"
	"pomobar/internal/core/model"
)

const recordTimeout = 2 * time.Second

// Dependencies are the collaborators a Controller reports to.
// Display and Notifier default to no-ops; Recorder is optional.
type Dependencies struct {
	Display  DisplaySink
	Notifier Notifier
	Recorder Recorder
}

// Options contains runtime options for Controller.
type Options struct {
	Timer countdown.Config
	Now   func() time.Time
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	Status      Status
	ActiveIndex int
	Intervals   []Interval
	Completed   int
	Running     bool
}

// Controller sequences the intervals of one session. It owns its countdown timer.
type Controller struct {
	mu          sync.Mutex
	config      model.SessionConfig
	deps        Dependencies
	now         func() time.Time
	timer       *countdown.Timer
	intervals   []Interval
	activeIndex int
	status      Status
	completed   int
	longerBreak bool
	disposed    bool
}

// New validates the configuration and builds a Controller in the None state.
func New(config model.SessionConfig, deps Dependencies, options Options) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if deps.Display == nil {
		deps.Display = nopDisplay{}
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	controller := &Controller{
		config: config,
		deps:   deps,
		now:    options.Now,
		timer:  countdown.New(options.Timer),
	}

	controller.mu.Lock()
	controller.resetLocked()
	controller.drawLocked()
	controller.mu.Unlock()
	return controller, nil
}

// Start begins or resumes the active phase. A finished session is reset first.
func (controller *Controller) Start() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.disposed {
		return
	}

	switch controller.status {
	case StatusDone:
		controller.resetLocked()
		controller.beginLocked()
	case StatusNone:
		controller.beginLocked()
	case StatusWork, StatusBreak:
		controller.current().Phase = activePhase(controller.status)
	}

	controller.armLocked()
	controller.drawLocked()
}

// Pause stops ticking without touching status or remaining time.
func (controller *Controller) Pause() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.disposed {
		return
	}

	switch controller.status {
	case StatusWork, StatusBreak:
	case StatusNone, StatusDone:
		return
	}

	controller.timer.Stop()
	// The tick that reached zero may not have run its transition yet.
	if controller.timer.Current() <= 0 {
		controller.transitionLocked()
		if controller.status == StatusDone {
			controller.drawLocked()
			return
		}
	}
	interval := controller.current()
	interval.setRemaining(controller.timer.Current())
	interval.Phase = PhasePaused
	log.Debug().Int("index", controller.activeIndex).Int("remaining", interval.RemainingSeconds).Msg("Session paused")
	controller.drawLocked()
}

// Reset rebuilds the interval sequence from configuration.
// An invalid configuration is rejected and the current session kept.
func (controller *Controller) Reset() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.disposed {
		return nil
	}
	if err := controller.config.Validate(); err != nil {
		return err
	}

	controller.resetLocked()
	controller.drawLocked()
	return nil
}

// SetConfig replaces the configuration and resets the session.
func (controller *Controller) SetConfig(config model.SessionConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("apply configuration: %w", err)
	}

	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.disposed {
		return nil
	}

	controller.config = config
	controller.resetLocked()
	controller.drawLocked()
	return nil
}

// Reload applies config unless it schedules the same session as the current one.
// It reports whether the session was reset.
func (controller *Controller) Reload(config model.SessionConfig) (bool, error) {
	if err := config.Validate(); err != nil {
		return false, fmt.Errorf("apply configuration: %w", err)
	}

	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.disposed || controller.config.Equal(config) {
		return false, nil
	}

	controller.config = config
	controller.resetLocked()
	controller.drawLocked()
	return true, nil
}

// Dispose stops the timer, resets the session and releases the display.
// Later calls and stale ticks are ignored.
func (controller *Controller) Dispose() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.disposed {
		return
	}

	controller.timer.Stop()
	controller.resetLocked()
	controller.disposed = true
	controller.deps.Display.Dispose()
	log.Debug().Int("completed", controller.completed).Msg("Session disposed")
}

// Render computes the current display. It consumes the longer-break flag.
func (controller *Controller) Render() Display {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.renderLocked()
}

// Snapshot returns a copy of the session state.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	return Snapshot{
		Status:      controller.status,
		ActiveIndex: controller.activeIndex,
		Intervals:   append([]Interval(nil), controller.intervals...),
		Completed:   controller.completed,
		Running:     controller.timer.IsRunning(),
	}
}

func (controller *Controller) onTick() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	// A tick decremented before Pause/Reset/Dispose took the lock is stale.
	if controller.disposed || !controller.timer.IsRunning() {
		return
	}
	switch controller.status {
	case StatusWork, StatusBreak:
	case StatusNone, StatusDone:
		return
	}

	remaining := controller.timer.Current()
	controller.current().setRemaining(remaining)
	if remaining <= 0 {
		controller.advanceLocked()
	}
	controller.drawLocked()
}

// advanceLocked applies the pending transitions and arms the next phase.
func (controller *Controller) advanceLocked() {
	controller.transitionLocked()
	if controller.status == StatusDone {
		return
	}

	if !controller.config.ManualAdvance {
		controller.armLocked()
		return
	}
	controller.current().Phase = PhasePaused
}

// transitionLocked applies transitions until the loaded phase has time left or the session is done.
func (controller *Controller) transitionLocked() {
	for controller.timer.Current() <= 0 {
		switch controller.status {
		case StatusWork:
			controller.finishWorkLocked()
		case StatusBreak:
			controller.finishBreakLocked()
		case StatusNone, StatusDone:
			return
		}
	}
}

func (controller *Controller) finishWorkLocked() {
	interval := controller.current()
	controller.recordLocked(model.PhaseWork, interval.WorkSeconds)
	log.Info().Int("index", controller.activeIndex).Msg("Work phase complete")
	controller.deps.Notifier.Notify(MessageWorkComplete)

	controller.status = StatusBreak
	interval.Phase = PhaseResting
	interval.RemainingSeconds = interval.BreakSeconds
	controller.timer.Reset(interval.BreakSeconds)
}

func (controller *Controller) finishBreakLocked() {
	interval := controller.current()
	controller.recordLocked(model.PhaseBreak, interval.BreakSeconds)
	log.Info().Int("index", controller.activeIndex).Msg("Break phase complete")
	controller.deps.Notifier.Notify(MessageBreakComplete)
	interval.complete()

	if controller.activeIndex < len(controller.intervals)-1 {
		controller.activeIndex++
		controller.beginLocked()
		return
	}

	controller.timer.Stop()
	controller.status = StatusDone
	controller.completed++
	controller.longerBreak = len(controller.intervals) > 1
	log.Info().Int("completed", controller.completed).Int("intervals", len(controller.intervals)).Msg("Session complete")
	if !controller.longerBreak {
		controller.deps.Notifier.Notify(MessageSequenceComplete)
	}
}

// beginLocked loads the work phase of the active interval.
func (controller *Controller) beginLocked() {
	interval := controller.current()
	controller.status = StatusWork
	interval.Phase = PhaseWorking
	interval.RemainingSeconds = interval.WorkSeconds
	controller.timer.Reset(interval.WorkSeconds)
}

func (controller *Controller) armLocked() {
	err := controller.timer.Start(controller.onTick)
	if errors.Is(err, countdown.ErrAlreadyRunning) {
		log.Debug().Str("status", string(controller.status)).Msg("Session already ticking")
	}
}

func (controller *Controller) resetLocked() {
	controller.timer.Stop()
	controller.intervals = buildIntervals(controller.config)
	controller.activeIndex = 0
	controller.status = StatusNone
	controller.longerBreak = false
	controller.timer.Reset(controller.intervals[0].WorkSeconds)
}

func (controller *Controller) recordLocked(kind model.PhaseKind, seconds int) {
	if controller.deps.Recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	record := model.PhaseRecord{
		IntervalIndex: controller.activeIndex,
		Kind:          kind,
		Seconds:       seconds,
		FinishedAt:    controller.now(),
	}
	if err := controller.deps.Recorder.Record(ctx, record); err != nil {
		log.Warn().Err(err).Str("phase", string(kind)).Msg("Failed to record phase")
	}
}

func (controller *Controller) drawLocked() {
	display := controller.renderLocked()
	if display.LongerBreak {
		controller.deps.Notifier.Notify(MessageLongerBreak)
	}
	controller.deps.Display.Render(display)
}

func (controller *Controller) current() *Interval {
	return &controller.intervals[controller.activeIndex]
}
