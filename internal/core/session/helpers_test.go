package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"pomobar/internal/core/countdown/countdowntest"
	"pomobar/internal/core/model"
)

var errTickTimeout = errors.New("tick was not rendered")

type recordingDisplay struct {
	mu       sync.Mutex
	renders  chan Display
	last     Display
	count    int
	disposed bool
}

func newRecordingDisplay() *recordingDisplay {
	return &recordingDisplay{renders: make(chan Display, 256)}
}

func (display *recordingDisplay) Render(update Display) {
	display.mu.Lock()
	display.last = update
	display.count++
	display.mu.Unlock()

	select {
	case display.renders <- update:
	default:
	}
}

func (display *recordingDisplay) Dispose() {
	display.mu.Lock()
	display.disposed = true
	display.mu.Unlock()
}

func (display *recordingDisplay) Last() Display {
	display.mu.Lock()
	defer display.mu.Unlock()
	return display.last
}

func (display *recordingDisplay) Disposed() bool {
	display.mu.Lock()
	defer display.mu.Unlock()
	return display.disposed
}

func (display *recordingDisplay) drain() {
	for {
		select {
		case <-display.renders:
		default:
			return
		}
	}
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (notifier *recordingNotifier) Notify(message string) {
	notifier.mu.Lock()
	notifier.messages = append(notifier.messages, message)
	notifier.mu.Unlock()
}

func (notifier *recordingNotifier) Messages() []string {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return append([]string(nil), notifier.messages...)
}

type recordingRecorder struct {
	mu      sync.Mutex
	records []model.PhaseRecord
	err     error
}

func (recorder *recordingRecorder) Record(_ context.Context, record model.PhaseRecord) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.records = append(recorder.records, record)
	return recorder.err
}

func (recorder *recordingRecorder) Kinds() []model.PhaseKind {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	kinds := make([]model.PhaseKind, 0, len(recorder.records))
	for _, record := range recorder.records {
		kinds = append(kinds, record.Kind)
	}
	return kinds
}

// fireTick delivers one tick to the live loop and waits for the render it causes.
func fireTick(factory *countdowntest.Factory, display *recordingDisplay) (Display, error) {
	display.drain()
	ticker := factory.Latest()
	if ticker == nil || !ticker.Fire(countdowntest.DefaultWait) {
		return Display{}, errTickTimeout
	}
	select {
	case update := <-display.renders:
		return update, nil
	case <-time.After(time.Second):
		return Display{}, errTickTimeout
	}
}

func seconds(pairs ...int) model.SessionConfig {
	var config model.SessionConfig
	for i := 0; i+1 < len(pairs); i += 2 {
		config.Pomodori = append(config.Pomodori, model.IntervalConfig{
			Work:  time.Duration(pairs[i]) * time.Second,
			Pause: time.Duration(pairs[i+1]) * time.Second,
		})
	}
	return config
}
