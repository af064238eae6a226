package countdown

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrAlreadyRunning indicates Start was called while a tick loop is active.
var ErrAlreadyRunning = errors.New("a timer instance is already running")

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every interval.
type TickerFunc func(interval time.Duration) Ticker

// Config contains runtime options for Timer.
type Config struct {
	TickInterval time.Duration
	NewTicker    TickerFunc
}

// Timer counts a whole-second value down, one unit per tick.
type Timer struct {
	mu      sync.Mutex
	options Config
	current int
	stopCh  chan struct{}
	running bool
}

// New creates an idle Timer.
func New(options Config) *Timer {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.NewTicker == nil {
		options.NewTicker = newSystemTicker
	}
	return &Timer{options: options}
}

// Reset stops any active loop and loads a new value.
func (timer *Timer) Reset(seconds int) {
	timer.mu.Lock()
	timer.stopLocked()
	timer.current = seconds
	timer.mu.Unlock()
}

// Start arms the tick loop. Each tick decrements the value and then calls callback.
// The value is not clamped: callbacks must check Current() <= 0 themselves.
func (timer *Timer) Start(callback func()) error {
	timer.mu.Lock()
	if timer.running {
		timer.mu.Unlock()
		log.Warn().Err(ErrAlreadyRunning).Msg("Timer start ignored")
		return ErrAlreadyRunning
	}
	stopCh := make(chan struct{})
	timer.stopCh = stopCh
	timer.running = true
	ticker := timer.options.NewTicker(timer.options.TickInterval)
	timer.mu.Unlock()

	go timer.run(ticker, stopCh, callback)
	return nil
}

// Stop cancels the tick loop. It is safe to call on an idle timer.
func (timer *Timer) Stop() {
	timer.mu.Lock()
	timer.stopLocked()
	timer.mu.Unlock()
}

// IsRunning reports whether a tick loop is scheduled.
func (timer *Timer) IsRunning() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.running
}

// Current returns the remaining value in seconds.
func (timer *Timer) Current() int {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.current
}

func (timer *Timer) stopLocked() {
	if !timer.running {
		return
	}
	close(timer.stopCh)
	timer.stopCh = nil
	timer.running = false
}

func (timer *Timer) run(ticker Ticker, stopCh chan struct{}, callback func()) {
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C():
			if !timer.tick(stopCh) {
				return
			}
			invoke(callback)
		}
	}
}

// tick decrements under the lock so that no decrement lands after Stop returns.
func (timer *Timer) tick(stopCh chan struct{}) bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	select {
	case <-stopCh:
		return false
	default:
	}
	timer.current--
	return true
}

func invoke(callback func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error().Interface("panic", recovered).Msg("Timer callback panicked")
		}
	}()
	if callback != nil {
		callback()
	}
}

type systemTicker struct {
	ticker *time.Ticker
}

func newSystemTicker(interval time.Duration) Ticker {
	return systemTicker{ticker: time.NewTicker(interval)}
}

func (ticker systemTicker) C() <-chan time.Time {
	return ticker.ticker.C
}

func (ticker systemTicker) Stop() {
	ticker.ticker.Stop()
}
