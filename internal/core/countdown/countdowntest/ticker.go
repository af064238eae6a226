// Package countdowntest provides a manually driven ticker for countdown tests.
package countdowntest

import (
	"sync"
	"time"

	"pomobar/internal/core/countdown"
)

// DefaultWait bounds how long Fire waits for a tick loop to accept a tick.
const DefaultWait = time.Second

// Ticker is a countdown.Ticker whose ticks are delivered by Fire.
type Ticker struct {
	ch       chan time.Time
	mu       sync.Mutex
	stopped  bool
	Interval time.Duration
}

// C implements countdown.Ticker.
func (ticker *Ticker) C() <-chan time.Time {
	return ticker.ch
}

// Stop implements countdown.Ticker.
func (ticker *Ticker) Stop() {
	ticker.mu.Lock()
	ticker.stopped = true
	ticker.mu.Unlock()
}

// Stopped reports whether the owning loop released the ticker.
func (ticker *Ticker) Stopped() bool {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	return ticker.stopped
}

// Fire hands one tick to the loop reading this ticker.
// It returns false if no loop accepted the tick within wait.
func (ticker *Ticker) Fire(wait time.Duration) bool {
	select {
	case ticker.ch <- time.Now():
		return true
	case <-time.After(wait):
		return false
	}
}

// Factory records every ticker it creates.
type Factory struct {
	mu      sync.Mutex
	tickers []*Ticker
}

// NewFactory returns an empty Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewTicker matches countdown.TickerFunc.
func (factory *Factory) NewTicker(interval time.Duration) countdown.Ticker {
	ticker := &Ticker{ch: make(chan time.Time), Interval: interval}
	factory.mu.Lock()
	factory.tickers = append(factory.tickers, ticker)
	factory.mu.Unlock()
	return ticker
}

// Config returns a countdown.Config wired to this factory.
func (factory *Factory) Config() countdown.Config {
	return countdown.Config{TickInterval: time.Second, NewTicker: factory.NewTicker}
}

// Count returns the number of tickers created so far.
func (factory *Factory) Count() int {
	factory.mu.Lock()
	defer factory.mu.Unlock()
	return len(factory.tickers)
}

// Latest returns the most recently created ticker, or nil.
func (factory *Factory) Latest() *Ticker {
	factory.mu.Lock()
	defer factory.mu.Unlock()
	if len(factory.tickers) == 0 {
		return nil
	}
	return factory.tickers[len(factory.tickers)-1]
}
