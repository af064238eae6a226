package countdown_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pomobar/internal/core/countdown"
	"pomobar/internal/core/countdown/countdowntest"
)

// TimerSuite is a test suite for Timer operations.
type TimerSuite struct {
	suite.Suite
	factory *countdowntest.Factory
	timer   *countdown.Timer
	ticks   chan int
}

func (s *TimerSuite) SetupTest() {
	s.factory = countdowntest.NewFactory()
	s.timer = countdown.New(s.factory.Config())
	s.ticks = make(chan int, 64)
}

func (s *TimerSuite) TearDownTest() {
	s.timer.Stop()
}

func TestTimerSuite(t *testing.T) {
	suite.Run(t, new(TimerSuite))
}

func (s *TimerSuite) callback() {
	s.ticks <- s.timer.Current()
}

// fire delivers one tick and waits for the callback it produces.
func (s *TimerSuite) fire() int {
	s.Require().True(s.factory.Latest().Fire(countdowntest.DefaultWait), "tick not accepted")
	select {
	case value := <-s.ticks:
		return value
	case <-time.After(time.Second):
		s.FailNow("callback not invoked")
		return 0
	}
}

func (s *TimerSuite) TestDefaults() {
	timer := countdown.New(countdown.Config{})
	s.False(timer.IsRunning())
	s.Equal(0, timer.Current())
}

func (s *TimerSuite) TestResetLoadsValue() {
	s.timer.Reset(125)
	s.Equal(125, s.timer.Current())
	s.False(s.timer.IsRunning())
}

func (s *TimerSuite) TestTickDecrementsThenCallsBack() {
	s.timer.Reset(3)
	s.Require().NoError(s.timer.Start(s.callback))
	s.True(s.timer.IsRunning())
	s.Equal(time.Second, s.factory.Latest().Interval)

	s.Equal(2, s.fire())
	s.Equal(1, s.fire())
	s.Equal(0, s.fire())
}

func (s *TimerSuite) TestDoesNotStopAtZero() {
	s.timer.Reset(1)
	s.Require().NoError(s.timer.Start(s.callback))

	s.Equal(0, s.fire())
	s.Equal(-1, s.fire())
	s.True(s.timer.IsRunning())
}

func (s *TimerSuite) TestSecondStartIsRejected() {
	s.timer.Reset(10)
	s.Require().NoError(s.timer.Start(s.callback))

	err := s.timer.Start(s.callback)
	s.ErrorIs(err, countdown.ErrAlreadyRunning)
	s.Equal(1, s.factory.Count())

	const elapsed = 4
	for i := 0; i < elapsed; i++ {
		s.fire()
	}
	s.Equal(10-elapsed, s.timer.Current())
	s.Empty(s.ticks)
}

func (s *TimerSuite) TestStopHaltsTicks() {
	s.timer.Reset(10)
	s.Require().NoError(s.timer.Start(s.callback))
	s.fire()

	ticker := s.factory.Latest()
	s.timer.Stop()
	s.False(s.timer.IsRunning())
	s.Eventually(ticker.Stopped, time.Second, 10*time.Millisecond)
	s.False(ticker.Fire(50 * time.Millisecond))
	s.Equal(9, s.timer.Current())
}

func (s *TimerSuite) TestStopIsIdempotent() {
	s.timer.Stop()
	s.timer.Stop()
	s.False(s.timer.IsRunning())
}

func (s *TimerSuite) TestRestartAfterStop() {
	s.timer.Reset(5)
	s.Require().NoError(s.timer.Start(s.callback))
	s.fire()
	s.timer.Stop()

	s.Require().NoError(s.timer.Start(s.callback))
	s.Equal(2, s.factory.Count())
	s.Equal(3, s.fire())
}

func (s *TimerSuite) TestResetStopsLoop() {
	s.timer.Reset(5)
	s.Require().NoError(s.timer.Start(s.callback))
	s.timer.Reset(60)

	s.False(s.timer.IsRunning())
	s.Equal(60, s.timer.Current())
}

func (s *TimerSuite) TestPanickingCallbackKeepsLoopAlive() {
	s.timer.Reset(5)
	calls := make(chan struct{}, 4)
	s.Require().NoError(s.timer.Start(func() {
		calls <- struct{}{}
		panic("boom")
	}))

	ticker := s.factory.Latest()
	for i := 0; i < 2; i++ {
		s.Require().True(ticker.Fire(countdowntest.DefaultWait))
		select {
		case <-calls:
		case <-time.After(time.Second):
			s.FailNow("callback not invoked")
		}
	}
	s.True(s.timer.IsRunning())
	s.Eventually(func() bool { return s.timer.Current() == 3 }, time.Second, 10*time.Millisecond)
}

func TestSystemTickerTicks(t *testing.T) {
	timer := countdown.New(countdown.Config{TickInterval: 10 * time.Millisecond})
	timer.Reset(100)
	done := make(chan struct{}, 8)
	if err := timer.Start(func() { done <- struct{}{} }); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer timer.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("system ticker never fired")
	}
	if timer.Current() >= 100 {
		t.Fatalf("expected a decrement, got %d", timer.Current())
	}
}
