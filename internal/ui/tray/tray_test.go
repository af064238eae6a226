package tray

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/suite"

	"pomobar/internal/core/session"
)

// ManagerSuite is a test suite for the tray Manager.
type ManagerSuite struct {
	suite.Suite
	manager *Manager
	titles  []string
	started int
	paused  int
	quit    int
}

func (s *ManagerSuite) SetupTest() {
	s.titles = nil
	s.started, s.paused, s.quit = 0, 0, 0
	s.manager = New(nil, Callbacks{
		OnStart: func() { s.started++ },
		OnPause: func() { s.paused++ },
		OnQuit:  func() { s.quit++ },
	})
	s.manager.do = func(fn func()) { fn() }
	s.manager.setTitle = func(title string) { s.titles = append(s.titles, title) }
	s.manager.setTip = func(string) {}
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) labels(menu *fyne.Menu) []string {
	labels := make([]string, 0, len(menu.Items))
	for _, item := range menu.Items {
		if item.IsSeparator {
			continue
		}
		labels = append(labels, item.Label)
	}
	return labels
}

func (s *ManagerSuite) find(menu *fyne.Menu, label string) *fyne.MenuItem {
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	return nil
}

// TestRenderRunning tests the menu of a ticking session.
func (s *ManagerSuite) TestRenderRunning() {
	s.manager.Render(session.Display{
		TimerText:     "02:05",
		PhaseLabel:    "work",
		ProgressLabel: "(1 of 2)",
		PauseVisible:  true,
	})

	s.Equal([]string{"02:05 - work (1 of 2)"}, s.titles)
	menu := s.manager.Menu()
	s.Equal([]string{
		"02:05 - work (1 of 2)",
		"Pause Session",
		"Reset",
		"Completed today: 0",
		"Edit settings",
		"Quit",
	}, s.labels(menu))
	s.True(menu.Items[0].Disabled)

	s.find(menu, "Pause Session").Action()
	s.Equal(1, s.paused)
	s.Equal(0, s.started)
}

// TestRenderIdle tests the start binding.
func (s *ManagerSuite) TestRenderIdle() {
	s.manager.Render(session.Display{TimerText: "25:00", StartVisible: true})

	menu := s.manager.Menu()
	s.NotNil(s.find(menu, "Start Session"))
	s.Nil(s.find(menu, "Pause Session"))

	s.find(menu, "Start Session").Action()
	s.Equal(1, s.started)
}

// TestMissingCallbacksAreSafe tests nil handlers.
func (s *ManagerSuite) TestMissingCallbacksAreSafe() {
	s.manager.Render(session.Display{TimerText: "25:00", StartVisible: true})
	menu := s.manager.Menu()

	s.NotPanics(func() {
		s.find(menu, "Reset").Action()
		s.find(menu, "Edit settings").Action()
	})
}

// TestSetCompleted tests the completed counter label.
func (s *ManagerSuite) TestSetCompleted() {
	s.manager.SetCompleted(4)
	s.NotNil(s.find(s.manager.Menu(), "Completed today: 4"))
}

// TestDispose tests that renders after disposal are dropped.
func (s *ManagerSuite) TestDispose() {
	s.manager.Render(session.Display{TimerText: "25:00", StartVisible: true})
	s.manager.Dispose()
	s.manager.Render(session.Display{TimerText: "24:59", PauseVisible: true})

	s.Equal([]string{"25:00", ""}, s.titles)

	quit := s.manager.quitItem()
	s.True(quit.IsQuit)
	quit.Action()
	s.Equal(1, s.quit)
}
