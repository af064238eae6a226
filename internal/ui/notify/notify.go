// Package notify delivers session messages as desktop notifications.
package notify

import (
	"fyne.io/fyne/v2"
	"github.com/rs/zerolog/log"
)

// Desktop implements session.Notifier on top of the fyne notification API.
type Desktop struct {
	app   fyne.App
	title string
}

// New creates a notifier that posts through app.
func New(app fyne.App, title string) *Desktop {
	return &Desktop{app: app, title: title}
}

// Notify shows message as a one-shot notification.
func (desktop *Desktop) Notify(message string) {
	log.Info().Str("message", message).Msg("Notification")
	if desktop.app == nil {
		return
	}
	desktop.app.SendNotification(fyne.NewNotification(desktop.title, message))
}
