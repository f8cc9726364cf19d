package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

// AppName prefixes every notification title
const AppName = "Listen Transcriber"

// Notifier shows desktop notifications. A disabled notifier only logs.
type Notifier struct {
	enabled bool
	log     zerolog.Logger
	send    func(title, message, icon string) error
}

// New creates a notifier; when enabled is false notifications are dropped
func New(enabled bool, log zerolog.Logger) *Notifier {
	return &Notifier{
		enabled: enabled,
		log:     log,
		send: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

// Notify shows a notification. Failures are logged and returned.
func (n *Notifier) Notify(title, message string) error {
	if !n.enabled {
		return nil
	}
	if err := n.send(AppName+": "+title, message, ""); err != nil {
		n.log.Warn().Err(err).Str("title", title).Msg("Notification failed")
		return err
	}
	return nil
}
