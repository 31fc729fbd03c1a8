// Package notify implements the notification sink. The service runs
// headless, so notifications land in the structured log; the HTTP layer
// additionally echoes each outcome's message back to the caller.
package notify

import (
	"github.com/rs/zerolog"

	"github.com/spit-library/auth-service/internal/core/domain"
	"github.com/spit-library/auth-service/internal/core/ports"
)

// LogNotifier writes notifications to the structured log, fire-and-forget.
type LogNotifier struct {
	log zerolog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(kind domain.NoticeKind, message string) {
	evt := n.log.Info()
	if kind == domain.NoticeError {
		evt = n.log.Warn()
	}
	evt.Str("kind", string(kind)).Msg(message)
}
