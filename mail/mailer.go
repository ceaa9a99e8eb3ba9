// Package mail defines the outbound notification hook used on account
// events. The default implementation only logs; a real SMTP or
// provider-backed Mailer can be swapped in behind the same interface.
package mail

import (
	"context"

	"github.com/skillsenselab/identity/logger"
	"github.com/skillsenselab/identity/model"
)

// Mailer delivers account lifecycle notifications.
type Mailer interface {
	SendWelcome(ctx context.Context, user *model.User) error
	SendPasswordChanged(ctx context.Context, user *model.User) error
}

// LogMailer writes notifications to the log instead of sending mail.
// Used in development and as a safe default.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer builds a logging mailer.
func NewLogMailer(log *logger.Logger) *LogMailer {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &LogMailer{log: log.WithComponent("mail")}
}

func (m *LogMailer) SendWelcome(_ context.Context, user *model.User) error {
	m.log.Info("welcome mail", map[string]interface{}{
		logger.FieldUserID: user.ID,
		"email":            user.Email,
	})
	return nil
}

func (m *LogMailer) SendPasswordChanged(_ context.Context, user *model.User) error {
	m.log.Info("password changed mail", map[string]interface{}{
		logger.FieldUserID: user.ID,
		"email":            user.Email,
	})
	return nil
}
