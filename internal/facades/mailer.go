package facades

import (
	"context"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
)

// MailConfig carries the SMTP settings a real sender would use.
type MailConfig struct {
	Username string
	Password string
	From     string
	Server   string
	Port     int
}

// DevMailFacade logs outbound mail instead of delivering it. It stands
// in for a real SMTP sender during development; delivery itself is an
// external concern.
type DevMailFacade struct {
	cfg MailConfig
}

// NewDevMailFacade creates a mail facade that logs instead of sending.
func NewDevMailFacade(cfg MailConfig) *DevMailFacade {
	return &DevMailFacade{cfg: cfg}
}

// SendPasswordReset logs the reset mail that would be sent.
func (f *DevMailFacade) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	from := f.cfg.From
	if from == "" {
		from = f.cfg.Username
	}

	logger.Log.Infow("password reset mail (development mode, not sent)",
		"from", from,
		"to", email,
		"subject", "Password reset",
		"reset_url", resetURL,
	)
	return nil
}
