// internal/auth/mailer.go
//
// Password reset delivery.

package auth

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Mailer delivers password reset tokens.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes reset tokens to the log instead of sending mail.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, email, token string) error {
	log.Info().Str("email", email).Str("token", token).Msg("password reset requested")
	return nil
}
