package services

import (
	"fmt"

	"go.uber.org/zap"
)

// EmailService delivers password reset links out-of-band. Delivery is
// simulated; wire an SMTP client here for production use.
type EmailService struct {
	log *zap.Logger
}

func NewEmailService(log *zap.Logger) *EmailService {
	return &EmailService{log: log}
}

// SendResetEmail sends a password reset link to the given address.
func (s *EmailService) SendResetEmail(email, token string) {
	s.log.Info("Sending password reset email",
		zap.String("to", email),
	)
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: Password reset\nFollow this link to reset your password: /reset-password?token=%s\n\n", email, token)
}
