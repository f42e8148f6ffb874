package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/config"
)

// Service sends booking confirmations. Sending is best-effort: a failed
// email never fails the booking that triggered it.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to, studentName, date, timeSlot, room string) error
}

// NewService returns a gomail-backed sender, or a no-op sender when email
// is disabled in the config.
func NewService(cfg config.EmailConfig) Service {
	if !cfg.Enabled {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to, studentName, date, timeSlot, room string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Class booking confirmed")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour class is booked: %s at %s in %s.\n\nSee you there!",
		studentName, date, timeSlot, room,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

type noopService struct{}

func (s *noopService) SendBookingConfirmation(ctx context.Context, to, studentName, date, timeSlot, room string) error {
	return nil
}
