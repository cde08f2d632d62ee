package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/hospital-api/internal/config"
)

type Service interface {
	SendAppointmentConfirmation(ctx context.Context, to string, c Confirmation) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

// Confirmation describes a scheduled visit for the patient mail.
type Confirmation struct {
	PatientName string
	DoctorName  string
	Date        string
	Time        string
	Reason      string
}

func (c Confirmation) body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Dear %s,</p>", c.PatientName)
	fmt.Fprintf(&b, "<p>Your appointment with %s is scheduled for %s at %s.</p>", c.DoctorName, c.Date, c.Time)
	if c.Reason != "" {
		fmt.Fprintf(&b, "<p>Reason: %s</p>", c.Reason)
	}
	b.WriteString("<p>Please arrive 10 minutes early.</p>")
	return b.String()
}

type smtpService struct {
	from string
	dial func() (gomail.SendCloser, error)
}

// New returns an SMTP sender, or a sender that only logs when SMTP is not
// configured.
func New(cfg config.SMTPConfig) Service {
	if !cfg.Enabled() {
		return NewNoop()
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &smtpService{from: cfg.From, dial: dialer.Dial}
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, to string, c Confirmation) error {
	return s.SendCustom(ctx, to, "Appointment confirmation", c.body())
}

func (s *smtpService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", content)

	sender, err := s.dial()
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer sender.Close()

	if err := gomail.Send(sender, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type noopService struct{}

func NewNoop() Service {
	return noopService{}
}

func (noopService) SendAppointmentConfirmation(ctx context.Context, to string, c Confirmation) error {
	return noopService{}.SendCustom(ctx, to, "Appointment confirmation", c.body())
}

func (noopService) SendCustom(_ context.Context, to string, subject string, _ string) error {
	log.Debug().Str("to", to).Str("subject", subject).Msg("smtp disabled, email not sent")
	return nil
}
