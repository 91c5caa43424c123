package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers through an SMTP relay. A circuit breaker stops hammering
// a relay that keeps failing.
type SMTPSender struct {
	cb   *gobreaker.CircuitBreaker
	send func(*gomail.Message) error
}

func NewSMTPSender(host string, port int, user, pass string) *SMTPSender {
	d := gomail.NewDialer(host, port, user, pass)
	return newSMTPSender(d.DialAndSend)
}

func newSMTPSender(send func(m ...*gomail.Message) error) *SMTPSender {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return &SMTPSender{cb: cb, send: func(m *gomail.Message) error { return send(m) }}
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Text)
	if m.HTML != "" {
		msg.AddAlternative("text/html", m.HTML)
	}
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.send(msg)
	})
	if err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when no
// SMTP relay is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, m Message) error {
	log.Info().Str("to", m.To).Str("subject", m.Subject).Msg("simulating email send")
	log.Debug().Str("to", m.To).Msg(m.Text)
	return nil
}
