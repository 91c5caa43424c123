package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type recorder struct {
	sent []Message
	err  error
}

func (r *recorder) Send(_ context.Context, m Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m)
	return nil
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:      7,
		Instant: time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		Client:  &domain.Client{Name: "Maria Silva", Email: "maria@cursomc.com"},
		Payment: &domain.Payment{Status: domain.PaymentPending, Method: &domain.Card{Installments: 3}},
		Items: []domain.Item{
			{ProductID: 1, Product: &domain.Product{Name: "Computer"}, Quantity: 1, Price: 2000},
			{ProductID: 3, Product: &domain.Product{Name: "Mouse"}, Quantity: 2, Price: 80},
		},
	}
}

func TestMailer_OrderConfirmation(t *testing.T) {
	rec := &recorder{}
	m := NewMailer("shop@cursomc.com", rec)

	require.NoError(t, m.SendOrderConfirmation(context.Background(), sampleOrder()))
	require.Len(t, rec.sent, 1)

	msg := rec.sent[0]
	assert.Equal(t, "shop@cursomc.com", msg.From)
	assert.Equal(t, "maria@cursomc.com", msg.To)
	assert.Equal(t, "Order confirmed! Number: 7", msg.Subject)
	assert.Contains(t, msg.Text, "Total: R$ 2.160,00")
	assert.Contains(t, msg.HTML, "<td>Mouse</td>")
	assert.Contains(t, msg.HTML, "R$ 160,00")
	assert.Contains(t, msg.HTML, "Maria Silva")
}

func TestMailer_OrderWithoutClientEmail(t *testing.T) {
	rec := &recorder{}
	o := sampleOrder()
	o.Client = nil

	err := NewMailer("shop@cursomc.com", rec).SendOrderConfirmation(context.Background(), o)

	require.Error(t, err)
	assert.Empty(t, rec.sent)
}

func TestMailer_NewPassword(t *testing.T) {
	rec := &recorder{}
	c := &domain.Client{Email: "ana@cursomc.com"}

	require.NoError(t, NewMailer("shop@cursomc.com", rec).SendNewPassword(context.Background(), c, "s3cr3tpass"))
	require.Len(t, rec.sent, 1)
	assert.Equal(t, "ana@cursomc.com", rec.sent[0].To)
	assert.Equal(t, "New password: s3cr3tpass", rec.sent[0].Text)
}

func TestMailer_PropagatesSenderError(t *testing.T) {
	boom := errors.New("relay down")
	err := NewMailer("x@y.z", &recorder{err: boom}).SendNewPassword(context.Background(), &domain.Client{Email: "a@b.c"}, "p")
	assert.ErrorIs(t, err, boom)
}

func TestSMTPSender_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	s := newSMTPSender(func(...*gomail.Message) error {
		calls++
		return errors.New("connection refused")
	})
	msg := Message{From: "a@b.c", To: "d@e.f", Subject: "s", Text: "t"}

	for i := 0; i < 3; i++ {
		require.Error(t, s.Send(context.Background(), msg))
	}
	err := s.Send(context.Background(), msg)

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, calls)
}

func TestSMTPSender_BuildsMessage(t *testing.T) {
	var got *gomail.Message
	s := newSMTPSender(func(ms ...*gomail.Message) error {
		got = ms[0]
		return nil
	})

	require.NoError(t, s.Send(context.Background(), Message{From: "a@b.c", To: "d@e.f", Subject: "Hello", Text: "body", HTML: "<p>body</p>"}))
	require.NotNil(t, got)
	assert.Equal(t, []string{"d@e.f"}, got.GetHeader("To"))
	assert.Equal(t, []string{"Hello"}, got.GetHeader("Subject"))
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	s := newSMTPSender(func(...*gomail.Message) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, Message{}), context.Canceled)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, LogSender{}.Send(context.Background(), Message{To: "a@b.c", Subject: "s"}))
}
