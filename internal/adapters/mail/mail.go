// Package mail renders the shop's emails and delivers them over SMTP or to the log.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Mailer implements domain.Mailer on top of a Sender.
type Mailer struct {
	From   string
	Sender Sender
}

func NewMailer(from string, s Sender) *Mailer {
	return &Mailer{From: from, Sender: s}
}

var orderTmpl = template.Must(template.New("order").Funcs(template.FuncMap{
	"money": domain.FormatMoney,
}).Parse(`<html><body>
<h1>Order number: {{.ID}}</h1>
<p>Instant: {{.Instant.Format "02/01/2006 15:04"}}</p>
{{with .Client}}<p>Client: {{.Name}}</p>{{end}}
{{with .Payment}}<p>Payment status: {{.Status}}</p>{{end}}
<table border="1">
<tr><th>Product</th><th>Quantity</th><th>Price</th><th>Subtotal</th></tr>
{{range .Items}}<tr><td>{{if .Product}}{{.Product.Name}}{{else}}{{.ProductID}}{{end}}</td><td>{{.Quantity}}</td><td>{{money .Price}}</td><td>{{money .Subtotal}}</td></tr>
{{end}}</table>
<p>Total: {{money .Total}}</p>
</body></html>`))

func (m *Mailer) SendOrderConfirmation(ctx context.Context, o *domain.Order) error {
	if o.Client == nil || o.Client.Email == "" {
		return fmt.Errorf("order %d has no client email", o.ID)
	}
	var html bytes.Buffer
	if err := orderTmpl.Execute(&html, o); err != nil {
		return fmt.Errorf("render order email: %w", err)
	}
	return m.Sender.Send(ctx, Message{
		From:    m.From,
		To:      o.Client.Email,
		Subject: fmt.Sprintf("Order confirmed! Number: %d", o.ID),
		Text:    o.String(),
		HTML:    html.String(),
	})
}

func (m *Mailer) SendNewPassword(ctx context.Context, c *domain.Client, newPassword string) error {
	return m.Sender.Send(ctx, Message{
		From:    m.From,
		To:      c.Email,
		Subject: "New password request",
		Text:    "New password: " + newPassword,
	})
}

var _ domain.Mailer = (*Mailer)(nil)
