package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// BoletoTerm is the time a bank slip stays payable after the order is placed.
const BoletoTerm = 7 * 24 * time.Hour

// PaymentMethod is either *Boleto or *Card.
type PaymentMethod interface {
	kind() string
}

type Boleto struct {
	DueDate time.Time
	PaidAt  *time.Time
}

type Card struct {
	Installments int
}

func (*Boleto) kind() string { return "boleto" }
func (*Card) kind() string   { return "card" }

// Payment is stored in a single table: Kind is the discriminator and the
// Boleto*/Card* columns hold the variant fields. Method is the in-memory view
// and is kept in sync by the gorm hooks below.
type Payment struct {
	ID      uint          `gorm:"primaryKey"`
	OrderID uint          `gorm:"uniqueIndex;not null"`
	Status  PaymentStatus `gorm:"type:varchar(20);not null"`
	Method  PaymentMethod `gorm:"-"`

	Kind             string `gorm:"type:varchar(10);not null"`
	BoletoDueDate    *time.Time
	BoletoPaidAt     *time.Time
	CardInstallments *int
}

func (p *Payment) BeforeSave(*gorm.DB) error {
	p.BoletoDueDate, p.BoletoPaidAt, p.CardInstallments = nil, nil, nil
	switch m := p.Method.(type) {
	case *Boleto:
		due := m.DueDate
		p.Kind = m.kind()
		p.BoletoDueDate = &due
		p.BoletoPaidAt = m.PaidAt
	case *Card:
		n := m.Installments
		p.Kind = m.kind()
		p.CardInstallments = &n
	default:
		return fmt.Errorf("%w: payment %d has no method", ErrValidation, p.ID)
	}
	return nil
}

func (p *Payment) AfterFind(*gorm.DB) error {
	switch p.Kind {
	case "boleto":
		b := &Boleto{PaidAt: p.BoletoPaidAt}
		if p.BoletoDueDate != nil {
			b.DueDate = *p.BoletoDueDate
		}
		p.Method = b
	case "card":
		c := &Card{}
		if p.CardInstallments != nil {
			c.Installments = *p.CardInstallments
		}
		p.Method = c
	default:
		return fmt.Errorf("payment %d: unknown kind %q", p.ID, p.Kind)
	}
	return nil
}

type paymentJSON struct {
	ID           uint          `json:"id,omitempty"`
	Status       PaymentStatus `json:"status,omitempty"`
	Type         string        `json:"type"`
	DueDate      *time.Time    `json:"dueDate,omitempty"`
	PaidAt       *time.Time    `json:"paidAt,omitempty"`
	Installments int           `json:"installments,omitempty"`
}

func (p Payment) MarshalJSON() ([]byte, error) {
	out := paymentJSON{ID: p.ID, Status: p.Status}
	switch m := p.Method.(type) {
	case *Boleto:
		due := m.DueDate
		out.Type = m.kind()
		out.DueDate = &due
		out.PaidAt = m.PaidAt
	case *Card:
		out.Type = m.kind()
		out.Installments = m.Installments
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a draft payment; the "type" field selects the variant.
func (p *Payment) UnmarshalJSON(b []byte) error {
	var in paymentJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	p.ID, p.Status = in.ID, in.Status
	switch in.Type {
	case "boleto":
		bo := &Boleto{PaidAt: in.PaidAt}
		if in.DueDate != nil {
			bo.DueDate = *in.DueDate
		}
		p.Method = bo
	case "card":
		p.Method = &Card{Installments: in.Installments}
	default:
		return fmt.Errorf("%w: unknown payment type %q", ErrValidation, in.Type)
	}
	return nil
}
