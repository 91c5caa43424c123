package domain

import (
	"fmt"
	"strings"
	"time"
)

type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Instant   time.Time `gorm:"not null" json:"instant"`
	ClientID  uint      `gorm:"index;not null" json:"-"`
	Client    *Client   `json:"client,omitempty"`
	AddressID *uint     `gorm:"index" json:"-"`
	Address   *Address  `json:"deliveryAddress,omitempty"`
	Payment   *Payment  `gorm:"constraint:OnDelete:CASCADE" json:"payment,omitempty"`
	Items     []Item    `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type Item struct {
	ID        uint     `gorm:"primaryKey" json:"-"`
	OrderID   uint     `gorm:"index;not null" json:"-"`
	ProductID uint     `gorm:"index;not null" json:"-"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Price     float64  `gorm:"type:decimal(12,2);not null" json:"price"`
	Discount  float64  `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
}

func (it Item) Subtotal() float64 {
	return (it.Price - it.Discount) * float64(it.Quantity)
}

func (o *Order) Total() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Subtotal()
	}
	return sum
}

// String renders the plain-text body of the confirmation email.
func (o *Order) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order number: %d, Instant: %s", o.ID, o.Instant.Format("02/01/2006 15:04:05"))
	if o.Client != nil {
		fmt.Fprintf(&b, ", Client: %s", o.Client.Name)
	}
	if o.Payment != nil {
		fmt.Fprintf(&b, ", Payment status: %s", o.Payment.Status)
	}
	b.WriteString("\nDetails:\n")
	for _, it := range o.Items {
		name := fmt.Sprintf("product %d", it.ProductID)
		if it.Product != nil {
			name = it.Product.Name
		}
		fmt.Fprintf(&b, "%s, Qty: %d, Unit price: %s, Subtotal: %s\n", name, it.Quantity, FormatMoney(it.Price), FormatMoney(it.Subtotal()))
	}
	fmt.Fprintf(&b, "Total: %s", FormatMoney(o.Total()))
	return b.String()
}

// FormatMoney formats v as Brazilian currency, e.g. "R$ 1.234,50".
func FormatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	out := intPart[:rem]
	for i := rem; i < n; i += 3 {
		out += "." + intPart[i:i+3]
	}
	if neg {
		out = "-" + out
	}
	return "R$ " + out + "," + frac
}
