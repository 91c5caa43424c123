package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/domain"
	"github.com/MatsuStefanie/cursomc/internal/metrics"
)

type OrderUC struct {
	UoW     domain.UnitOfWork
	Orders  domain.OrderRepo
	Mailer  domain.Mailer
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func (uc *OrderUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// Insert places draft on behalf of actor. The order, its payment and its items
// are written in one transaction; the confirmation email goes out after the
// commit and its failure is only logged.
func (uc *OrderUC) Insert(ctx context.Context, actor *auth.Principal, draft *domain.Order) (*domain.Order, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	o := &domain.Order{
		Instant: uc.now(),
		Payment: &domain.Payment{Method: draft.Payment.Method},
		Items:   make([]domain.Item, 0, len(draft.Items)),
	}
	for _, it := range draft.Items {
		o.Items = append(o.Items, domain.Item{ProductID: productRef(it), Quantity: it.Quantity})
	}
	clientID := clientRef(draft)
	addressID := addressRef(draft)

	err := uc.UoW.Do(ctx, func(r domain.Repositories) error {
		if err := auth.Authorize(actor, domain.RoleAdmin, clientID); err != nil {
			return err
		}
		client, err := r.Clients().FindByID(ctx, clientID)
		if err != nil {
			return fmt.Errorf("client %d: %w", clientID, err)
		}
		o.ClientID, o.Client = client.ID, client

		if addressID != 0 {
			addr, err := r.Addresses().FindByID(ctx, addressID)
			if err != nil {
				return fmt.Errorf("address %d: %w", addressID, err)
			}
			if addr.ClientID != client.ID {
				return fmt.Errorf("%w: address %d does not belong to client %d", domain.ErrValidation, addr.ID, client.ID)
			}
			o.AddressID, o.Address = &addr.ID, addr
		}

		o.Payment.Status = domain.PaymentPending
		switch m := o.Payment.Method.(type) {
		case *domain.Boleto:
			o.Payment.Method = &domain.Boleto{DueDate: o.Instant.Add(domain.BoletoTerm)}
		case *domain.Card:
			o.Payment.Method = &domain.Card{Installments: m.Installments}
		default:
			return fmt.Errorf("%w: unsupported payment method %T", domain.ErrValidation, m)
		}

		if err := r.Orders().Save(ctx, o); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		o.Payment.OrderID = o.ID
		if err := r.Payments().Save(ctx, o.Payment); err != nil {
			return fmt.Errorf("save payment: %w", err)
		}

		for i := range o.Items {
			it := &o.Items[i]
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("product %d: %w", it.ProductID, err)
			}
			it.Discount = 0
			it.Product = p
			it.Price = p.Price
			it.OrderID = o.ID
		}
		if err := r.Items().SaveAll(ctx, o.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Metrics.OrderPlaced()
	log.Info().Uint("order_id", o.ID).Uint("client_id", o.ClientID).Str("total", domain.FormatMoney(o.Total())).Msg("order placed")
	uc.notify(ctx, o)
	return o, nil
}

func (uc *OrderUC) notify(ctx context.Context, o *domain.Order) {
	if uc.Mailer == nil {
		return
	}
	if err := uc.Mailer.SendOrderConfirmation(ctx, o); err != nil {
		uc.Metrics.NotificationFailed("order")
		log.Error().Err(err).Uint("order_id", o.ID).Msg("order confirmation email failed")
	}
}

// Find loads the order with its client, address, payment and items. Only an
// admin or the order's own client may read it.
func (uc *OrderUC) Find(ctx context.Context, actor *auth.Principal, id uint) (*domain.Order, error) {
	if actor == nil {
		return nil, domain.ErrForbidden
	}
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	if err := auth.Authorize(actor, domain.RoleAdmin, o.ClientID); err != nil {
		return nil, err
	}
	return o, nil
}

// FindPage lists the orders of the authenticated client, newest first unless
// told otherwise.
func (uc *OrderUC) FindPage(ctx context.Context, actor *auth.Principal, pr domain.PageRequest) (domain.Page[domain.Order], error) {
	if actor == nil {
		return domain.Page[domain.Order]{}, domain.ErrForbidden
	}
	return uc.Orders.FindByClient(ctx, actor.ID, withDefaults(pr, "instant", domain.SortDesc))
}

func validateDraft(d *domain.Order) error {
	switch {
	case d == nil:
		return fmt.Errorf("%w: empty order", domain.ErrValidation)
	case clientRef(d) == 0:
		return fmt.Errorf("%w: order has no client", domain.ErrValidation)
	case d.Payment == nil || d.Payment.Method == nil:
		return fmt.Errorf("%w: order has no payment", domain.ErrValidation)
	case len(d.Items) == 0:
		return fmt.Errorf("%w: order has no items", domain.ErrValidation)
	}
	for i, it := range d.Items {
		if productRef(it) == 0 {
			return fmt.Errorf("%w: item %d has no product", domain.ErrValidation, i)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: item %d quantity must be at least 1", domain.ErrValidation, i)
		}
	}
	return nil
}

// The JSON body references client, address and products by nested objects
// ({"client":{"id":1}}); Go callers may set the id fields directly.

func clientRef(d *domain.Order) uint {
	if d.ClientID != 0 {
		return d.ClientID
	}
	if d.Client != nil {
		return d.Client.ID
	}
	return 0
}

func addressRef(d *domain.Order) uint {
	if d.AddressID != nil {
		return *d.AddressID
	}
	if d.Address != nil {
		return d.Address.ID
	}
	return 0
}

func productRef(it domain.Item) uint {
	if it.ProductID != 0 {
		return it.ProductID
	}
	if it.Product != nil {
		return it.Product.ID
	}
	return 0
}
