package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type ClientRepo struct {
	repo[domain.Client]
}

func NewClientRepo(db *gorm.DB) *ClientRepo {
	return &ClientRepo{repo[domain.Client]{
		db:       db,
		preloads: []string{"Addresses", "Addresses.City", "Addresses.City.State"},
		sortable: map[string]string{"id": "id", "name": "name", "email": "email"},
		order:    "name asc",
	}}
}

func (r *ClientRepo) Save(ctx context.Context, c *domain.Client) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return r.repo.Save(ctx, c)
}

func (r *ClientRepo) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var c domain.Client
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return nil, fmt.Errorf("%w: empty email", domain.ErrValidation)
	}
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	if err := q.First(&c, "email = ?", e).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

type AddressRepo struct {
	repo[domain.Address]
}

func NewAddressRepo(db *gorm.DB) *AddressRepo {
	return &AddressRepo{repo[domain.Address]{
		db:       db,
		preloads: []string{"City", "City.State"},
		sortable: map[string]string{"id": "id"},
		order:    "id asc",
	}}
}
