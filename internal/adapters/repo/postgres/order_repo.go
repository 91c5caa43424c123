package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type OrderRepo struct {
	repo[domain.Order]
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{repo[domain.Order]{
		db: db,
		preloads: []string{
			"Client", "Address", "Address.City", "Address.City.State",
			"Payment", "Items", "Items.Product",
		},
		sortable: map[string]string{"id": "id", "instant": "instant"},
		order:    "instant desc",
	}}
}

func (r *OrderRepo) FindByClient(ctx context.Context, clientID uint, pr domain.PageRequest) (domain.Page[domain.Order], error) {
	build := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Order{}).Where("client_id = ?", clientID)
	}
	return findPage[domain.Order](build, pr, r.sortable, "Payment", "Items", "Items.Product")
}
