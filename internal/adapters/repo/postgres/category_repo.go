package postgres

import (
	"gorm.io/gorm"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type CategoryRepo struct {
	repo[domain.Category]
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{repo[domain.Category]{
		db:       db,
		sortable: map[string]string{"id": "id", "name": "name"},
		order:    "name asc",
	}}
}

type PaymentRepo struct {
	repo[domain.Payment]
}

func NewPaymentRepo(db *gorm.DB) *PaymentRepo {
	return &PaymentRepo{repo[domain.Payment]{db: db, sortable: map[string]string{"id": "id"}, order: "id asc"}}
}

type ItemRepo struct {
	repo[domain.Item]
}

func NewItemRepo(db *gorm.DB) *ItemRepo {
	return &ItemRepo{repo[domain.Item]{db: db, preloads: []string{"Product"}, sortable: map[string]string{"id": "id"}, order: "id asc"}}
}
