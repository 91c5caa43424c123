package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type ProductRepo struct {
	repo[domain.Product]
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{repo[domain.Product]{
		db:       db,
		preloads: []string{"Categories"},
		sortable: map[string]string{"id": "id", "name": "name", "price": "price"},
		order:    "name asc",
	}}
}

func (r *ProductRepo) Search(ctx context.Context, f domain.ProductFilter, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	like := "%" + strings.ToLower(strings.TrimSpace(f.Name)) + "%"
	ids := f.CategoryIDs
	if len(ids) == 0 {
		// IN () is invalid SQL; 0 is never a category id.
		ids = []uint{0}
	}
	build := func() *gorm.DB {
		inCategories := r.db.Table("product_categories").Select("product_id").Where("category_id IN ?", ids)
		return r.db.WithContext(ctx).Model(&domain.Product{}).
			Where("LOWER(name) LIKE ?", like).
			Where("id IN (?)", inCategories)
	}
	return findPage[domain.Product](build, pr, r.sortable, r.preloads...)
}
