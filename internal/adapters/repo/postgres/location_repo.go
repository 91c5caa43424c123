package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type StateRepo struct {
	repo[domain.State]
}

func NewStateRepo(db *gorm.DB) *StateRepo {
	return &StateRepo{repo[domain.State]{db: db, sortable: map[string]string{"id": "id", "name": "name"}, order: "name asc"}}
}

type CityRepo struct {
	repo[domain.City]
}

func NewCityRepo(db *gorm.DB) *CityRepo {
	return &CityRepo{repo[domain.City]{db: db, preloads: []string{"State"}, sortable: map[string]string{"id": "id", "name": "name"}, order: "name asc"}}
}

func (r *CityRepo) FindByState(ctx context.Context, stateID uint) ([]domain.City, error) {
	list := []domain.City{}
	if err := r.db.WithContext(ctx).Where("state_id = ?", stateID).Order("name asc").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}
