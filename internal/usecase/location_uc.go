package usecase

import (
	"context"
	"fmt"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type LocationUC struct {
	States domain.StateRepo
	Cities domain.CityRepo
}

func (uc *LocationUC) FindStates(ctx context.Context) ([]domain.State, error) {
	return uc.States.FindAll(ctx)
}

// FindCities lists the cities of a state by name. An unknown state is NotFound
// rather than an empty list.
func (uc *LocationUC) FindCities(ctx context.Context, stateID uint) ([]domain.City, error) {
	if _, err := uc.States.FindByID(ctx, stateID); err != nil {
		return nil, fmt.Errorf("state %d: %w", stateID, err)
	}
	return uc.Cities.FindByState(ctx, stateID)
}
