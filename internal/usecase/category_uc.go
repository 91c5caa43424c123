package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type CategoryUC struct {
	Categories domain.CategoryRepo
}

func (uc *CategoryUC) Find(ctx context.Context, id uint) (*domain.Category, error) {
	c, err := uc.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", id, err)
	}
	return c, nil
}

func (uc *CategoryUC) FindAll(ctx context.Context) ([]domain.Category, error) {
	return uc.Categories.FindAll(ctx)
}

func (uc *CategoryUC) FindPage(ctx context.Context, pr domain.PageRequest) (domain.Page[domain.Category], error) {
	return uc.Categories.FindPage(ctx, withDefaults(pr, "name", domain.SortAsc))
}

func (uc *CategoryUC) Insert(ctx context.Context, actor *auth.Principal, c *domain.Category) error {
	if err := auth.Authorize(actor, domain.RoleAdmin, 0); err != nil {
		return err
	}
	name, err := categoryName(c.Name)
	if err != nil {
		return err
	}
	c.ID, c.Name = 0, name
	return uc.Categories.Save(ctx, c)
}

// Update renames the category; it is the only mutable field.
func (uc *CategoryUC) Update(ctx context.Context, actor *auth.Principal, id uint, newName string) (*domain.Category, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin, 0); err != nil {
		return nil, err
	}
	name, err := categoryName(newName)
	if err != nil {
		return nil, err
	}
	c, err := uc.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := uc.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *CategoryUC) Delete(ctx context.Context, actor *auth.Principal, id uint) error {
	if err := auth.Authorize(actor, domain.RoleAdmin, 0); err != nil {
		return err
	}
	err := uc.Categories.DeleteByID(ctx, id)
	if errors.Is(err, domain.ErrDataIntegrity) {
		return fmt.Errorf("%w: a category that has products cannot be deleted", domain.ErrDataIntegrity)
	}
	if err != nil {
		return fmt.Errorf("category %d: %w", id, err)
	}
	return nil
}

func categoryName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if n := utf8.RuneCountInString(name); n < 5 || n > 80 {
		return "", fmt.Errorf("%w: name must have between 5 and 80 characters", domain.ErrValidation)
	}
	return name, nil
}
