package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

const defaultLinesPerPage = 24

// repo is the gorm implementation of domain.Gateway shared by every entity.
// Writes never cascade into associations: aggregates persist their children
// explicitly.
type repo[T any] struct {
	db       *gorm.DB
	preloads []string
	sortable map[string]string
	order    string
}

func (r *repo[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var v T
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	if err := q.First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *repo[T]) Save(ctx context.Context, v *T) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error)
}

func (r *repo[T]) SaveAll(ctx context.Context, vs []T) error {
	if len(vs) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(&vs).Error)
}

func (r *repo[T]) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo[T]) FindAll(ctx context.Context) ([]T, error) {
	var list []T
	if err := r.db.WithContext(ctx).Order(r.order).Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (r *repo[T]) FindPage(ctx context.Context, pr domain.PageRequest) (domain.Page[T], error) {
	build := func() *gorm.DB { return r.db.WithContext(ctx).Model(new(T)) }
	return findPage[T](build, pr, r.sortable, r.preloads...)
}

// findPage counts and fetches one page. build must return a fresh query each
// call since gorm statements are mutated by chaining. preloads apply to the
// page query only.
func findPage[T any](build func() *gorm.DB, pr domain.PageRequest, sortable map[string]string, preloads ...string) (domain.Page[T], error) {
	order, err := orderClause(pr, sortable)
	if err != nil {
		return domain.Page[T]{}, err
	}
	if pr.Page < 0 {
		pr.Page = 0
	}
	if pr.LinesPerPage <= 0 {
		pr.LinesPerPage = defaultLinesPerPage
	}
	var total int64
	if err := build().Count(&total).Error; err != nil {
		return domain.Page[T]{}, translate(err)
	}
	q := build()
	for _, p := range preloads {
		q = q.Preload(p)
	}
	list := []T{}
	if err := q.Order(order).Offset(pr.Page * pr.LinesPerPage).Limit(pr.LinesPerPage).Find(&list).Error; err != nil {
		return domain.Page[T]{}, translate(err)
	}
	pages := int((total + int64(pr.LinesPerPage) - 1) / int64(pr.LinesPerPage))
	return domain.Page[T]{
		Content:       list,
		Page:          pr.Page,
		LinesPerPage:  pr.LinesPerPage,
		TotalElements: total,
		TotalPages:    pages,
	}, nil
}

func orderClause(pr domain.PageRequest, sortable map[string]string) (string, error) {
	col, ok := sortable[pr.OrderBy]
	if !ok {
		return "", fmt.Errorf("%w: cannot sort by %q", domain.ErrValidation, pr.OrderBy)
	}
	switch strings.ToUpper(pr.Direction) {
	case "", domain.SortAsc:
		return col + " asc", nil
	case domain.SortDesc:
		return col + " desc", nil
	}
	return "", fmt.Errorf("%w: sort direction %q", domain.ErrValidation, pr.Direction)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated), isForeignKeyMessage(err):
		return fmt.Errorf("%w: %v", domain.ErrDataIntegrity, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), isDuplicateMessage(err):
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return err
}

// isForeignKeyMessage covers drivers without an error translator.
func isForeignKeyMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint")
}

func isDuplicateMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
