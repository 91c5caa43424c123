package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

// Store hands out repositories bound to db and opens transactions over it.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Do runs fn against repositories bound to a single transaction. gorm commits
// when fn returns nil and rolls back on error or panic.
func (s *Store) Do(ctx context.Context, fn func(domain.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) Categories() domain.CategoryRepo { return NewCategoryRepo(s.db) }
func (s *Store) Products() domain.ProductRepo    { return NewProductRepo(s.db) }
func (s *Store) Clients() domain.ClientRepo      { return NewClientRepo(s.db) }
func (s *Store) Addresses() domain.AddressRepo   { return NewAddressRepo(s.db) }
func (s *Store) States() domain.StateRepo        { return NewStateRepo(s.db) }
func (s *Store) Cities() domain.CityRepo         { return NewCityRepo(s.db) }
func (s *Store) Orders() domain.OrderRepo        { return NewOrderRepo(s.db) }
func (s *Store) Payments() domain.PaymentRepo    { return NewPaymentRepo(s.db) }
func (s *Store) Items() domain.ItemRepo          { return NewItemRepo(s.db) }

// Migrate creates or updates every table of the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.State{}, &domain.City{},
		&domain.Category{}, &domain.Product{},
		&domain.Client{}, &domain.Address{},
		&domain.Order{}, &domain.Payment{}, &domain.Item{},
	)
}

var (
	_ domain.Repositories = (*Store)(nil)
	_ domain.UnitOfWork   = (*Store)(nil)
)
