package domain

import "context"

const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

type PageRequest struct {
	Page         int
	LinesPerPage int
	Direction    string
	OrderBy      string
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	LinesPerPage  int   `json:"linesPerPage"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// Gateway is the key-based store every entity repository offers.
// FindByID returns ErrNotFound when the row is absent and DeleteByID returns
// ErrDataIntegrity when a foreign key blocks the deletion.
type Gateway[T any] interface {
	FindByID(ctx context.Context, id uint) (*T, error)
	Save(ctx context.Context, v *T) error
	SaveAll(ctx context.Context, vs []T) error
	DeleteByID(ctx context.Context, id uint) error
	FindAll(ctx context.Context) ([]T, error)
	FindPage(ctx context.Context, pr PageRequest) (Page[T], error)
}

type CategoryRepo interface {
	Gateway[Category]
}

type ProductRepo interface {
	Gateway[Product]
	Search(ctx context.Context, f ProductFilter, pr PageRequest) (Page[Product], error)
}

type ClientRepo interface {
	Gateway[Client]
	FindByEmail(ctx context.Context, email string) (*Client, error)
}

type AddressRepo interface {
	Gateway[Address]
}

type StateRepo interface {
	Gateway[State]
}

type CityRepo interface {
	Gateway[City]
	FindByState(ctx context.Context, stateID uint) ([]City, error)
}

type OrderRepo interface {
	Gateway[Order]
	FindByClient(ctx context.Context, clientID uint, pr PageRequest) (Page[Order], error)
}

type PaymentRepo interface {
	Gateway[Payment]
}

type ItemRepo interface {
	Gateway[Item]
}

// Repositories hands out repositories bound to one database handle, either
// the pool or a transaction opened by UnitOfWork.
type Repositories interface {
	Categories() CategoryRepo
	Products() ProductRepo
	Clients() ClientRepo
	Addresses() AddressRepo
	States() StateRepo
	Cities() CityRepo
	Orders() OrderRepo
	Payments() PaymentRepo
	Items() ItemRepo
}

// UnitOfWork runs fn inside one transaction. It commits when fn returns nil
// and rolls back on error or panic.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Repositories) error) error
}

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, o *Order) error
	SendNewPassword(ctx context.Context, c *Client, newPassword string) error
}

type FileStorage interface {
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
}
