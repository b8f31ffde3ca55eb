package repository

import (
	"context"
	"errors"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate")
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetBySubject(ctx context.Context, subject string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	AddRole(ctx context.Context, userID uint, role models.Role) error
	RemoveRole(ctx context.Context, userID uint, role models.Role) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type MenuItemRepository interface {
	Create(ctx context.Context, m *models.MenuItem) error
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
	List(ctx context.Context) ([]models.MenuItem, error)
	Update(ctx context.Context, m *models.MenuItem) error
	Delete(ctx context.Context, id uint) error
}

type CartRepository interface {
	Create(ctx context.Context, c *models.Cart) error
	GetByUser(ctx context.Context, userID uint) (*models.Cart, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Cart, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

// OrderFilter narrows List. Zero fields match everything.
type OrderFilter struct {
	UserID         *uint
	DeliveryCrewID *uint
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, f OrderFilter) ([]models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, id uint) error
	CreateItem(ctx context.Context, item *models.OrderItem) error
	ListItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
}

// TxManager runs fn inside one database transaction. Repositories called with the
// ctx handed to fn take part in it.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
