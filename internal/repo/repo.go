package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/online_pharmacy/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

type SortKey string

const (
	SortNatural SortKey = ""
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
)

// ParseSortKey maps anything other than name or price to natural order.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByName:
		return SortByName
	case SortByPrice:
		return SortByPrice
	default:
		return SortNatural
	}
}

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type ProductRepo interface {
	ListProducts(ctx context.Context, sort SortKey) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	ReplaceProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type CartRepo interface {
	ListCartLines(ctx context.Context, userID string) ([]models.CartLine, error)
	AddCartItem(ctx context.Context, item *models.CartItem) error
	UpdateCartItemQuantity(ctx context.Context, id, userID string, quantity int) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, id, userID string) error
}

// Store is a storage backend serving every repository.
type Store interface {
	UserRepo
	ProductRepo
	CartRepo

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
