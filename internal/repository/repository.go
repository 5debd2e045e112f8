// Package repository persists shops, flowers, and orders in Postgres.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
)

var (
	ErrShopNotFound   = errors.New("shop not found")
	ErrFlowerNotFound = errors.New("flower not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid order status")
)

// Credentials holds Postgres connection settings.
type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type ShopRepository interface {
	List(ctx context.Context) ([]domain.Shop, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	Create(ctx context.Context, shop *domain.Shop) error
	// AssignOwner sets or clears (nil) the shop's owner. Admin-only at the
	// HTTP layer.
	AssignOwner(ctx context.Context, shopID uuid.UUID, ownerID *uuid.UUID) error
}

type FlowerRepository interface {
	ListByShop(ctx context.Context, shopID uuid.UUID, inStockOnly bool) ([]domain.Flower, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flower, error)
	Create(ctx context.Context, flower *domain.Flower) error
	// Restock adds quantity and stamps last_restocked_at. The in_stock flag
	// is recomputed from the new quantity.
	Restock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Flower, error)
	// DecrementStock subtracts quantity, floored at zero.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ExpireStale zeroes the quantity of every in-stock flower whose shelf
	// life has elapsed since its last restock. Returns rows affected.
	ExpireStale(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	SetInternalNotes(ctx context.Context, id uuid.UUID, notes string) error
}
