package repositories

import (
	"context"

	"agrimarket.backend/internal/domain/entities"
	"agrimarket.backend/pkg/utils"
)

// ProductRepository defines product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	GetByID(ctx context.Context, id uint) (*entities.Product, error)
	Update(ctx context.Context, product *entities.Product) error
	UpdateReview(ctx context.Context, product *entities.Product) error
	List(ctx context.Context, filter entities.ProductFilter, page utils.PaginationParams) ([]*entities.Product, int64, error)
	// DecrementStock fails with ErrInsufficientStock when stock < qty
	DecrementStock(ctx context.Context, id uint, qty int) error
	IncrementStock(ctx context.Context, id uint, qty int) error
}

// CartRepository defines cart data operations
type CartRepository interface {
	Upsert(ctx context.Context, buyerID, productID uint, quantity int) error
	UpdateQuantity(ctx context.Context, buyerID, productID uint, quantity int) error
	Remove(ctx context.Context, buyerID, productID uint) error
	ListByBuyer(ctx context.Context, buyerID uint) ([]*entities.CartItem, error)
	Clear(ctx context.Context, buyerID uint) error
}

// OrderRepository defines order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	GetByID(ctx context.Context, id uint) (*entities.Order, error)
	List(ctx context.Context, filter entities.OrderFilter, page utils.PaginationParams) ([]*entities.Order, int64, error)
	ListAvailable(ctx context.Context, page utils.PaginationParams) ([]*entities.Order, int64, error)
	// UpdateStatus changes status only while it still equals from
	UpdateStatus(ctx context.Context, id uint, from, to entities.OrderStatus) error
	// AssignRider claims a confirmed order that has no rider yet
	AssignRider(ctx context.Context, id, riderID uint) error
	AddHistory(ctx context.Context, entry *entities.OrderStatusHistory) error
}

// DashboardRepository aggregates counters for dashboards
type DashboardRepository interface {
	CountUsersByRole(ctx context.Context) (entities.StatusCounts, error)
	CountRegistrations(ctx context.Context, status entities.RegistrationStatus) (int64, error)
	CountProductsByStatus(ctx context.Context, farmerID uint) (entities.StatusCounts, error)
	CountOrdersByStatus(ctx context.Context, filter entities.OrderFilter) (entities.StatusCounts, error)
	SumOrderTotals(ctx context.Context, filter entities.OrderFilter) (int64, error)
	CountCartItems(ctx context.Context, buyerID uint) (int64, error)
	CountAvailableOrders(ctx context.Context) (int64, error)
}
