package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/domain/repositories"
	"agrimarket.backend/internal/infrastructure/metrics"
	"agrimarket.backend/pkg/logger"
	"agrimarket.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// OrderUsecase handles checkout and order fulfilment
type OrderUsecase struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	uow         repositories.UnitOfWork
	metrics     *metrics.Metrics
}

// NewOrderUsecase creates a new order usecase
func NewOrderUsecase(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	uow repositories.UnitOfWork,
	m *metrics.Metrics,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		uow:         uow,
		metrics:     m,
	}
}

// Checkout turns the buyer's cart into one order per farmer. Stock is taken
// and the cart emptied in the same transaction.
func (u *OrderUsecase) Checkout(ctx context.Context, buyer *entities.User, input *entities.CheckoutInput) ([]*entities.Order, error) {
	if err := requireActiveRole(buyer, entities.UserRoleBuyer); err != nil {
		return nil, err
	}
	input.ShippingAddress = strings.TrimSpace(input.ShippingAddress)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var orders []*entities.Order
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		items, err := u.cartRepo.ListByBuyer(txCtx, buyer.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domainerrors.NewValidationError(domainerrors.Field("cart", domainerrors.FieldRequired, "the cart is empty"))
		}

		byFarmer := map[uint]*entities.Order{}
		for _, item := range items {
			p := item.Product
			if p == nil || p.Status != entities.ProductApproved {
				return domainerrors.NewValidationError(domainerrors.Field("cart", domainerrors.FieldInvalid,
					fmt.Sprintf("product %d is no longer available", item.ProductID)))
			}
			if err := u.productRepo.DecrementStock(txCtx, p.ID, item.Quantity); err != nil {
				if errors.Is(err, domainerrors.ErrInsufficientStock) {
					return fmt.Errorf("%s: %w", p.Name, domainerrors.ErrInsufficientStock)
				}
				return err
			}

			order, ok := byFarmer[p.FarmerID]
			if !ok {
				order = &entities.Order{
					BuyerID:         buyer.ID,
					FarmerID:        p.FarmerID,
					Status:          entities.OrderPending,
					ShippingAddress: input.ShippingAddress,
				}
				byFarmer[p.FarmerID] = order
			}
			order.Items = append(order.Items, entities.OrderItem{
				ProductID:      p.ID,
				ProductName:    p.Name,
				Quantity:       item.Quantity,
				UnitPriceCents: p.PriceCents,
			})
			order.TotalCents += p.PriceCents * int64(item.Quantity)
		}

		farmerIDs := make([]uint, 0, len(byFarmer))
		for id := range byFarmer {
			farmerIDs = append(farmerIDs, id)
		}
		sort.Slice(farmerIDs, func(i, j int) bool { return farmerIDs[i] < farmerIDs[j] })

		for _, id := range farmerIDs {
			order := byFarmer[id]
			if err := u.orderRepo.Create(txCtx, order); err != nil {
				return err
			}
			if err := u.orderRepo.AddHistory(txCtx, &entities.OrderStatusHistory{
				OrderID:   order.ID,
				ToStatus:  entities.OrderPending,
				ActorID:   buyer.ID,
				ActorRole: buyer.Role,
			}); err != nil {
				return err
			}
			orders = append(orders, order)
		}
		return u.cartRepo.Clear(txCtx, buyer.ID)
	})
	if err != nil {
		return nil, err
	}

	for range orders {
		u.metrics.IncrementOrdersPlaced()
	}
	logger.Info(ctx, "Checkout completed",
		zap.Uint("buyer_id", buyer.ID),
		zap.Int("orders", len(orders)),
	)
	return orders, nil
}

// List lists the orders the actor takes part in; admins see every order
func (u *OrderUsecase) List(ctx context.Context, actor *entities.User, filter entities.OrderFilter, page utils.PaginationParams) ([]*entities.Order, int64, error) {
	switch actor.Role {
	case entities.UserRoleBuyer:
		filter.BuyerID = actor.ID
	case entities.UserRoleFarmer:
		filter.FarmerID = actor.ID
	case entities.UserRoleLogistics:
		filter.RiderID = actor.ID
	case entities.UserRoleAdmin:
	default:
		return nil, 0, domainerrors.ErrForbidden
	}
	return u.orderRepo.List(ctx, filter, page.Normalize())
}

// Get returns an order the actor takes part in
func (u *OrderUsecase) Get(ctx context.Context, actor *entities.User, id uint) (*entities.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != entities.UserRoleAdmin && !order.InvolvesUser(actor.ID) {
		return nil, domainerrors.ErrNotFound
	}
	return order, nil
}

// UpdateStatus moves an order along its status machine on behalf of actor.
// Cancelling puts the stock back.
func (u *OrderUsecase) UpdateStatus(ctx context.Context, actor *entities.User, id uint, input *entities.OrderStatusInput) (*entities.Order, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	next := entities.OrderStatus(input.Status)

	order, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actsOn(actor, order) {
		return nil, domainerrors.ErrForbidden
	}
	if actor.Role != entities.UserRoleBuyer && !actor.IsActive() {
		return nil, domainerrors.ErrNotApproved
	}
	if !entities.CanOrderTransition(order.Status, next, actor.Role) {
		return nil, fmt.Errorf("%s cannot move order from %s to %s: %w", actor.Role, order.Status, next, domainerrors.ErrInvalidTransition)
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.UpdateStatus(txCtx, order.ID, order.Status, next); err != nil {
			return err
		}
		if next == entities.OrderCancelled {
			for _, item := range order.Items {
				if err := u.productRepo.IncrementStock(txCtx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return u.orderRepo.AddHistory(txCtx, &entities.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   next,
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Note:       optionalString(input.Note),
		})
	})
	if err != nil {
		return nil, err
	}
	return u.orderRepo.GetByID(ctx, order.ID)
}

// ListAvailable lists confirmed orders no rider has claimed yet
func (u *OrderUsecase) ListAvailable(ctx context.Context, rider *entities.User, page utils.PaginationParams) ([]*entities.Order, int64, error) {
	if err := requireActiveRole(rider, entities.UserRoleLogistics); err != nil {
		return nil, 0, err
	}
	return u.orderRepo.ListAvailable(ctx, page.Normalize())
}

// Claim assigns a confirmed, unassigned order to an approved rider
func (u *OrderUsecase) Claim(ctx context.Context, rider *entities.User, id uint) (*entities.Order, error) {
	if err := requireActiveRole(rider, entities.UserRoleLogistics); err != nil {
		return nil, err
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.AssignRider(txCtx, id, rider.ID); err != nil {
			return err
		}
		return u.orderRepo.AddHistory(txCtx, &entities.OrderStatusHistory{
			OrderID:    id,
			FromStatus: entities.OrderConfirmed,
			ToStatus:   entities.OrderConfirmed,
			ActorID:    rider.ID,
			ActorRole:  rider.Role,
			Note:       null.StringFrom("claimed by rider"),
		})
	})
	if err != nil {
		return nil, err
	}
	return u.orderRepo.GetByID(ctx, id)
}

// actsOn reports whether actor holds the order role its user role implies
func actsOn(actor *entities.User, order *entities.Order) bool {
	switch actor.Role {
	case entities.UserRoleBuyer:
		return order.BuyerID == actor.ID
	case entities.UserRoleFarmer:
		return order.FarmerID == actor.ID
	case entities.UserRoleLogistics:
		return order.RiderID.Valid && order.RiderID.Uint == actor.ID
	}
	return false
}
