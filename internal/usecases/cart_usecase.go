package usecases

import (
	"context"
	"errors"
	"fmt"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/domain/repositories"
)

// CartUsecase manages buyer carts
type CartUsecase struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartUsecase creates a new cart usecase
func NewCartUsecase(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartUsecase {
	return &CartUsecase{cartRepo: cartRepo, productRepo: productRepo}
}

// AddItem adds quantity of a product to the cart, merging with an existing line
func (u *CartUsecase) AddItem(ctx context.Context, buyerID uint, input *entities.CartItemInput) (*entities.CartView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	items, err := u.cartRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	total := input.Quantity
	for _, item := range items {
		if item.ProductID == input.ProductID {
			total += item.Quantity
		}
	}
	if err := u.checkAvailable(ctx, input.ProductID, total); err != nil {
		return nil, err
	}

	if err := u.cartRepo.Upsert(ctx, buyerID, input.ProductID, input.Quantity); err != nil {
		return nil, err
	}
	return u.View(ctx, buyerID)
}

// UpdateItem sets the quantity of an existing cart line
func (u *CartUsecase) UpdateItem(ctx context.Context, buyerID uint, input *entities.CartItemInput) (*entities.CartView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := u.checkAvailable(ctx, input.ProductID, input.Quantity); err != nil {
		return nil, err
	}
	if err := u.cartRepo.UpdateQuantity(ctx, buyerID, input.ProductID, input.Quantity); err != nil {
		return nil, err
	}
	return u.View(ctx, buyerID)
}

// RemoveItem drops a product from the cart
func (u *CartUsecase) RemoveItem(ctx context.Context, buyerID, productID uint) (*entities.CartView, error) {
	if err := u.cartRepo.Remove(ctx, buyerID, productID); err != nil {
		return nil, err
	}
	return u.View(ctx, buyerID)
}

// View prices the cart with current product data
func (u *CartUsecase) View(ctx context.Context, buyerID uint) (*entities.CartView, error) {
	items, err := u.cartRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	view := &entities.CartView{Items: make([]entities.CartLine, 0, len(items))}
	for _, item := range items {
		line := entities.CartLine{ProductID: item.ProductID, Quantity: item.Quantity}
		if p := item.Product; p != nil {
			line.Name = p.Name
			line.Unit = p.Unit
			line.UnitPriceCents = p.PriceCents
			line.SubtotalCents = p.PriceCents * int64(item.Quantity)
			line.Available = p.Status == entities.ProductApproved && p.Stock >= item.Quantity
		}
		view.TotalCents += line.SubtotalCents
		view.Items = append(view.Items, line)
	}
	return view, nil
}

func (u *CartUsecase) checkAvailable(ctx context.Context, productID uint, quantity int) error {
	product, err := u.productRepo.GetByID(ctx, productID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NewValidationError(domainerrors.Field("product_id", domainerrors.FieldInvalid, "the product does not exist"))
	}
	if err != nil {
		return err
	}
	if product.Status != entities.ProductApproved {
		return domainerrors.NewValidationError(domainerrors.Field("product_id", domainerrors.FieldInvalid, "the product is not available"))
	}
	if product.Stock < quantity {
		return fmt.Errorf("%s: only %d %s left: %w", product.Name, product.Stock, product.Unit, domainerrors.ErrInsufficientStock)
	}
	return nil
}
