package usecases

import (
	"context"
	"strings"
	"time"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/domain/repositories"
	"agrimarket.backend/internal/infrastructure/metrics"
	"agrimarket.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
)

// ProductUsecase handles farmer listings and their moderation
type ProductUsecase struct {
	productRepo repositories.ProductRepository
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewProductUsecase creates a new product usecase
func NewProductUsecase(productRepo repositories.ProductRepository, m *metrics.Metrics) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo, metrics: m, now: time.Now}
}

// Create adds a listing for an approved farmer. New listings await moderation.
func (u *ProductUsecase) Create(ctx context.Context, farmer *entities.User, input *entities.ProductInput) (*entities.Product, error) {
	if err := requireActiveRole(farmer, entities.UserRoleFarmer); err != nil {
		return nil, err
	}
	normalizeProductInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &entities.Product{
		FarmerID:    farmer.ID,
		Name:        input.Name,
		Category:    input.Category,
		Description: optionalString(input.Description),
		Unit:        input.Unit,
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		Status:      entities.ProductPending,
	}
	if err := u.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update replaces a farmer's own listing and sends it back to moderation
func (u *ProductUsecase) Update(ctx context.Context, farmer *entities.User, id uint, input *entities.ProductInput) (*entities.Product, error) {
	if err := requireActiveRole(farmer, entities.UserRoleFarmer); err != nil {
		return nil, err
	}
	normalizeProductInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := u.owned(ctx, farmer.ID, id)
	if err != nil {
		return nil, err
	}
	product.Name = input.Name
	product.Category = input.Category
	product.Description = optionalString(input.Description)
	product.Unit = input.Unit
	product.PriceCents = input.PriceCents
	product.Stock = input.Stock
	product.Status = entities.ProductPending
	product.RejectionReason = null.String{}
	product.ReviewedAt = null.Time{}

	if err := u.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetMine returns one of the farmer's listings in any state
func (u *ProductUsecase) GetMine(ctx context.Context, farmerID, id uint) (*entities.Product, error) {
	return u.owned(ctx, farmerID, id)
}

// ListMine lists the farmer's listings in any state
func (u *ProductUsecase) ListMine(ctx context.Context, farmerID uint, filter entities.ProductFilter, page utils.PaginationParams) ([]*entities.Product, int64, error) {
	filter.FarmerID = farmerID
	return u.productRepo.List(ctx, filter, page.Normalize())
}

// GetPublic returns an approved listing
func (u *ProductUsecase) GetPublic(ctx context.Context, id uint) (*entities.Product, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Status != entities.ProductApproved {
		return nil, domainerrors.ErrNotFound
	}
	return product, nil
}

// ListPublic lists the approved catalogue
func (u *ProductUsecase) ListPublic(ctx context.Context, filter entities.ProductFilter, page utils.PaginationParams) ([]*entities.Product, int64, error) {
	filter.Status = entities.ProductApproved
	return u.productRepo.List(ctx, filter, page.Normalize())
}

// ListForReview lists listings for admins; an empty status means pending
func (u *ProductUsecase) ListForReview(ctx context.Context, filter entities.ProductFilter, page utils.PaginationParams) ([]*entities.Product, int64, error) {
	if filter.Status == "" {
		filter.Status = entities.ProductPending
	}
	return u.productRepo.List(ctx, filter, page.Normalize())
}

func (u *ProductUsecase) Approve(ctx context.Context, id uint) (*entities.Product, error) {
	return u.review(ctx, id, entities.ProductApproved, "")
}

func (u *ProductUsecase) Reject(ctx context.Context, id uint, reason string) (*entities.Product, error) {
	reason, err := requireReason(reason)
	if err != nil {
		return nil, err
	}
	return u.review(ctx, id, entities.ProductRejected, reason)
}

func (u *ProductUsecase) review(ctx context.Context, id uint, next entities.ProductStatus, reason string) (*entities.Product, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Status.CanTransitionTo(next) {
		return nil, domainerrors.ErrInvalidTransition
	}

	product.Status = next
	product.RejectionReason = null.NewString(reason, reason != "")
	product.ReviewedAt = null.TimeFrom(u.now())
	if err := u.productRepo.UpdateReview(ctx, product); err != nil {
		return nil, err
	}
	u.metrics.IncrementReviewDecision("product", string(next))
	return product, nil
}

func (u *ProductUsecase) owned(ctx context.Context, farmerID, id uint) (*entities.Product, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.FarmerID != farmerID {
		return nil, domainerrors.ErrNotFound
	}
	return product, nil
}

func normalizeProductInput(input *entities.ProductInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.ToLower(strings.TrimSpace(input.Category))
	input.Unit = strings.TrimSpace(input.Unit)
}

// requireActiveRole checks the actor's role and approval
func requireActiveRole(user *entities.User, role entities.UserRole) error {
	if user == nil {
		return domainerrors.ErrUnauthorized
	}
	if user.Role != role {
		return domainerrors.ErrForbidden
	}
	if !user.IsActive() {
		return domainerrors.ErrNotApproved
	}
	return nil
}
