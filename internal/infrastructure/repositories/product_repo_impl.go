package repositories

import (
	"context"
	"fmt"
	"time"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/infrastructure/models"
	"agrimarket.backend/pkg/utils"
	"gorm.io/gorm"
)

// ProductRepository implements product data operations
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	m := &models.Product{
		FarmerID:    product.FarmerID,
		Name:        product.Name,
		Category:    product.Category,
		Description: fromNullString(product.Description),
		Unit:        product.Unit,
		PriceCents:  product.PriceCents,
		Stock:       product.Stock,
		Status:      string(product.Status),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	product.ID = m.ID
	product.CreatedAt = m.CreatedAt
	product.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*entities.Product, error) {
	var m models.Product
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return productToEntity(&m), nil
}

// Update replaces the editable fields and moderation state of a product
func (r *ProductRepository) Update(ctx context.Context, product *entities.Product) error {
	result := GetDB(ctx, r.db).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":             product.Name,
			"category":         product.Category,
			"description":      fromNullString(product.Description),
			"unit":             product.Unit,
			"price_cents":      product.PriceCents,
			"stock":            product.Stock,
			"status":           string(product.Status),
			"rejection_reason": fromNullString(product.RejectionReason),
			"reviewed_at":      fromNullTime(product.ReviewedAt),
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateReview stores a moderation decision
func (r *ProductRepository) UpdateReview(ctx context.Context, product *entities.Product) error {
	result := GetDB(ctx, r.db).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"status":           string(product.Status),
			"rejection_reason": fromNullString(product.RejectionReason),
			"reviewed_at":      fromNullTime(product.ReviewedAt),
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists products matching filter
func (r *ProductRepository) List(ctx context.Context, filter entities.ProductFilter, page utils.PaginationParams) ([]*entities.Product, int64, error) {
	q := GetDB(ctx, r.db).Model(&models.Product{})
	if filter.FarmerID != 0 {
		q = q.Where("farmer_id = ?", filter.FarmerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	if err := paginate(q.Order("created_at DESC, id DESC"), page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	products := make([]*entities.Product, 0, len(rows))
	for i := range rows {
		products = append(products, productToEntity(&rows[i]))
	}
	return products, total, nil
}

// DecrementStock reserves qty units
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) error {
	result := GetDB(ctx, r.db).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, domainerrors.ErrInsufficientStock)
	}
	return nil
}

// IncrementStock returns qty units to stock
func (r *ProductRepository) IncrementStock(ctx context.Context, id uint, qty int) error {
	result := GetDB(ctx, r.db).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func productToEntity(m *models.Product) *entities.Product {
	return &entities.Product{
		ID:              m.ID,
		FarmerID:        m.FarmerID,
		Name:            m.Name,
		Category:        m.Category,
		Description:     toNullString(m.Description),
		Unit:            m.Unit,
		PriceCents:      m.PriceCents,
		Stock:           m.Stock,
		Status:          entities.ProductStatus(m.Status),
		RejectionReason: toNullString(m.RejectionReason),
		ReviewedAt:      toNullTime(m.ReviewedAt),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
