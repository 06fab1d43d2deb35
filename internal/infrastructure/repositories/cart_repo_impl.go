package repositories

import (
	"context"
	"time"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/infrastructure/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository implements cart data operations
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Upsert adds quantity to the buyer's line for productID, creating it if needed
func (r *CartRepository) Upsert(ctx context.Context, buyerID, productID uint, quantity int) error {
	m := &models.CartItem{BuyerID: buyerID, ProductID: productID, Quantity: quantity}
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "buyer_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(m).Error
}

// UpdateQuantity sets the quantity of an existing line
func (r *CartRepository) UpdateQuantity(ctx context.Context, buyerID, productID uint, quantity int) error {
	result := GetDB(ctx, r.db).Model(&models.CartItem{}).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Remove deletes one line
func (r *CartRepository) Remove(ctx context.Context, buyerID, productID uint) error {
	result := GetDB(ctx, r.db).Where("buyer_id = ? AND product_id = ?", buyerID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListByBuyer lists a buyer's lines with their products
func (r *CartRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]*entities.CartItem, error) {
	var rows []models.CartItem
	if err := GetDB(ctx, r.db).Preload("Product").Where("buyer_id = ?", buyerID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.CartItem, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		item := &entities.CartItem{
			ID:        m.ID,
			BuyerID:   m.BuyerID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		}
		if m.Product != nil {
			item.Product = productToEntity(m.Product)
		}
		items = append(items, item)
	}
	return items, nil
}

// Clear empties a buyer's cart
func (r *CartRepository) Clear(ctx context.Context, buyerID uint) error {
	return GetDB(ctx, r.db).Where("buyer_id = ?", buyerID).Delete(&models.CartItem{}).Error
}
