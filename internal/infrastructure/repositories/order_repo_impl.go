package repositories

import (
	"context"
	"fmt"
	"time"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/infrastructure/models"
	"agrimarket.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// OrderRepository implements order data operations
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create stores an order together with its items
func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) error {
	m := &models.Order{
		BuyerID:         order.BuyerID,
		FarmerID:        order.FarmerID,
		RiderID:         order.RiderID.Ptr(),
		Status:          string(order.Status),
		TotalCents:      order.TotalCents,
		ShippingAddress: order.ShippingAddress,
	}
	for _, item := range order.Items {
		m.Items = append(m.Items, models.OrderItem{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}

	order.ID = m.ID
	order.CreatedAt = m.CreatedAt
	order.UpdatedAt = m.UpdatedAt
	for i := range order.Items {
		order.Items[i].ID = m.Items[i].ID
		order.Items[i].OrderID = m.ID
	}
	return nil
}

// GetByID loads an order with its items and history
func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*entities.Order, error) {
	var m models.Order
	err := GetDB(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return orderToEntity(&m), nil
}

// List lists orders matching filter, newest first
func (r *OrderRepository) List(ctx context.Context, filter entities.OrderFilter, page utils.PaginationParams) ([]*entities.Order, int64, error) {
	return r.list(applyOrderFilter(GetDB(ctx, r.db).Model(&models.Order{}), filter), page)
}

// ListAvailable lists confirmed orders no rider has claimed
func (r *OrderRepository) ListAvailable(ctx context.Context, page utils.PaginationParams) ([]*entities.Order, int64, error) {
	q := GetDB(ctx, r.db).Model(&models.Order{}).
		Where("status = ? AND rider_id IS NULL", string(entities.OrderConfirmed))
	return r.list(q, page)
}

func (r *OrderRepository) list(q *gorm.DB, page utils.PaginationParams) ([]*entities.Order, int64, error) {
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	if err := paginate(q.Preload("Items").Order("created_at DESC, id DESC"), page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*entities.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, orderToEntity(&rows[i]))
	}
	return orders, total, nil
}

// UpdateStatus moves an order from one status to another
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, from, to entities.OrderStatus) error {
	result := GetDB(ctx, r.db).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{"status": string(to), "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %d is no longer %s: %w", id, from, domainerrors.ErrInvalidTransition)
	}
	return nil
}

// AssignRider claims a confirmed, unassigned order for riderID
func (r *OrderRepository) AssignRider(ctx context.Context, id, riderID uint) error {
	result := GetDB(ctx, r.db).Model(&models.Order{}).
		Where("id = ? AND status = ? AND rider_id IS NULL", id, string(entities.OrderConfirmed)).
		Updates(map[string]interface{}{"rider_id": riderID, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %d is not available: %w", id, domainerrors.ErrInvalidTransition)
	}
	return nil
}

// AddHistory records a status change
func (r *OrderRepository) AddHistory(ctx context.Context, entry *entities.OrderStatusHistory) error {
	m := &models.OrderStatusHistory{
		OrderID:    entry.OrderID,
		FromStatus: string(entry.FromStatus),
		ToStatus:   string(entry.ToStatus),
		ActorID:    entry.ActorID,
		ActorRole:  string(entry.ActorRole),
		Note:       fromNullString(entry.Note),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	entry.ID = m.ID
	entry.CreatedAt = m.CreatedAt
	return nil
}

func applyOrderFilter(q *gorm.DB, filter entities.OrderFilter) *gorm.DB {
	if filter.BuyerID != 0 {
		q = q.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.FarmerID != 0 {
		q = q.Where("farmer_id = ?", filter.FarmerID)
	}
	if filter.RiderID != 0 {
		q = q.Where("rider_id = ?", filter.RiderID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	return q
}

func orderToEntity(m *models.Order) *entities.Order {
	o := &entities.Order{
		ID:              m.ID,
		BuyerID:         m.BuyerID,
		FarmerID:        m.FarmerID,
		RiderID:         null.UintFromPtr(m.RiderID),
		Status:          entities.OrderStatus(m.Status),
		TotalCents:      m.TotalCents,
		ShippingAddress: m.ShippingAddress,
		Items:           make([]entities.OrderItem, 0, len(m.Items)),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for _, it := range m.Items {
		o.Items = append(o.Items, entities.OrderItem{
			ID:             it.ID,
			OrderID:        it.OrderID,
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	for _, h := range m.History {
		o.History = append(o.History, entities.OrderStatusHistory{
			ID:         h.ID,
			OrderID:    h.OrderID,
			FromStatus: entities.OrderStatus(h.FromStatus),
			ToStatus:   entities.OrderStatus(h.ToStatus),
			ActorID:    h.ActorID,
			ActorRole:  entities.UserRole(h.ActorRole),
			Note:       toNullString(h.Note),
			CreatedAt:  h.CreatedAt,
		})
	}
	return o
}
