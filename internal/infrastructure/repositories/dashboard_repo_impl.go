package repositories

import (
	"context"

	"agrimarket.backend/internal/domain/entities"
	"agrimarket.backend/internal/infrastructure/models"
	"gorm.io/gorm"
)

// DashboardRepository runs the aggregate queries behind dashboards
type DashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

type labelCount struct {
	Label string
	Total int64
}

func groupCount(q *gorm.DB, column string) (entities.StatusCounts, error) {
	var rows []labelCount
	if err := q.Select(column + " AS label, COUNT(*) AS total").Group(column).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := entities.StatusCounts{}
	for _, row := range rows {
		out[row.Label] = row.Total
	}
	return out, nil
}

// CountUsersByRole counts accounts per role
func (r *DashboardRepository) CountUsersByRole(ctx context.Context) (entities.StatusCounts, error) {
	return groupCount(GetDB(ctx, r.db).Model(&models.User{}), "role")
}

// CountRegistrations counts onboarding users in a registration status
func (r *DashboardRepository) CountRegistrations(ctx context.Context, status entities.RegistrationStatus) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.User{}).
		Where("role IN ? AND registration_status = ?", []string{string(entities.UserRoleFarmer), string(entities.UserRoleLogistics)}, string(status)).
		Count(&count).Error
	return count, err
}

// CountProductsByStatus counts products per status, for one farmer when farmerID is set
func (r *DashboardRepository) CountProductsByStatus(ctx context.Context, farmerID uint) (entities.StatusCounts, error) {
	q := GetDB(ctx, r.db).Model(&models.Product{})
	if farmerID != 0 {
		q = q.Where("farmer_id = ?", farmerID)
	}
	return groupCount(q, "status")
}

// CountOrdersByStatus counts orders per status; filter.Status is ignored
func (r *DashboardRepository) CountOrdersByStatus(ctx context.Context, filter entities.OrderFilter) (entities.StatusCounts, error) {
	filter.Status = ""
	return groupCount(applyOrderFilter(GetDB(ctx, r.db).Model(&models.Order{}), filter), "status")
}

// SumOrderTotals sums order totals matching filter
func (r *DashboardRepository) SumOrderTotals(ctx context.Context, filter entities.OrderFilter) (int64, error) {
	var total int64
	err := applyOrderFilter(GetDB(ctx, r.db).Model(&models.Order{}), filter).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&total).Error
	return total, err
}

// CountCartItems counts the lines in a buyer's cart
func (r *DashboardRepository) CountCartItems(ctx context.Context, buyerID uint) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.CartItem{}).Where("buyer_id = ?", buyerID).Count(&count).Error
	return count, err
}

// CountAvailableOrders counts confirmed orders without a rider
func (r *DashboardRepository) CountAvailableOrders(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Order{}).
		Where("status = ? AND rider_id IS NULL", string(entities.OrderConfirmed)).
		Count(&count).Error
	return count, err
}
