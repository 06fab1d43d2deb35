package usecases_test

import (
	"context"
	"errors"
	"testing"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/usecases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardUsecase_PerRole(t *testing.T) {
	repo := new(MockDashboardRepository)
	uc := usecases.NewDashboardUsecase(repo)
	ctx := context.Background()

	repo.On("CountOrdersByStatus", mock.Anything, entities.OrderFilter{BuyerID: 1}).Return(entities.StatusCounts{"pending": 2}, nil)
	repo.On("SumOrderTotals", mock.Anything, entities.OrderFilter{BuyerID: 1, Status: entities.OrderDelivered}).Return(int64(1500), nil)
	repo.On("CountCartItems", mock.Anything, uint(1)).Return(int64(3), nil)

	got, err := uc.Get(ctx, &entities.User{ID: 1, Role: entities.UserRoleBuyer})
	require.NoError(t, err)
	buyer := got.(*entities.BuyerDashboard)
	assert.Equal(t, int64(2), buyer.OrdersByStatus["pending"])
	assert.Equal(t, int64(1500), buyer.TotalSpentCents)
	assert.Equal(t, int64(3), buyer.CartItems)

	repo.On("CountProductsByStatus", mock.Anything, uint(2)).Return(entities.StatusCounts{"approved": 4}, nil)
	repo.On("CountOrdersByStatus", mock.Anything, entities.OrderFilter{FarmerID: 2}).Return(entities.StatusCounts{}, nil)
	repo.On("SumOrderTotals", mock.Anything, entities.OrderFilter{FarmerID: 2, Status: entities.OrderDelivered}).Return(int64(900), nil)

	got, err = uc.Get(ctx, &entities.User{ID: 2, Role: entities.UserRoleFarmer})
	require.NoError(t, err)
	farmer := got.(*entities.FarmerDashboard)
	assert.Equal(t, int64(4), farmer.ProductsByStatus["approved"])
	assert.Equal(t, int64(900), farmer.RevenueCents)

	repo.On("CountOrdersByStatus", mock.Anything, entities.OrderFilter{RiderID: 3}).Return(entities.StatusCounts{"shipped": 1}, nil)
	repo.On("CountAvailableOrders", mock.Anything).Return(int64(6), nil)

	got, err = uc.Get(ctx, &entities.User{ID: 3, Role: entities.UserRoleLogistics})
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.(*entities.LogisticsDashboard).AvailableOrders)

	repo.On("CountUsersByRole", mock.Anything).Return(entities.StatusCounts{"buyer": 10, "farmer": 3}, nil)
	repo.On("CountRegistrations", mock.Anything, entities.RegistrationPendingApproval).Return(int64(2), nil)
	repo.On("CountProductsByStatus", mock.Anything, uint(0)).Return(entities.StatusCounts{"pending": 5, "approved": 7}, nil)
	repo.On("CountOrdersByStatus", mock.Anything, entities.OrderFilter{}).Return(entities.StatusCounts{"delivered": 8}, nil)
	repo.On("SumOrderTotals", mock.Anything, entities.OrderFilter{Status: entities.OrderDelivered}).Return(int64(42000), nil)

	got, err = uc.Get(ctx, &entities.User{ID: 4, Role: entities.UserRoleAdmin})
	require.NoError(t, err)
	admin := got.(*entities.AdminDashboard)
	assert.Equal(t, int64(2), admin.PendingRegistrations)
	assert.Equal(t, int64(5), admin.PendingProducts)
	assert.Equal(t, int64(42000), admin.DeliveredVolumeCents)

	_, err = uc.Get(ctx, &entities.User{ID: 5, Role: "guest"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestDashboardUsecase_PropagatesErrors(t *testing.T) {
	repo := new(MockDashboardRepository)
	uc := usecases.NewDashboardUsecase(repo)

	repo.On("CountOrdersByStatus", mock.Anything, mock.Anything).Return(entities.StatusCounts(nil), errors.New("db down"))
	repo.On("CountAvailableOrders", mock.Anything).Return(int64(0), nil)

	_, err := uc.Get(context.Background(), &entities.User{ID: 3, Role: entities.UserRoleLogistics})
	assert.EqualError(t, err, "db down")
}
