package usecases

import (
	"context"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/domain/repositories"
	"golang.org/x/sync/errgroup"
)

// DashboardUsecase builds the per-role dashboards
type DashboardUsecase struct {
	repo repositories.DashboardRepository
}

// NewDashboardUsecase creates a new dashboard usecase
func NewDashboardUsecase(repo repositories.DashboardRepository) *DashboardUsecase {
	return &DashboardUsecase{repo: repo}
}

// Get returns the dashboard of the user's role
func (u *DashboardUsecase) Get(ctx context.Context, user *entities.User) (interface{}, error) {
	switch user.Role {
	case entities.UserRoleBuyer:
		return u.buyer(ctx, user.ID)
	case entities.UserRoleFarmer:
		return u.farmer(ctx, user.ID)
	case entities.UserRoleLogistics:
		return u.logistics(ctx, user.ID)
	case entities.UserRoleAdmin:
		return u.admin(ctx)
	}
	return nil, domainerrors.ErrForbidden
}

func (u *DashboardUsecase) buyer(ctx context.Context, buyerID uint) (*entities.BuyerDashboard, error) {
	out := &entities.BuyerDashboard{}
	filter := entities.OrderFilter{BuyerID: buyerID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.OrdersByStatus, err = u.repo.CountOrdersByStatus(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		delivered := filter
		delivered.Status = entities.OrderDelivered
		out.TotalSpentCents, err = u.repo.SumOrderTotals(gctx, delivered)
		return err
	})
	g.Go(func() (err error) {
		out.CartItems, err = u.repo.CountCartItems(gctx, buyerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *DashboardUsecase) farmer(ctx context.Context, farmerID uint) (*entities.FarmerDashboard, error) {
	out := &entities.FarmerDashboard{}
	filter := entities.OrderFilter{FarmerID: farmerID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.ProductsByStatus, err = u.repo.CountProductsByStatus(gctx, farmerID)
		return err
	})
	g.Go(func() (err error) {
		out.OrdersByStatus, err = u.repo.CountOrdersByStatus(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		delivered := filter
		delivered.Status = entities.OrderDelivered
		out.RevenueCents, err = u.repo.SumOrderTotals(gctx, delivered)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *DashboardUsecase) logistics(ctx context.Context, riderID uint) (*entities.LogisticsDashboard, error) {
	out := &entities.LogisticsDashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.DeliveriesByStatus, err = u.repo.CountOrdersByStatus(gctx, entities.OrderFilter{RiderID: riderID})
		return err
	})
	g.Go(func() (err error) {
		out.AvailableOrders, err = u.repo.CountAvailableOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *DashboardUsecase) admin(ctx context.Context) (*entities.AdminDashboard, error) {
	out := &entities.AdminDashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.UsersByRole, err = u.repo.CountUsersByRole(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.PendingRegistrations, err = u.repo.CountRegistrations(gctx, entities.RegistrationPendingApproval)
		return err
	})
	g.Go(func() (err error) {
		products, err := u.repo.CountProductsByStatus(gctx, 0)
		out.PendingProducts = products[string(entities.ProductPending)]
		return err
	})
	g.Go(func() (err error) {
		out.OrdersByStatus, err = u.repo.CountOrdersByStatus(gctx, entities.OrderFilter{})
		return err
	})
	g.Go(func() (err error) {
		out.DeliveredVolumeCents, err = u.repo.SumOrderTotals(gctx, entities.OrderFilter{Status: entities.OrderDelivered})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
