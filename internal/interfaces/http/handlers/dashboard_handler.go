package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"agrimarket.backend/internal/domain/entities"
	"agrimarket.backend/internal/interfaces/http/response"
)

type DashboardService interface {
	Get(ctx context.Context, user *entities.User) (interface{}, error)
}

// DashboardHandler serves the per-role dashboard
type DashboardHandler struct {
	dashboardUsecase DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardUsecase DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardUsecase: dashboardUsecase}
}

// Get returns the dashboard of the caller's role
// GET /api/v1/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dashboard, err := h.dashboardUsecase.Get(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"role":      user.Role,
		"dashboard": dashboard,
	})
}
