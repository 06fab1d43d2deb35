package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/interfaces/http/response"
	"agrimarket.backend/pkg/utils"
)

type OrderService interface {
	List(ctx context.Context, actor *entities.User, filter entities.OrderFilter, page utils.PaginationParams) ([]*entities.Order, int64, error)
	Get(ctx context.Context, actor *entities.User, id uint) (*entities.Order, error)
	UpdateStatus(ctx context.Context, actor *entities.User, id uint, input *entities.OrderStatusInput) (*entities.Order, error)
	ListAvailable(ctx context.Context, rider *entities.User, page utils.PaginationParams) ([]*entities.Order, int64, error)
	Claim(ctx context.Context, rider *entities.User, id uint) (*entities.Order, error)
}

// OrderHandler handles order tracking, fulfilment and delivery claims
type OrderHandler struct {
	orderUsecase OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderUsecase OrderService) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase}
}

// List lists the orders visible to the caller's role
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	actor, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page := pageParams(c)
	filter := entities.OrderFilter{Status: entities.OrderStatus(c.Query("status"))}
	orders, total, err := h.orderUsecase.List(c.Request.Context(), actor, filter, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "orders", orders, total, page)
}

// Get returns one order with its status history
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	actor, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderUsecase.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}

// UpdateStatus moves an order along its lifecycle
// PUT /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.OrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	order, err := h.orderUsecase.UpdateStatus(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}

// ListAvailable lists confirmed orders no rider has claimed
// GET /api/v1/logistics/orders/available
func (h *OrderHandler) ListAvailable(c *gin.Context) {
	rider, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page := pageParams(c)
	orders, total, err := h.orderUsecase.ListAvailable(c.Request.Context(), rider, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "orders", orders, total, page)
}

// Claim assigns a confirmed order to the calling rider
// POST /api/v1/logistics/orders/:id/claim
func (h *OrderHandler) Claim(c *gin.Context) {
	rider, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderUsecase.Claim(c.Request.Context(), rider, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}
