package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/interfaces/http/response"
)

type CartService interface {
	AddItem(ctx context.Context, buyerID uint, input *entities.CartItemInput) (*entities.CartView, error)
	UpdateItem(ctx context.Context, buyerID uint, input *entities.CartItemInput) (*entities.CartView, error)
	RemoveItem(ctx context.Context, buyerID, productID uint) (*entities.CartView, error)
	View(ctx context.Context, buyerID uint) (*entities.CartView, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, buyer *entities.User, input *entities.CheckoutInput) ([]*entities.Order, error)
}

// CartHandler handles the buyer cart and checkout
type CartHandler struct {
	cartUsecase  CartService
	orderUsecase CheckoutService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartUsecase CartService, orderUsecase CheckoutService) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, orderUsecase: orderUsecase}
}

// View returns the cart with subtotals
// GET /api/v1/cart
func (h *CartHandler) View(c *gin.Context) {
	buyerID, err := authenticatedUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	cart, err := h.cartUsecase.View(c.Request.Context(), buyerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart": cart})
}

// AddItem adds a product or increases its quantity
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	buyerID, err := authenticatedUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.CartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	cart, err := h.cartUsecase.AddItem(c.Request.Context(), buyerID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart": cart})
}

// UpdateItem sets the quantity of a cart line
// PUT /api/v1/cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	buyerID, err := authenticatedUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	cart, err := h.cartUsecase.UpdateItem(c.Request.Context(), buyerID, &entities.CartItemInput{
		ProductID: productID,
		Quantity:  input.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart": cart})
}

// RemoveItem drops a cart line
// DELETE /api/v1/cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	buyerID, err := authenticatedUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		response.Error(c, err)
		return
	}

	cart, err := h.cartUsecase.RemoveItem(c.Request.Context(), buyerID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart": cart})
}

// Checkout turns the cart into one order per farmer
// POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	buyer, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	orders, err := h.orderUsecase.Checkout(c.Request.Context(), buyer, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"orders": orders})
}
