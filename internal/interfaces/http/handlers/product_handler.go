package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/interfaces/http/response"
	"agrimarket.backend/pkg/utils"
)

type ProductService interface {
	Create(ctx context.Context, farmer *entities.User, input *entities.ProductInput) (*entities.Product, error)
	Update(ctx context.Context, farmer *entities.User, id uint, input *entities.ProductInput) (*entities.Product, error)
	GetMine(ctx context.Context, farmerID, id uint) (*entities.Product, error)
	ListMine(ctx context.Context, farmerID uint, filter entities.ProductFilter, page utils.PaginationParams) ([]*entities.Product, int64, error)
	GetPublic(ctx context.Context, id uint) (*entities.Product, error)
	ListPublic(ctx context.Context, filter entities.ProductFilter, page utils.PaginationParams) ([]*entities.Product, int64, error)
	ListForReview(ctx context.Context, filter entities.ProductFilter, page utils.PaginationParams) ([]*entities.Product, int64, error)
	Approve(ctx context.Context, id uint) (*entities.Product, error)
	Reject(ctx context.Context, id uint, reason string) (*entities.Product, error)
}

// ProductHandler handles the catalog, farmer product and product review endpoints
type ProductHandler struct {
	productUsecase ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productUsecase ProductService) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase}
}

func productFilter(c *gin.Context) entities.ProductFilter {
	return entities.ProductFilter{
		Status:   entities.ProductStatus(strings.TrimSpace(c.Query("status"))),
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
}

// ListPublic lists approved products
// GET /api/v1/products
func (h *ProductHandler) ListPublic(c *gin.Context) {
	page := pageParams(c)
	filter := productFilter(c)
	filter.Status = ""

	products, total, err := h.productUsecase.ListPublic(c.Request.Context(), filter, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "products", products, total, page)
}

// GetPublic returns one approved product
// GET /api/v1/products/:id
func (h *ProductHandler) GetPublic(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	product, err := h.productUsecase.GetPublic(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": product})
}

// Create adds a product for review
// POST /api/v1/farmer/products
func (h *ProductHandler) Create(c *gin.Context) {
	farmer, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	product, err := h.productUsecase.Create(c.Request.Context(), farmer, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"product": product})
}

// Update edits a product and sends it back for review
// PUT /api/v1/farmer/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	farmer, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	product, err := h.productUsecase.Update(c.Request.Context(), farmer, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": product})
}

// ListMine lists the farmer's own products in every status
// GET /api/v1/farmer/products
func (h *ProductHandler) ListMine(c *gin.Context) {
	farmer, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page := pageParams(c)
	products, total, err := h.productUsecase.ListMine(c.Request.Context(), farmer.ID, productFilter(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "products", products, total, page)
}

// GetMine returns one of the farmer's products
// GET /api/v1/farmer/products/:id
func (h *ProductHandler) GetMine(c *gin.Context) {
	farmer, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	product, err := h.productUsecase.GetMine(c.Request.Context(), farmer.ID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": product})
}

// ListForReview lists products for moderation, pending by default
// GET /api/v1/admin/products
func (h *ProductHandler) ListForReview(c *gin.Context) {
	page := pageParams(c)
	products, total, err := h.productUsecase.ListForReview(c.Request.Context(), productFilter(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "products", products, total, page)
}

// Approve publishes a product
// POST /api/v1/admin/products/:id/approve
func (h *ProductHandler) Approve(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	product, err := h.productUsecase.Approve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": product})
}

// Reject declines a product with a reason
// POST /api/v1/admin/products/:id/reject
func (h *ProductHandler) Reject(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.ReasonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	product, err := h.productUsecase.Reject(c.Request.Context(), id, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": product})
}
