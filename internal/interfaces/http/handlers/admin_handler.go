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

type ApprovalService interface {
	ListRegistrations(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error)
	Review(ctx context.Context, userID uint) (*entities.RegistrationReview, error)
	ApproveProfile(ctx context.Context, userID uint) (*entities.RegistrationStatusView, error)
	RejectProfile(ctx context.Context, userID uint, reason string) (*entities.RegistrationStatusView, error)
	SuspendProfile(ctx context.Context, userID uint, reason string) (*entities.RegistrationStatusView, error)
	VerifyDocument(ctx context.Context, userID uint, docType entities.DocumentType) (*entities.RegistrationStatusView, error)
	ApproveDocuments(ctx context.Context, userID uint) (*entities.RegistrationStatusView, error)
	RejectDocuments(ctx context.Context, userID uint, reason string) (*entities.RegistrationStatusView, error)
	VerifyBankAccount(ctx context.Context, userID uint) (*entities.RegistrationStatusView, error)
	RejectBankAccount(ctx context.Context, userID uint, reason string) (*entities.RegistrationStatusView, error)
}

type UserDirectory interface {
	ListUsers(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error)
}

// AdminHandler handles the registration review queue and the user directory
type AdminHandler struct {
	approvalUsecase ApprovalService
	users           UserDirectory
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(approvalUsecase ApprovalService, users UserDirectory) *AdminHandler {
	return &AdminHandler{approvalUsecase: approvalUsecase, users: users}
}

func userFilter(c *gin.Context) entities.UserFilter {
	return entities.UserFilter{
		Role:               entities.UserRole(strings.TrimSpace(c.Query("role"))),
		RegistrationStatus: entities.RegistrationStatus(strings.TrimSpace(c.Query("status"))),
		Search:             strings.TrimSpace(c.Query("search")),
	}
}

// ListRegistrations lists registrants, pending approval by default
// GET /api/v1/admin/registrations
func (h *AdminHandler) ListRegistrations(c *gin.Context) {
	page := pageParams(c)
	users, total, err := h.approvalUsecase.ListRegistrations(c.Request.Context(), userFilter(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "registrations", users, total, page)
}

// ListUsers lists every account
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page := pageParams(c)
	users, total, err := h.users.ListUsers(c.Request.Context(), userFilter(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "users", users, total, page)
}

// Review returns everything a registrant submitted
// GET /api/v1/admin/registrations/:userId
func (h *AdminHandler) Review(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}

	review, err := h.approvalUsecase.Review(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"registration": review})
}

// ApproveProfile POST /api/v1/admin/registrations/:userId/approve
func (h *AdminHandler) ApproveProfile(c *gin.Context) {
	h.decide(c, func(ctx context.Context, userID uint) (*entities.RegistrationStatusView, error) {
		return h.approvalUsecase.ApproveProfile(ctx, userID)
	})
}

// RejectProfile POST /api/v1/admin/registrations/:userId/reject
func (h *AdminHandler) RejectProfile(c *gin.Context) {
	h.decideWithReason(c, h.approvalUsecase.RejectProfile)
}

// SuspendProfile POST /api/v1/admin/registrations/:userId/suspend
func (h *AdminHandler) SuspendProfile(c *gin.Context) {
	h.decideWithReason(c, h.approvalUsecase.SuspendProfile)
}

// VerifyDocument marks one uploaded document as checked
// POST /api/v1/admin/registrations/:userId/documents/:docType/verify
func (h *AdminHandler) VerifyDocument(c *gin.Context) {
	docType := entities.DocumentType(c.Param("docType"))
	h.decide(c, func(ctx context.Context, userID uint) (*entities.RegistrationStatusView, error) {
		return h.approvalUsecase.VerifyDocument(ctx, userID, docType)
	})
}

// ApproveDocuments POST /api/v1/admin/registrations/:userId/documents/approve
func (h *AdminHandler) ApproveDocuments(c *gin.Context) {
	h.decide(c, h.approvalUsecase.ApproveDocuments)
}

// RejectDocuments POST /api/v1/admin/registrations/:userId/documents/reject
func (h *AdminHandler) RejectDocuments(c *gin.Context) {
	h.decideWithReason(c, h.approvalUsecase.RejectDocuments)
}

// VerifyBankAccount POST /api/v1/admin/registrations/:userId/bank-account/verify
func (h *AdminHandler) VerifyBankAccount(c *gin.Context) {
	h.decide(c, h.approvalUsecase.VerifyBankAccount)
}

// RejectBankAccount POST /api/v1/admin/registrations/:userId/bank-account/reject
func (h *AdminHandler) RejectBankAccount(c *gin.Context) {
	h.decideWithReason(c, h.approvalUsecase.RejectBankAccount)
}

func (h *AdminHandler) decide(c *gin.Context, fn func(ctx context.Context, userID uint) (*entities.RegistrationStatusView, error)) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}

	status, err := fn(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": status})
}

func (h *AdminHandler) decideWithReason(c *gin.Context, fn func(ctx context.Context, userID uint, reason string) (*entities.RegistrationStatusView, error)) {
	var input entities.ReasonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	h.decide(c, func(ctx context.Context, userID uint) (*entities.RegistrationStatusView, error) {
		return fn(ctx, userID, input.Reason)
	})
}
