package handlers

import (
	"context"
	"net/http"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/interfaces/http/middleware"
	"giftroom.backend/internal/interfaces/http/response"
	"giftroom.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GrantService interface {
	Purchase(ctx context.Context, userID uuid.UUID, grantType entities.GrantType, idempotencyKey string) (*entities.Grant, error)
	GetStatus(ctx context.Context, userID uuid.UUID, grantType entities.GrantType) (*usecases.GrantView, error)
}

// GrantHandler handles grant endpoints
type GrantHandler struct {
	grantUsecase GrantService
}

// NewGrantHandler creates a new grant handler
func NewGrantHandler(grantUsecase GrantService) *GrantHandler {
	return &GrantHandler{grantUsecase: grantUsecase}
}

// parseGrantType validates the :type path segment or body field
func parseGrantType(raw string) (entities.GrantType, bool) {
	switch entities.GrantType(raw) {
	case entities.GrantTypeVerification, entities.GrantTypeVIP:
		return entities.GrantType(raw), true
	}
	return "", false
}

// Purchase buys a grant for the caller
// POST /api/v1/grants/purchase
func (h *GrantHandler) Purchase(c *gin.Context) {
	var input entities.PurchaseGrantInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	grantType, ok := parseGrantType(input.Type)
	if !ok {
		response.Error(c, domainerrors.BadRequest("Unknown grant type"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	grant, err := h.grantUsecase.Purchase(c.Request.Context(), userID, grantType, input.IdempotencyKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"grant": grant})
}

// GetStatus returns the caller's grant status for one kind
// GET /api/v1/grants/:type
func (h *GrantHandler) GetStatus(c *gin.Context) {
	grantType, ok := parseGrantType(c.Param("type"))
	if !ok {
		response.Error(c, domainerrors.BadRequest("Unknown grant type"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	view, err := h.grantUsecase.GetStatus(c.Request.Context(), userID, grantType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}
