package handlers

import (
	"context"
	"net/http"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/interfaces/http/middleware"
	"giftroom.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GiftService interface {
	ListGifts(ctx context.Context) ([]*entities.Gift, error)
	SendGift(ctx context.Context, senderID uuid.UUID, input *entities.SendGiftInput) (*entities.SendGiftResult, error)
}

// GiftHandler handles gift endpoints
type GiftHandler struct {
	giftUsecase GiftService
}

// NewGiftHandler creates a new gift handler
func NewGiftHandler(giftUsecase GiftService) *GiftHandler {
	return &GiftHandler{giftUsecase: giftUsecase}
}

// ListGifts lists the active gift catalog
// GET /api/v1/gifts
func (h *GiftHandler) ListGifts(c *gin.Context) {
	gifts, err := h.giftUsecase.ListGifts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"gifts": gifts})
}

// SendGift sends a gift to another user in a room
// POST /api/v1/gifts/send
func (h *GiftHandler) SendGift(c *gin.Context) {
	var input entities.SendGiftInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	senderID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	result, err := h.giftUsecase.SendGift(c.Request.Context(), senderID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
