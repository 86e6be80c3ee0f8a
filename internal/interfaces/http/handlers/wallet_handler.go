package handlers

import (
	"context"
	"net/http"
	"strconv"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/interfaces/http/middleware"
	"giftroom.backend/internal/interfaces/http/response"
	"giftroom.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WalletService interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.WalletTransaction, utils.PaginationMeta, error)
	TopUp(ctx context.Context, userID uuid.UUID, amount int64, reference string) (*entities.WalletTransaction, error)
}

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	walletUsecase WalletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase WalletService) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// GetWallet returns the caller's wallet
// GET /api/v1/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallet, err := h.walletUsecase.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// GetHistory lists the caller's ledger entries, newest first
// GET /api/v1/wallet/history
func (h *WalletHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	transactions, meta, err := h.walletUsecase.GetHistory(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination":   meta,
	})
}

// TopUpInput represents input for a wallet top-up
type TopUpInput struct {
	Amount    int64  `json:"amount" binding:"required"`
	Reference string `json:"reference"`
}

// TopUp credits purchased coins
// POST /api/v1/wallet/topup
func (h *WalletHandler) TopUp(c *gin.Context) {
	var input TopUpInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	entry, err := h.walletUsecase.TopUp(c.Request.Context(), userID, input.Amount, input.Reference)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"transaction": entry})
}
