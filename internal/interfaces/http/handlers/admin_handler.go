package handlers

import (
	"context"
	"net/http"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/infrastructure/jobs"
	"giftroom.backend/internal/interfaces/http/middleware"
	"giftroom.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminGrantService interface {
	AdminGrant(ctx context.Context, userID uuid.UUID, grantType entities.GrantType, durationDays int, actorID uuid.UUID) (*entities.Grant, error)
	Revoke(ctx context.Context, userID uuid.UUID, grantType entities.GrantType, actorID uuid.UUID, reason string) error
}

type AdminWalletService interface {
	AdminAdjust(ctx context.Context, userID uuid.UUID, delta int64, actorID uuid.UUID, reason string) (*entities.WalletTransaction, error)
}

type SweepService interface {
	List() []jobs.TaskStatus
	Start(name string) error
	Stop(name string) error
	RunAll(ctx context.Context) []jobs.TaskReport
}

type AuditRecorder interface {
	Create(ctx context.Context, action *entities.AdminAction) error
}

// AdminHandler handles privileged endpoints
type AdminHandler struct {
	grantUsecase  AdminGrantService
	walletUsecase AdminWalletService
	scheduler     SweepService
	actionRepo    AuditRecorder
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(grantUsecase AdminGrantService, walletUsecase AdminWalletService, scheduler SweepService, actionRepo AuditRecorder) *AdminHandler {
	return &AdminHandler{
		grantUsecase:  grantUsecase,
		walletUsecase: walletUsecase,
		scheduler:     scheduler,
		actionRepo:    actionRepo,
	}
}

// GrantPrivilege grants a privilege without payment
// POST /api/v1/admin/grants
func (h *AdminHandler) GrantPrivilege(c *gin.Context) {
	var input entities.AdminGrantInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}
	grantType, ok := parseGrantType(input.Type)
	if !ok {
		response.Error(c, domainerrors.BadRequest("Unknown grant type"))
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	grant, err := h.grantUsecase.AdminGrant(c.Request.Context(), userID, grantType, input.DurationDays, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"grant": grant})
}

// RevokePrivilege revokes a grant immediately
// DELETE /api/v1/admin/grants
func (h *AdminHandler) RevokePrivilege(c *gin.Context) {
	var input entities.RevokeGrantInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}
	grantType, ok := parseGrantType(input.Type)
	if !ok {
		response.Error(c, domainerrors.BadRequest("Unknown grant type"))
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	if err := h.grantUsecase.Revoke(c.Request.Context(), userID, grantType, actorID, input.Reason); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"revoked": true})
}

// AdjustWalletInput represents input for an admin balance correction
type AdjustWalletInput struct {
	UserID string `json:"userId" binding:"required"`
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AdjustWallet applies a signed balance correction
// POST /api/v1/admin/wallets/adjust
func (h *AdminHandler) AdjustWallet(c *gin.Context) {
	var input AdjustWalletInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	entry, err := h.walletUsecase.AdminAdjust(c.Request.Context(), userID, input.Delta, actorID, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transaction": entry})
}

// ListSweeps reports the registered background sweeps
// GET /api/v1/admin/sweeps
func (h *AdminHandler) ListSweeps(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"tasks": h.scheduler.List()})
}

// StartSweep re-schedules a stopped sweep
// POST /api/v1/admin/sweeps/:name/start
func (h *AdminHandler) StartSweep(c *gin.Context) {
	if err := h.scheduler.Start(c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"started": true})
}

// StopSweep removes a sweep from the schedule
// POST /api/v1/admin/sweeps/:name/stop
func (h *AdminHandler) StopSweep(c *gin.Context) {
	if err := h.scheduler.Stop(c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stopped": true})
}

// RunSweeps forces one run of every sweep and reports per-task counts.
// The trigger itself is audited before the sweeps run.
// POST /api/v1/admin/sweeps/run
func (h *AdminHandler) RunSweeps(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	if err := h.actionRepo.Create(c.Request.Context(), &entities.AdminAction{
		ActorID: actorID,
		Action:  "sweep.run_all",
	}); err != nil {
		response.Error(c, err)
		return
	}

	reports := h.scheduler.RunAll(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"reports": reports})
}
