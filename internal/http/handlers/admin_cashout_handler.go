package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/parcel-ledger/internal/dto"
	"github.com/ignatzorin/parcel-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/pkg/apperror"
)

// CashoutAdministrator: операции администратора над заявками.
type CashoutAdministrator interface {
	Resolve(ctx context.Context, id uuid.UUID, status string, transactionID, notes *string) (*models.CashoutRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CashoutRequest, error)
	List(ctx context.Context, statusFilter string) ([]models.CashoutRequest, error)
}

// AdminCashoutHandler обслуживает эндпоинты администратора.
type AdminCashoutHandler struct {
	admin  CashoutAdministrator
	ledger BalanceReader
}

func NewAdminCashoutHandler(admin CashoutAdministrator, ledger BalanceReader) *AdminCashoutHandler {
	return &AdminCashoutHandler{admin: admin, ledger: ledger}
}

// List GET /api/admin/cashouts?status=pending
func (h *AdminCashoutHandler) List(c *gin.Context) {
	requests, err := h.admin.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if requests == nil {
		requests = []models.CashoutRequest{}
	}
	c.JSON(http.StatusOK, requests)
}

// Get GET /api/admin/cashouts/:id
func (h *AdminCashoutHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	req, err := h.admin.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Resolve PATCH /api/admin/cashouts/:id
func (h *AdminCashoutHandler) Resolve(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.ResolveCashoutRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	updated, err := h.admin.Resolve(c.Request.Context(), id, req.Status, req.TransactionID, req.Notes)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// RiderBalance GET /api/admin/riders/:riderId/balance
func (h *AdminCashoutHandler) RiderBalance(c *gin.Context) {
	riderID := c.Param("riderId")
	if riderID == "" {
		common.RespondError(c, apperror.New(apperror.ErrCodeInvalidInput, "параметр riderId обязателен"))
		return
	}

	snapshot, err := h.ledger.BalanceOf(c.Request.Context(), riderID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
