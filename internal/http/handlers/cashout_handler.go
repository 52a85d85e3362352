package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/parcel-ledger/internal/dto"
	"github.com/ignatzorin/parcel-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/pkg/apperror"
)

// CashoutSubmitter принимает и отдаёт заявки курьера.
type CashoutSubmitter interface {
	Submit(ctx context.Context, riderID, riderName string, amount decimal.Decimal) (*models.CashoutRequest, error)
	History(ctx context.Context, riderID string) ([]models.CashoutRequest, error)
}

// BalanceReader считает баланс и заработок курьера.
type BalanceReader interface {
	BalanceOf(ctx context.Context, riderID string) (*models.RiderBalanceSnapshot, error)
	Earnings(ctx context.Context, riderID string) (*models.EarningsBreakdown, error)
}

// RiderCashoutHandler обслуживает эндпоинты курьера.
type RiderCashoutHandler struct {
	cashouts CashoutSubmitter
	ledger   BalanceReader
}

func NewRiderCashoutHandler(cashouts CashoutSubmitter, ledger BalanceReader) *RiderCashoutHandler {
	return &RiderCashoutHandler{cashouts: cashouts, ledger: ledger}
}

// Submit POST /api/rider/cashouts
func (h *RiderCashoutHandler) Submit(c *gin.Context) {
	identity, err := common.CurrentIdentity(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.SubmitCashoutRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	// Курьер может создать заявку только от своего имени
	if riderID := strings.TrimSpace(req.RiderID); riderID != "" && riderID != identity.Subject {
		common.RespondError(c, apperror.New(apperror.ErrCodeForbidden, "нельзя создать заявку за другого курьера"))
		return
	}

	riderName := strings.TrimSpace(req.RiderName)
	if riderName == "" {
		riderName = identity.Name
	}

	created, err := h.cashouts.Submit(c.Request.Context(), identity.Subject, riderName, req.Amount)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// History GET /api/rider/cashouts
func (h *RiderCashoutHandler) History(c *gin.Context) {
	identity, err := common.CurrentIdentity(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	requests, err := h.cashouts.History(c.Request.Context(), identity.Subject)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if requests == nil {
		requests = []models.CashoutRequest{}
	}
	c.JSON(http.StatusOK, requests)
}

// Balance GET /api/rider/balance
func (h *RiderCashoutHandler) Balance(c *gin.Context) {
	identity, err := common.CurrentIdentity(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	snapshot, err := h.ledger.BalanceOf(c.Request.Context(), identity.Subject)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Earnings GET /api/rider/earnings
func (h *RiderCashoutHandler) Earnings(c *gin.Context) {
	identity, err := common.CurrentIdentity(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	breakdown, err := h.ledger.Earnings(c.Request.Context(), identity.Subject)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if breakdown.Deliveries == nil {
		breakdown.Deliveries = []models.DeliveryEarning{}
	}
	c.JSON(http.StatusOK, breakdown)
}
