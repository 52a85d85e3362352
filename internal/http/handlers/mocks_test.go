package handlers

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/parcel-ledger/internal/http/middleware"
	"github.com/ignatzorin/parcel-ledger/internal/models"
)

type mockCashouts struct {
	mock.Mock
}

func (m *mockCashouts) Submit(ctx context.Context, riderID, riderName string, amount decimal.Decimal) (*models.CashoutRequest, error) {
	args := m.Called(ctx, riderID, riderName, amount)
	if req, ok := args.Get(0).(*models.CashoutRequest); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCashouts) History(ctx context.Context, riderID string) ([]models.CashoutRequest, error) {
	args := m.Called(ctx, riderID)
	if reqs, ok := args.Get(0).([]models.CashoutRequest); ok {
		return reqs, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) BalanceOf(ctx context.Context, riderID string) (*models.RiderBalanceSnapshot, error) {
	args := m.Called(ctx, riderID)
	if snap, ok := args.Get(0).(*models.RiderBalanceSnapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLedger) Earnings(ctx context.Context, riderID string) (*models.EarningsBreakdown, error) {
	args := m.Called(ctx, riderID)
	if b, ok := args.Get(0).(*models.EarningsBreakdown); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAdmin struct {
	mock.Mock
}

func (m *mockAdmin) Resolve(ctx context.Context, id uuid.UUID, status string, transactionID, notes *string) (*models.CashoutRequest, error) {
	args := m.Called(ctx, id, status, transactionID, notes)
	if req, ok := args.Get(0).(*models.CashoutRequest); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdmin) Get(ctx context.Context, id uuid.UUID) (*models.CashoutRequest, error) {
	args := m.Called(ctx, id)
	if req, ok := args.Get(0).(*models.CashoutRequest); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdmin) List(ctx context.Context, statusFilter string) ([]models.CashoutRequest, error) {
	args := m.Called(ctx, statusFilter)
	if reqs, ok := args.Get(0).([]models.CashoutRequest); ok {
		return reqs, args.Error(1)
	}
	return nil, args.Error(1)
}

type fakePinger struct {
	err   error
	stats sql.DBStats
}

func (p fakePinger) PingContext(context.Context) error { return p.err }
func (p fakePinger) Stats() sql.DBStats                 { return p.stats }

// withIdentity подменяет AuthMiddleware в тестах хэндлеров.
func withIdentity(identity *models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity != nil {
			c.Set(middleware.ContextIdentityKey, identity)
		}
		c.Next()
	}
}

func newTestEngine(identity *models.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(withIdentity(identity))
	return r
}
