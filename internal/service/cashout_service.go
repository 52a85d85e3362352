package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/parcel-ledger/internal/logger"
	"github.com/ignatzorin/parcel-ledger/internal/metrics"
	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/pkg/apperror"
	"github.com/ignatzorin/parcel-ledger/internal/repository"
	"github.com/ignatzorin/parcel-ledger/internal/validation"
)

// DefaultMinCashoutAmount: минимальная сумма выплаты по умолчанию.
var DefaultMinCashoutAmount = decimal.NewFromInt(100)

// maxAmountScale: число знаков после запятой, которое хранится в колонке amount.
const maxAmountScale = 2

// CashoutStore хранит заявки на выплату. CreatePending обязан сериализовать
// создание заявок одного курьера, отказывать второй заявке в ожидании
// (repository.ErrPendingCashoutExists) и вызывать guard под той же блокировкой.
// Resolve обязан менять только заявки в ожидании.
type CashoutStore interface {
	CashoutLister
	HasPending(ctx context.Context, riderID string) (bool, error)
	CreatePending(ctx context.Context, req *models.CashoutRequest, guard repository.CashoutGuard) (*models.CashoutRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.CashoutRequest, error)
	List(ctx context.Context, status string) ([]models.CashoutRequest, error)
	Resolve(ctx context.Context, id uuid.UUID, res models.CashoutResolution) (*models.CashoutRequest, error)
}

// CashoutService принимает заявки курьеров на выплату.
type CashoutService struct {
	store     CashoutStore
	ledger    *BalanceLedger
	minAmount decimal.Decimal
	metrics   *metrics.Ledger
	now       func() time.Time
}

func NewCashoutService(store CashoutStore, ledger *BalanceLedger, minAmount decimal.Decimal, m *metrics.Ledger) *CashoutService {
	if minAmount.Sign() <= 0 {
		minAmount = DefaultMinCashoutAmount
	}
	return &CashoutService{
		store:     store,
		ledger:    ledger,
		minAmount: minAmount,
		metrics:   m,
		now:       time.Now,
	}
}

// MinAmount возвращает минимальную сумму выплаты.
func (s *CashoutService) MinAmount() decimal.Decimal {
	return s.minAmount
}

// Submit создаёт заявку на выплату в статусе pending.
// Проверки идут по порядку, первая неудачная возвращается:
// данные запроса, заявка в ожидании, минимальная сумма, баланс.
func (s *CashoutService) Submit(ctx context.Context, riderID, riderName string, amount decimal.Decimal) (*models.CashoutRequest, error) {
	riderID = strings.TrimSpace(riderID)
	req, err := s.submit(ctx, riderID, strings.TrimSpace(riderName), amount)
	s.metrics.ObserveSubmission(resultLabel(err))

	entry := logger.Log.WithFields(logrus.Fields{
		"rider_id": riderID,
		"amount":   amount.String(),
	})
	switch {
	case err == nil:
		entry.WithField("cashout_id", req.ID).Info("cashout submitted")
	case apperror.Is(err, apperror.ErrCodeStorageUnavailable):
		entry.WithError(err).Error("cashout submission failed")
	default:
		entry.WithField("reason", apperror.CodeOf(err)).Info("cashout rejected")
	}

	return req, err
}

func (s *CashoutService) submit(ctx context.Context, riderID, riderName string, amount decimal.Decimal) (*models.CashoutRequest, error) {
	if riderID == "" || riderName == "" {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "не указаны идентификатор или имя курьера")
	}
	if err := validation.ValidateRiderID(riderID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidateRiderName(riderName); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if amount.Sign() <= 0 {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "сумма должна быть положительной")
	}
	if !amount.Equal(amount.Truncate(maxAmountScale)) {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "сумма может содержать не более двух знаков после запятой")
	}

	pending, err := s.store.HasPending(ctx, riderID)
	if err != nil {
		return nil, apperror.Storage(fmt.Errorf("cashout service: check pending: %w", err))
	}
	if pending {
		return nil, apperror.ErrDuplicatePending
	}

	if amount.LessThan(s.minAmount) {
		return nil, apperror.ErrBelowMinimum.WithDetail("minimum_amount", s.minAmount)
	}

	// Заработок только растёт, поэтому доставки читаются до блокировки.
	deliveries, err := s.ledger.eligibleDeliveries(ctx, riderID)
	if err != nil {
		return nil, err
	}

	guard := func(requests []models.CashoutRequest) error {
		balance := s.ledger.snapshot(riderID, deliveries, requests)
		if amount.GreaterThan(balance.CurrentBalance) {
			return apperror.ErrInsufficient.
				WithDetail("available_balance", balance.CurrentBalance).
				WithDetail("requested_amount", amount)
		}
		return nil
	}

	created, err := s.store.CreatePending(ctx, &models.CashoutRequest{
		ID:          uuid.New(),
		RiderID:     riderID,
		RiderName:   riderName,
		Amount:      amount,
		Status:      models.CashoutStatusPending,
		RequestedAt: s.now().UTC(),
		Notes:       "",
	}, guard)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		// Параллельная заявка того же курьера успела раньше.
		if errors.Is(err, repository.ErrPendingCashoutExists) {
			return nil, apperror.ErrDuplicatePending
		}
		return nil, apperror.Storage(fmt.Errorf("cashout service: create: %w", err))
	}

	return created, nil
}

// History возвращает заявки курьера, новые первыми.
func (s *CashoutService) History(ctx context.Context, riderID string) ([]models.CashoutRequest, error) {
	riderID = strings.TrimSpace(riderID)
	if riderID == "" {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "не указан идентификатор курьера")
	}

	requests, err := s.store.ListByRider(ctx, riderID)
	if err != nil {
		return nil, apperror.Storage(fmt.Errorf("cashout service: history: %w", err))
	}
	sortNewestFirst(requests)
	return requests, nil
}

func sortNewestFirst(requests []models.CashoutRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].RequestedAt.After(requests[j].RequestedAt)
	})
}

// resultLabel превращает ошибку в значение метки result.
func resultLabel(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	if code := apperror.CodeOf(err); code != "" {
		return strings.ToLower(string(code))
	}
	return "error"
}
