package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/parcel-ledger/internal/logger"
	"github.com/ignatzorin/parcel-ledger/internal/metrics"
	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/pkg/apperror"
	"github.com/ignatzorin/parcel-ledger/internal/repository"
	"github.com/ignatzorin/parcel-ledger/internal/validation"
)

// AdminCashoutService переводит заявки в терминальный статус.
type AdminCashoutService struct {
	store   CashoutStore
	metrics *metrics.Ledger
	now     func() time.Time
}

func NewAdminCashoutService(store CashoutStore, m *metrics.Ledger) *AdminCashoutService {
	return &AdminCashoutService{store: store, metrics: m, now: time.Now}
}

// Resolve завершает или отклоняет заявку в ожидании. Переоткрыть заявку нельзя,
// повторная обработка возвращает ALREADY_RESOLVED.
// transactionID сохраняется только для завершённых заявок.
func (s *AdminCashoutService) Resolve(ctx context.Context, id uuid.UUID, status string, transactionID, notes *string) (*models.CashoutRequest, error) {
	target, ok := models.NormalizeCashoutStatus(status)
	if !ok || target == models.CashoutStatusPending {
		s.metrics.ObserveResolution(resultLabel(apperror.ErrInvalidStatus))
		return nil, apperror.ErrInvalidStatus.WithDetail("allowed", []string{models.CashoutStatusCompleted, models.CashoutStatusRejected})
	}

	res := models.CashoutResolution{
		Status:      target,
		ProcessedAt: s.now().UTC(),
	}
	if target == models.CashoutStatusCompleted && transactionID != nil {
		if ref := strings.TrimSpace(*transactionID); ref != "" {
			res.TransactionID = &ref
		}
	}
	if notes != nil {
		res.Notes = strings.TrimSpace(*notes)
	}

	var updated *models.CashoutRequest
	err := validateResolutionText(res)
	if err == nil {
		updated, err = s.resolve(ctx, id, res)
	}
	s.metrics.ObserveResolution(resultLabel(err))
	if err == nil {
		s.metrics.ObserveResolved(target)
	}

	entry := logger.Log.WithFields(logrus.Fields{
		"cashout_id": id,
		"status":     target,
	})
	switch {
	case err == nil:
		entry.WithField("rider_id", updated.RiderID).Info("cashout resolved")
	case apperror.Is(err, apperror.ErrCodeStorageUnavailable):
		entry.WithError(err).Error("cashout resolution failed")
	default:
		entry.WithField("reason", apperror.CodeOf(err)).Warn("cashout resolution rejected")
	}

	return updated, err
}

func validateResolutionText(res models.CashoutResolution) error {
	if res.TransactionID != nil {
		if err := validation.ValidateTransactionID(*res.TransactionID); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}
	if err := validation.ValidateNotes(res.Notes); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	return nil
}

func (s *AdminCashoutService) resolve(ctx context.Context, id uuid.UUID, res models.CashoutResolution) (*models.CashoutRequest, error) {
	updated, err := s.store.Resolve(ctx, id, res)
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, repository.ErrCashoutNotFound):
		return nil, apperror.ErrCashoutNotFound
	case errors.Is(err, repository.ErrCashoutAlreadyResolved):
		return nil, apperror.ErrAlreadyResolved
	default:
		return nil, apperror.Storage(fmt.Errorf("admin cashout service: resolve: %w", err))
	}
}

// Get возвращает заявку по идентификатору.
func (s *AdminCashoutService) Get(ctx context.Context, id uuid.UUID) (*models.CashoutRequest, error) {
	req, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCashoutNotFound) {
			return nil, apperror.ErrCashoutNotFound
		}
		return nil, apperror.Storage(fmt.Errorf("admin cashout service: get: %w", err))
	}
	return req, nil
}

// List возвращает заявки, новые первыми. Пустой statusFilter означает все статусы.
func (s *AdminCashoutService) List(ctx context.Context, statusFilter string) ([]models.CashoutRequest, error) {
	var status string
	if strings.TrimSpace(statusFilter) != "" {
		normalized, ok := models.NormalizeCashoutStatus(statusFilter)
		if !ok {
			return nil, apperror.ErrInvalidStatus
		}
		status = normalized
	}

	requests, err := s.store.List(ctx, status)
	if err != nil {
		return nil, apperror.Storage(fmt.Errorf("admin cashout service: list: %w", err))
	}
	sortNewestFirst(requests)
	return requests, nil
}
