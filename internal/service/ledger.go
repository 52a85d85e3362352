package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/parcel-ledger/internal/logger"
	"github.com/ignatzorin/parcel-ledger/internal/metrics"
	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/pkg/apperror"
)

// DeliverySource отдаёт завершённые доставки курьера.
type DeliverySource interface {
	ListEarningEligible(ctx context.Context, riderID string) ([]models.DeliveryRecord, error)
}

// CashoutLister отдаёт все заявки курьера на выплату в любом статусе.
type CashoutLister interface {
	ListByRider(ctx context.Context, riderID string) ([]models.CashoutRequest, error)
}

// BalanceLedger считает баланс курьера. Баланс пересчитывается из исходных
// записей при каждом вызове и нигде не кэшируется.
type BalanceLedger struct {
	deliveries DeliverySource
	cashouts   CashoutLister
	metrics    *metrics.Ledger
}

func NewBalanceLedger(deliveries DeliverySource, cashouts CashoutLister, m *metrics.Ledger) *BalanceLedger {
	return &BalanceLedger{deliveries: deliveries, cashouts: cashouts, metrics: m}
}

// BalanceOf возвращает текущий баланс курьера.
func (l *BalanceLedger) BalanceOf(ctx context.Context, riderID string) (*models.RiderBalanceSnapshot, error) {
	riderID = strings.TrimSpace(riderID)
	if riderID == "" {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "не указан идентификатор курьера")
	}

	deliveries, err := l.eligibleDeliveries(ctx, riderID)
	if err != nil {
		return nil, err
	}

	requests, err := l.cashouts.ListByRider(ctx, riderID)
	if err != nil {
		return nil, apperror.Storage(fmt.Errorf("balance ledger: list cashouts: %w", err))
	}

	snapshot := l.snapshot(riderID, deliveries, requests)
	return &snapshot, nil
}

// Earnings возвращает заработок курьера с разбивкой по доставкам.
func (l *BalanceLedger) Earnings(ctx context.Context, riderID string) (*models.EarningsBreakdown, error) {
	riderID = strings.TrimSpace(riderID)
	if riderID == "" {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "не указан идентификатор курьера")
	}

	deliveries, err := l.eligibleDeliveries(ctx, riderID)
	if err != nil {
		return nil, err
	}

	breakdown := &models.EarningsBreakdown{
		RiderID:    riderID,
		Deliveries: make([]models.DeliveryEarning, 0, len(deliveries)),
		Total:      decimal.Zero,
	}
	for _, d := range deliveries {
		if !models.IsEarningEligible(d.Status) {
			continue
		}
		earning := Earning(d)
		chargeValue := decimal.Zero
		if d.DeliveryCharge.Valid {
			chargeValue = d.DeliveryCharge.Decimal
		}
		breakdown.Deliveries = append(breakdown.Deliveries, models.DeliveryEarning{
			DeliveryID:        d.ID,
			OriginRegion:      d.OriginRegion,
			DestinationRegion: d.DestinationRegion,
			DeliveryCharge:    chargeValue,
			Earning:           earning,
			SameRegion:        isSameRegion(d),
		})
		breakdown.Total = breakdown.Total.Add(earning)
	}

	return breakdown, nil
}

func (l *BalanceLedger) eligibleDeliveries(ctx context.Context, riderID string) ([]models.DeliveryRecord, error) {
	deliveries, err := l.deliveries.ListEarningEligible(ctx, riderID)
	if err != nil {
		return nil, apperror.Storage(fmt.Errorf("balance ledger: list deliveries: %w", err))
	}
	return deliveries, nil
}

// snapshot считает баланс по уже прочитанным записям и учитывает пересчёт в метриках.
func (l *BalanceLedger) snapshot(riderID string, deliveries []models.DeliveryRecord, requests []models.CashoutRequest) models.RiderBalanceSnapshot {
	snapshot := ComputeSnapshot(riderID, deliveries, requests)
	l.metrics.ObserveBalanceComputation()

	logger.Log.WithFields(logrus.Fields{
		"rider_id":        riderID,
		"total_earnings":  snapshot.TotalEarnings.String(),
		"total_committed": snapshot.TotalCommitted.String(),
		"current_balance": snapshot.CurrentBalance.String(),
	}).Debug("balance computed")

	return snapshot
}

// ComputeSnapshot сводит доставки и заявки курьера в баланс.
// Отклонённые заявки сумму не резервируют. Записи других курьеров и доставки
// в неоплачиваемых статусах пропускаются.
func ComputeSnapshot(riderID string, deliveries []models.DeliveryRecord, requests []models.CashoutRequest) models.RiderBalanceSnapshot {
	snapshot := models.RiderBalanceSnapshot{
		RiderID:        riderID,
		TotalEarnings:  decimal.Zero,
		TotalPending:   decimal.Zero,
		TotalPaidOut:   decimal.Zero,
		TotalCommitted: decimal.Zero,
		CurrentBalance: decimal.Zero,
	}

	for _, d := range deliveries {
		if d.RiderID != "" && d.RiderID != riderID {
			continue
		}
		if !models.IsEarningEligible(d.Status) {
			continue
		}
		snapshot.DeliveryCount++
		snapshot.TotalEarnings = snapshot.TotalEarnings.Add(Earning(d))
	}

	for i := range requests {
		r := &requests[i]
		if r.RiderID != "" && r.RiderID != riderID {
			continue
		}
		if !r.Commits() {
			continue
		}
		if r.Status == models.CashoutStatusPending {
			snapshot.TotalPending = snapshot.TotalPending.Add(r.Amount)
		} else {
			snapshot.TotalPaidOut = snapshot.TotalPaidOut.Add(r.Amount)
		}
	}

	snapshot.TotalCommitted = snapshot.TotalPending.Add(snapshot.TotalPaidOut)
	snapshot.CurrentBalance = snapshot.TotalEarnings.Sub(snapshot.TotalCommitted)
	return snapshot
}
