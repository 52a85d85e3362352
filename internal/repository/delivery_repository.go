package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/repository/common"
)

// DeliveryRepository читает доставки, которыми владеет сервис посылок.
type DeliveryRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewDeliveryRepository(db *sqlx.DB, timeout time.Duration) *DeliveryRepository {
	return &DeliveryRepository{db: db, timeout: timeout}
}

// ListEarningEligible возвращает доставки курьера в оплачиваемых статусах.
func (r *DeliveryRepository) ListEarningEligible(ctx context.Context, riderID string) ([]models.DeliveryRecord, error) {
	ctx, cancel := common.WithTimeout(ctx, r.timeout)
	defer cancel()

	deliveries := []models.DeliveryRecord{}
	err := r.db.SelectContext(ctx, &deliveries, `
		SELECT id::text AS id, rider_id, origin_region, destination_region, delivery_charge, status, completed_at
		FROM deliveries
		WHERE rider_id = $1 AND status = ANY($2)
		ORDER BY completed_at DESC NULLS LAST
	`, riderID, pq.Array(models.EarningEligibleStatuses))
	if err != nil {
		return nil, fmt.Errorf("delivery repository: list earning eligible %w", err)
	}
	return deliveries, nil
}
