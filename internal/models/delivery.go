package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы доставки, за которые курьеру начисляется вознаграждение.
const (
	DeliveryStatusCompleted   = "Delivery Completed"
	DeliveryStatusSCDelivered = "SC Delivered"
)

// EarningEligibleStatuses перечисляет терминальные статусы доставки, учитываемые в заработке.
var EarningEligibleStatuses = []string{DeliveryStatusCompleted, DeliveryStatusSCDelivered}

// DeliveryRecord описывает завершённую доставку. Таблицей владеет сервис посылок,
// здесь записи только читаются.
type DeliveryRecord struct {
	ID                string              `db:"id" json:"id"`
	RiderID           string              `db:"rider_id" json:"rider_id"`
	OriginRegion      string              `db:"origin_region" json:"origin_region"`
	DestinationRegion string              `db:"destination_region" json:"destination_region"`
	DeliveryCharge    decimal.NullDecimal `db:"delivery_charge" json:"delivery_charge"`
	Status            string              `db:"status" json:"status"`
	CompletedAt       *time.Time          `db:"completed_at" json:"completed_at,omitempty"`
}

// IsEarningEligible сообщает, учитывается ли доставка с таким статусом в заработке курьера.
func IsEarningEligible(status string) bool {
	for _, s := range EarningEligibleStatuses {
		if s == status {
			return true
		}
	}
	return false
}
