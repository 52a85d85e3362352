package service

import (
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/parcel-ledger/internal/models"
)

// Доля стоимости доставки, которая достаётся курьеру.
var (
	SameRegionRate  = decimal.RequireFromString("0.8")
	CrossRegionRate = decimal.RequireFromString("0.3")
)

// Earning возвращает вознаграждение курьера за одну доставку.
// Доставка внутри региона оплачивается по ставке 80%, между регионами по ставке 30%.
// Отсутствующая или отрицательная стоимость даёт ноль.
func Earning(record models.DeliveryRecord) decimal.Decimal {
	if !record.DeliveryCharge.Valid || record.DeliveryCharge.Decimal.Sign() <= 0 {
		return decimal.Zero
	}
	return record.DeliveryCharge.Decimal.Mul(rateFor(record))
}

func rateFor(record models.DeliveryRecord) decimal.Decimal {
	if isSameRegion(record) {
		return SameRegionRate
	}
	return CrossRegionRate
}

func isSameRegion(record models.DeliveryRecord) bool {
	return record.OriginRegion == record.DestinationRegion
}
