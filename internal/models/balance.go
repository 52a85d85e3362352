package models

import "github.com/shopspring/decimal"

// RiderBalanceSnapshot: вычисляемый баланс курьера, в базе не хранится.
type RiderBalanceSnapshot struct {
	RiderID        string          `json:"rider_id"`
	DeliveryCount  int             `json:"delivery_count"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	TotalPending   decimal.Decimal `json:"total_pending"`
	TotalPaidOut   decimal.Decimal `json:"total_paid_out"`
	TotalCommitted decimal.Decimal `json:"total_committed"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// DeliveryEarning: заработок курьера по одной доставке.
type DeliveryEarning struct {
	DeliveryID        string          `json:"delivery_id"`
	OriginRegion      string          `json:"origin_region"`
	DestinationRegion string          `json:"destination_region"`
	DeliveryCharge    decimal.Decimal `json:"delivery_charge"`
	Earning           decimal.Decimal `json:"earning"`
	SameRegion        bool            `json:"same_region"`
}

// EarningsBreakdown: детализация заработка курьера по доставкам.
type EarningsBreakdown struct {
	RiderID    string            `json:"rider_id"`
	Deliveries []DeliveryEarning `json:"deliveries"`
	Total      decimal.Decimal   `json:"total"`
}
