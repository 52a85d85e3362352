package dto

import "github.com/shopspring/decimal"

// SubmitCashoutRequest: тело POST /api/rider/cashouts.
// RiderID необязателен и должен совпадать с subject токена.
// Пустой RiderName заменяется именем из токена.
type SubmitCashoutRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	RiderName string          `json:"rider_name"`
	RiderID   string          `json:"rider_id"`
}

// ResolveCashoutRequest: тело PATCH /api/admin/cashouts/:id.
type ResolveCashoutRequest struct {
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id"`
	Notes         *string `json:"notes"`
}
