package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CashoutStatusPending   = "pending"
	CashoutStatusCompleted = "completed"
	CashoutStatusRejected  = "rejected"
)

// CashoutRequest описывает заявку курьера на выплату.
// После перехода в терминальный статус запись больше не меняется.
type CashoutRequest struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	RiderID       string          `db:"rider_id" json:"rider_id"`
	RiderName     string          `db:"rider_name" json:"rider_name"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Status        string          `db:"status" json:"status"`
	RequestedAt   time.Time       `db:"requested_at" json:"requested_at"`
	ProcessedAt   *time.Time      `db:"processed_at" json:"processed_at"`
	TransactionID *string         `db:"transaction_id" json:"transaction_id"`
	Notes         string          `db:"notes" json:"notes"`
}

// IsTerminal возвращает true для завершённых и отклонённых заявок.
func (c *CashoutRequest) IsTerminal() bool {
	return c.Status == CashoutStatusCompleted || c.Status == CashoutStatusRejected
}

// Commits сообщает, резервирует ли заявка сумму из баланса курьера.
func (c *CashoutRequest) Commits() bool {
	return c.Status == CashoutStatusPending || c.Status == CashoutStatusCompleted
}

// NormalizeCashoutStatus приводит статус к каноническому виду ("Completed" -> "completed").
// Второе значение false, если статус неизвестен.
func NormalizeCashoutStatus(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case CashoutStatusPending:
		return CashoutStatusPending, true
	case CashoutStatusCompleted:
		return CashoutStatusCompleted, true
	case CashoutStatusRejected:
		return CashoutStatusRejected, true
	default:
		return "", false
	}
}

// CashoutResolution: решение администратора по заявке.
type CashoutResolution struct {
	Status        string
	TransactionID *string
	Notes         string
	ProcessedAt   time.Time
}
