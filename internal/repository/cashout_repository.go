package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/repository/common"
)

var (
	ErrCashoutNotFound        = fmt.Errorf("cashout: %w", common.ErrNotFound)
	ErrPendingCashoutExists   = fmt.Errorf("pending cashout: %w", common.ErrAlreadyExists)
	ErrCashoutAlreadyResolved = fmt.Errorf("cashout already resolved: %w", common.ErrConflict)
)

// pendingCashoutIndex: частичный уникальный индекс "одна заявка pending на курьера".
const pendingCashoutIndex = "cashouts_one_pending_per_rider"

const cashoutColumns = `id, rider_id, rider_name, amount, status, requested_at, processed_at, transaction_id, notes`

type CashoutRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewCashoutRepository(db *sqlx.DB, timeout time.Duration) *CashoutRepository {
	return &CashoutRepository{db: db, timeout: timeout}
}

// HasPending проверяет, есть ли у курьера заявка в ожидании.
func (r *CashoutRepository) HasPending(ctx context.Context, riderID string) (bool, error) {
	ctx, cancel := common.WithTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM cashouts WHERE rider_id = $1 AND status = 'pending')
	`, riderID)
	if err != nil {
		return false, fmt.Errorf("cashout repository: has pending %w", err)
	}
	return exists, nil
}

// CashoutGuard получает все заявки курьера, прочитанные под блокировкой, и решает,
// можно ли создать новую. Ненулевая ошибка отменяет вставку и возвращается как есть.
type CashoutGuard func(requests []models.CashoutRequest) error

// CreatePending вставляет заявку в ожидании. Заявки одного курьера создаются
// последовательно: транзакция берёт advisory-блокировку по rider_id, перечитывает
// его заявки и вызывает guard до вставки. Индекс cashouts_one_pending_per_rider
// остаётся второй линией защиты.
func (r *CashoutRepository) CreatePending(ctx context.Context, req *models.CashoutRequest, guard CashoutGuard) (*models.CashoutRequest, error) {
	ctx, cancel := common.WithTimeout(ctx, r.timeout)
	defer cancel()

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("cashout repository: begin %w", err)
	}
	defer tx.Rollback()

	// Блокировка снимается при commit или rollback.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, req.RiderID); err != nil {
		return nil, fmt.Errorf("cashout repository: lock rider %w", err)
	}

	requests := []models.CashoutRequest{}
	err = tx.SelectContext(ctx, &requests, `
		SELECT `+cashoutColumns+` FROM cashouts WHERE rider_id = $1 ORDER BY requested_at DESC
	`, req.RiderID)
	if err != nil {
		return nil, fmt.Errorf("cashout repository: list by rider %w", err)
	}
	for i := range requests {
		if !requests[i].IsTerminal() {
			return nil, ErrPendingCashoutExists
		}
	}

	if guard != nil {
		if err := guard(requests); err != nil {
			return nil, err
		}
	}

	var created models.CashoutRequest
	err = tx.GetContext(ctx, &created, `
		INSERT INTO cashouts (id, rider_id, rider_name, amount, status, requested_at, notes)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6)
		RETURNING `+cashoutColumns,
		req.ID, req.RiderID, req.RiderName, req.Amount, req.RequestedAt, req.Notes)
	if err != nil {
		if common.IsUniqueViolation(err, pendingCashoutIndex) {
			return nil, ErrPendingCashoutExists
		}
		return nil, fmt.Errorf("cashout repository: create %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("cashout repository: commit %w", err)
	}
	return &created, nil
}

// GetByID возвращает заявку по ID.
func (r *CashoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CashoutRequest, error) {
	ctx, cancel := common.WithTimeout(ctx, r.timeout)
	defer cancel()

	return common.GetByID[models.CashoutRequest](ctx, r.db, "cashouts", cashoutColumns, id, ErrCashoutNotFound)
}

// ListByRider возвращает все заявки курьера, новые первыми.
func (r *CashoutRepository) ListByRider(ctx context.Context, riderID string) ([]models.CashoutRequest, error) {
	ctx, cancel := common.WithTimeout(ctx, r.timeout)
	defer cancel()

	requests := []models.CashoutRequest{}
	err := r.db.SelectContext(ctx, &requests, `
		SELECT `+cashoutColumns+` FROM cashouts WHERE rider_id = $1 ORDER BY requested_at DESC
	`, riderID)
	if err != nil {
		return nil, fmt.Errorf("cashout repository: list by rider %w", err)
	}
	return requests, nil
}

// List возвращает заявки всех курьеров, новые первыми. Пустой status означает без фильтра.
func (r *CashoutRepository) List(ctx context.Context, status string) ([]models.CashoutRequest, error) {
	ctx, cancel := common.WithTimeout(ctx, r.timeout)
	defer cancel()

	requests := []models.CashoutRequest{}
	var err error
	if status == "" {
		err = r.db.SelectContext(ctx, &requests, `
			SELECT `+cashoutColumns+` FROM cashouts ORDER BY requested_at DESC
		`)
	} else {
		err = r.db.SelectContext(ctx, &requests, `
			SELECT `+cashoutColumns+` FROM cashouts WHERE status = $1 ORDER BY requested_at DESC
		`, status)
	}
	if err != nil {
		return nil, fmt.Errorf("cashout repository: list %w", err)
	}
	return requests, nil
}

// Resolve переводит заявку из pending в терминальный статус (compare-and-set по статусу).
// Из двух параллельных вызовов для одной заявки успешен только один.
func (r *CashoutRepository) Resolve(ctx context.Context, id uuid.UUID, res models.CashoutResolution) (*models.CashoutRequest, error) {
	ctx, cancel := common.WithTimeout(ctx, r.timeout)
	defer cancel()

	var updated models.CashoutRequest
	err := r.db.GetContext(ctx, &updated, `
		UPDATE cashouts
		SET status = $2, processed_at = $3, transaction_id = $4, notes = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING `+cashoutColumns,
		id, res.Status, res.ProcessedAt, res.TransactionID, res.Notes)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cashout repository: resolve %w", err)
	}

	// Ни одна строка не обновилась: заявки нет или она уже обработана.
	var status string
	err = r.db.GetContext(ctx, &status, `SELECT status FROM cashouts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCashoutNotFound
		}
		return nil, fmt.Errorf("cashout repository: resolve lookup %w", err)
	}
	return nil, ErrCashoutAlreadyResolved
}
