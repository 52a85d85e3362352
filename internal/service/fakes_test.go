package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/repository"
)

// fakeDeliverySource отдаёт заранее заданные доставки.
type fakeDeliverySource struct {
	mu         sync.Mutex
	deliveries map[string][]models.DeliveryRecord
	err        error
}

func newFakeDeliverySource() *fakeDeliverySource {
	return &fakeDeliverySource{deliveries: make(map[string][]models.DeliveryRecord)}
}

func (f *fakeDeliverySource) add(riderID, origin, destination, charge, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries[riderID] = append(f.deliveries[riderID], models.DeliveryRecord{
		ID:                uuid.NewString(),
		RiderID:           riderID,
		OriginRegion:      origin,
		DestinationRegion: destination,
		DeliveryCharge:    decimal.NewNullDecimal(decimal.RequireFromString(charge)),
		Status:            status,
	})
}

func (f *fakeDeliverySource) ListEarningEligible(ctx context.Context, riderID string) ([]models.DeliveryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.DeliveryRecord
	for _, d := range f.deliveries[riderID] {
		if models.IsEarningEligible(d.Status) {
			out = append(out, d)
		}
	}
	return out, nil
}

// fakeCashoutStore повторяет поведение таблицы cashouts: создание заявки идёт
// под общим мьютексом, как под advisory-блокировкой курьера, и guard видит
// все его заявки на момент вставки.
type fakeCashoutStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*models.CashoutRequest
	listErr  error
}

func newFakeCashoutStore() *fakeCashoutStore {
	return &fakeCashoutStore{requests: make(map[uuid.UUID]*models.CashoutRequest)}
}

func (f *fakeCashoutStore) HasPending(ctx context.Context, riderID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasPendingLocked(riderID), nil
}

func (f *fakeCashoutStore) hasPendingLocked(riderID string) bool {
	for _, r := range f.requests {
		if r.RiderID == riderID && r.Status == models.CashoutStatusPending {
			return true
		}
	}
	return false
}

func (f *fakeCashoutStore) CreatePending(ctx context.Context, req *models.CashoutRequest, guard repository.CashoutGuard) (*models.CashoutRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasPendingLocked(req.RiderID) {
		return nil, repository.ErrPendingCashoutExists
	}
	if guard != nil {
		var existing []models.CashoutRequest
		for _, r := range f.requests {
			if r.RiderID == req.RiderID {
				existing = append(existing, *r)
			}
		}
		if err := guard(existing); err != nil {
			return nil, err
		}
	}
	stored := *req
	f.requests[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeCashoutStore) GetByID(ctx context.Context, id uuid.UUID) (*models.CashoutRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, repository.ErrCashoutNotFound
	}
	out := *r
	return &out, nil
}

func (f *fakeCashoutStore) ListByRider(ctx context.Context, riderID string) ([]models.CashoutRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.CashoutRequest
	for _, r := range f.requests {
		if r.RiderID == riderID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeCashoutStore) List(ctx context.Context, status string) ([]models.CashoutRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.CashoutRequest
	for _, r := range f.requests {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeCashoutStore) Resolve(ctx context.Context, id uuid.UUID, res models.CashoutResolution) (*models.CashoutRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, repository.ErrCashoutNotFound
	}
	if r.IsTerminal() {
		return nil, repository.ErrCashoutAlreadyResolved
	}
	processed := res.ProcessedAt
	r.Status = res.Status
	r.ProcessedAt = &processed
	r.TransactionID = res.TransactionID
	r.Notes = res.Notes
	out := *r
	return &out, nil
}

// seed кладёт заявку напрямую, минуя проверки сервиса.
func (f *fakeCashoutStore) seed(riderID, amount, status string, requestedAt time.Time) *models.CashoutRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &models.CashoutRequest{
		ID:          uuid.New(),
		RiderID:     riderID,
		RiderName:   "Rider " + riderID,
		Amount:      decimal.RequireFromString(amount),
		Status:      status,
		RequestedAt: requestedAt,
	}
	f.requests[r.ID] = r
	out := *r
	return &out
}

// hookedDeliverySource вызывает before один раз, при первом чтении доставок.
type hookedDeliverySource struct {
	DeliverySource
	once   sync.Once
	before func()
}

func (h *hookedDeliverySource) ListEarningEligible(ctx context.Context, riderID string) ([]models.DeliveryRecord, error) {
	var first bool
	h.once.Do(func() { first = true })
	if first && h.before != nil {
		h.before()
	}
	return h.DeliverySource.ListEarningEligible(ctx, riderID)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}
