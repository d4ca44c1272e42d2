package wizard

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errCatalogDown = errors.New("503 catalog unavailable")

type fakeCatalog struct {
	mu    sync.Mutex
	fees  map[uuid.UUID][]Fee
	gates map[uuid.UUID]chan struct{} // blocks StudentFees until closed
	fail  int                         // number of upcoming calls that error
	calls int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{fees: map[uuid.UUID][]Fee{}, gates: map[uuid.UUID]chan struct{}{}}
}

func (f *fakeCatalog) set(id uuid.UUID, fees ...Fee) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fees[id] = fees
}

func (f *fakeCatalog) StudentFees(ctx context.Context, id uuid.UUID) (Catalog, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gates[id]
	failing := f.fail > 0
	if failing {
		f.fail--
	}
	f.mu.Unlock()
	if failing {
		return Catalog{}, errCatalogDown
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Catalog{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return Catalog{SchoolYear: "2024-2025", Fees: append([]Fee(nil), f.fees[id]...)}, nil
}

type fakeDirectory struct {
	mu      sync.Mutex
	queries []string
	results []StudentSummary
}

func (f *fakeDirectory) SearchStudents(_ context.Context, q string) ([]StudentSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.results, nil
}

func (f *fakeDirectory) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type fakeSubmitter struct {
	drafts []PaymentDraft
	err    error
}

func (f *fakeSubmitter) SubmitPayment(_ context.Context, d PaymentDraft) (Receipt, error) {
	if f.err != nil {
		return Receipt{}, f.err
	}
	f.drafts = append(f.drafts, d)
	return Receipt{PaymentID: uuid.New(), ReceiptNumber: "OR-20240701-0001", Amount: d.Amount, Date: d.Date, Method: d.Method}, nil
}

func fee(name string, amount int64, required bool) Fee {
	return Fee{ID: uuid.New(), FeeType: name, Amount: Amount{decimal.NewFromInt(amount)}, IsRequired: required}
}
