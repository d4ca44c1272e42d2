package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Options tune a Wizard. Zero values are fine.
type Options struct {
	Debounce time.Duration
	// OnSearch receives the results of every settled, non-stale search.
	OnSearch func(query string, results []StudentSummary, err error)
}

// Wizard is safe for use from several goroutines. Collaborator calls are made
// without holding the lock; every catalog fetch and search carries a sequence
// number and responses older than the latest request are dropped.
type Wizard struct {
	catalog   FeeCatalog
	directory StudentDirectory
	submitter PaymentSubmitter
	debouncer *Debouncer
	onSearch  func(string, []StudentSummary, error)

	mu           sync.Mutex
	phase        Phase
	student      *StudentSummary
	fees         []Fee
	selected     map[uuid.UUID]bool
	manualAmount *decimal.Decimal
	receipt      *Receipt
	results      []StudentSummary
	selectSeq    uint64
	searchSeq    uint64
}

func New(catalog FeeCatalog, directory StudentDirectory, submitter PaymentSubmitter, opt Options) *Wizard {
	return &Wizard{
		catalog:   catalog,
		directory: directory,
		submitter: submitter,
		debouncer: NewDebouncer(opt.Debounce),
		onSearch:  opt.OnSearch,
		selected:  map[uuid.UUID]bool{},
	}
}

// Select picks a student. Picking the student already selected keeps the
// current fees and selection. Otherwise the student's catalog is fetched and
// every fee, required and optional, starts selected.
func (w *Wizard) Select(ctx context.Context, st StudentSummary) error {
	w.mu.Lock()
	if w.student != nil && w.student.ID == st.ID {
		if w.phase != FeesPending {
			w.phase = FeesResolved
			w.receipt = nil
		}
		w.mu.Unlock()
		return nil
	}
	w.selectSeq++
	seq := w.selectSeq
	picked := st
	w.student = &picked
	w.phase = FeesPending
	w.fees = nil
	w.selected = map[uuid.UUID]bool{}
	w.manualAmount = nil
	w.receipt = nil
	w.mu.Unlock()

	cat, err := w.catalog.StudentFees(ctx, st.ID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.selectSeq {
		return ErrStale
	}
	if err != nil {
		w.unselectLocked()
		return err
	}
	w.applyFresh(cat.Fees)
	return nil
}

// Refresh re-fetches the catalog of the selected student and merges it with
// the current selection the way FeesRefreshed does.
func (w *Wizard) Refresh(ctx context.Context) error {
	w.mu.Lock()
	if w.student == nil {
		w.mu.Unlock()
		return ErrNoStudent
	}
	w.selectSeq++
	seq := w.selectSeq
	id := w.student.ID
	w.mu.Unlock()

	cat, err := w.catalog.StudentFees(ctx, id)

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.selectSeq {
		return ErrStale
	}
	if err != nil {
		if w.phase == FeesPending {
			w.unselectLocked()
		}
		return err
	}
	if w.phase == FeesPending {
		w.applyFresh(cat.Fees)
		return nil
	}
	w.applyRefresh(cat.Fees)
	return nil
}

// FeesRefreshed applies a newer catalog for the selected student: the
// selection keeps the previously selected fees that still exist, gains every
// required fee, and follows catalog order. A list for another student, or one
// arriving before the first catalog resolved, is ignored with ErrStale.
func (w *Wizard) FeesRefreshed(studentID uuid.UUID, fees []Fee) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.student == nil || w.student.ID != studentID || w.phase == FeesPending {
		return ErrStale
	}
	w.applyRefresh(fees)
	return nil
}

func (w *Wizard) applyFresh(fees []Fee) {
	w.fees = append([]Fee(nil), fees...)
	w.selected = make(map[uuid.UUID]bool, len(fees))
	for _, f := range fees {
		w.selected[f.ID] = true
	}
	w.phase = FeesResolved
}

func (w *Wizard) applyRefresh(fees []Fee) {
	next := make(map[uuid.UUID]bool, len(fees))
	for _, f := range fees {
		if w.selected[f.ID] || f.IsRequired {
			next[f.ID] = true
		}
	}
	w.fees = append([]Fee(nil), fees...)
	w.selected = next
}

// ToggleFee checks or unchecks a fee. Required fees cannot be unchecked; the call is a no-op.
func (w *Wizard) ToggleFee(feeID uuid.UUID, checked bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != FeesResolved {
		return ErrNotResolved
	}
	fee, ok := w.feeLocked(feeID)
	if !ok {
		return ErrUnknownFee
	}
	if fee.IsRequired {
		return nil
	}
	if checked {
		w.selected[feeID] = true
	} else {
		delete(w.selected, feeID)
	}
	return nil
}

func (w *Wizard) feeLocked(id uuid.UUID) (Fee, bool) {
	for _, f := range w.fees {
		if f.ID == id {
			return f, true
		}
	}
	return Fee{}, false
}

// Clear goes back to NoStudentSelected and invalidates requests in flight.
func (w *Wizard) Clear() {
	w.debouncer.Stop()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selectSeq++
	w.searchSeq++
	w.unselectLocked()
	w.results = nil
}

// unselectLocked drops the student and everything derived from it. A failed
// first fetch lands here so picking the same student again fetches anew.
func (w *Wizard) unselectLocked() {
	w.phase = NoStudentSelected
	w.student = nil
	w.fees = nil
	w.selected = map[uuid.UUID]bool{}
	w.manualAmount = nil
	w.receipt = nil
}

// SetAmount overrides the amount to collect. v may be a decimal, a number or a numeric string.
func (w *Wizard) SetAmount(v any) {
	d := CoerceAmount(v)
	w.mu.Lock()
	w.manualAmount = &d
	w.mu.Unlock()
}

// ResetToCalculatedTotal drops the manual amount so Amount follows the selection again.
func (w *Wizard) ResetToCalculatedTotal() {
	w.mu.Lock()
	w.manualAmount = nil
	w.mu.Unlock()
}

func (w *Wizard) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

func (w *Wizard) Student() (StudentSummary, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.student == nil {
		return StudentSummary{}, false
	}
	return *w.student, true
}

// Fees is the catalog of the selected student in catalog order.
func (w *Wizard) Fees() []Fee {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Fee(nil), w.fees...)
}

// SelectedFees filters the catalog by the selection, so it is always in catalog order.
func (w *Wizard) SelectedFees() []Fee {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedLocked()
}

func (w *Wizard) selectedLocked() []Fee {
	out := make([]Fee, 0, len(w.selected))
	for _, f := range w.fees {
		if w.selected[f.ID] {
			out = append(out, f)
		}
	}
	return out
}

func (w *Wizard) CalculatedTotal() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.totalLocked()
}

func (w *Wizard) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, f := range w.selectedLocked() {
		total = total.Add(f.Amount.Decimal)
	}
	return total
}

// Amount is the manual amount when one was entered, the calculated total otherwise.
func (w *Wizard) Amount() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.manualAmount != nil {
		return *w.manualAmount
	}
	return w.totalLocked()
}

func (w *Wizard) AmountManuallyEdited() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.manualAmount != nil
}

func (w *Wizard) Receipt() (Receipt, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.receipt == nil {
		return Receipt{}, false
	}
	return *w.receipt, true
}

// SearchResults are the results of the latest settled search.
func (w *Wizard) SearchResults() []StudentSummary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]StudentSummary(nil), w.results...)
}

// Search schedules a debounced directory lookup. Each call restarts the
// delay and cancels the previous lookup, so a burst of keystrokes results in
// one request for the final query. An empty query clears the results.
func (w *Wizard) Search(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	w.mu.Lock()
	w.searchSeq++
	seq := w.searchSeq
	if query == "" {
		w.results = nil
		w.mu.Unlock()
		w.debouncer.Stop()
		return
	}
	w.mu.Unlock()

	w.debouncer.Trigger(ctx, func(ctx context.Context) {
		res, err := w.directory.SearchStudents(ctx, query)
		if ctx.Err() != nil {
			return
		}
		w.mu.Lock()
		if seq != w.searchSeq {
			w.mu.Unlock()
			return
		}
		if err == nil {
			w.results = res
		}
		w.mu.Unlock()
		if w.onSearch != nil {
			w.onSearch(query, res, err)
		}
	})
}

// SearchNow looks a query up immediately, bypassing the debounce. Results
// overtaken by a newer search are returned with ErrStale and not stored.
func (w *Wizard) SearchNow(ctx context.Context, query string) ([]StudentSummary, error) {
	w.debouncer.Stop()
	w.mu.Lock()
	w.searchSeq++
	seq := w.searchSeq
	w.mu.Unlock()

	res, err := w.directory.SearchStudents(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.searchSeq {
		return nil, ErrStale
	}
	w.results = res
	return append([]StudentSummary(nil), res...), nil
}

// SubmitInput carries what the operator enters on the last wizard step.
type SubmitInput struct {
	Date    string // YYYY-MM-DD
	Method  string
	Purpose string // defaults to the selected fee types
	Notes   *string
}

// Submit records the payment for the selected student with the current
// Amount and selection. On success the wizard moves to Submitted unless it
// was cleared or moved to another student meanwhile.
func (w *Wizard) Submit(ctx context.Context, in SubmitInput) (Receipt, error) {
	w.mu.Lock()
	if w.student == nil {
		w.mu.Unlock()
		return Receipt{}, ErrNoStudent
	}
	if w.phase != FeesResolved {
		w.mu.Unlock()
		return Receipt{}, ErrNotResolved
	}
	sel := w.selectedLocked()
	draft := PaymentDraft{
		StudentID: w.student.ID,
		Date:      in.Date,
		Method:    in.Method,
		Purpose:   strings.TrimSpace(in.Purpose),
		Notes:     in.Notes,
		FeeIDs:    make([]uuid.UUID, 0, len(sel)),
	}
	if w.manualAmount != nil {
		draft.Amount = *w.manualAmount
	} else {
		draft.Amount = w.totalLocked()
	}
	types := make([]string, 0, len(sel))
	for _, f := range sel {
		draft.FeeIDs = append(draft.FeeIDs, f.ID)
		types = append(types, f.FeeType)
	}
	if draft.Purpose == "" {
		draft.Purpose = strings.Join(types, ", ")
	}
	seq := w.selectSeq
	w.mu.Unlock()

	rc, err := w.submitter.SubmitPayment(ctx, draft)
	if err != nil {
		return Receipt{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq == w.selectSeq && w.student != nil && w.student.ID == draft.StudentID {
		w.phase = Submitted
		w.receipt = &rc
	}
	return rc, nil
}
