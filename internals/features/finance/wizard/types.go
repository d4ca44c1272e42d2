// Package wizard holds the cashier-side payment flow: pick a student, review
// the fee catalog of their grade level, adjust the total and submit. It is
// driven by a front end (cmd/cashier) and talks to the server through the
// FeeCatalog, StudentDirectory and PaymentSubmitter collaborators.
package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrStale is returned when a response arrives after a newer request
	// for the same intent was issued; its result has been discarded.
	ErrStale       = errors.New("wizard: stale response discarded")
	ErrNoStudent   = errors.New("wizard: no student selected")
	ErrNotResolved = errors.New("wizard: fees are not resolved yet")
	ErrUnknownFee  = errors.New("wizard: fee is not in the catalog")
)

type Phase int

const (
	NoStudentSelected Phase = iota
	FeesPending
	FeesResolved
	Submitted
)

func (p Phase) String() string {
	switch p {
	case NoStudentSelected:
		return "no-student-selected"
	case FeesPending:
		return "fees-pending"
	case FeesResolved:
		return "fees-resolved"
	case Submitted:
		return "submitted"
	}
	return "unknown"
}

type Fee struct {
	ID          uuid.UUID `json:"id"`
	FeeType     string    `json:"fee_type"`
	Amount      Amount    `json:"amount"`
	IsRequired  bool      `json:"is_required"`
	Description *string   `json:"description,omitempty"`
}

type Catalog struct {
	GradeLevelID uuid.UUID `json:"grade_level_id"`
	SchoolYear   string    `json:"school_year"`
	Fees         []Fee     `json:"fees"`
}

type StudentSummary struct {
	ID             uuid.UUID  `json:"id"`
	StudentNumber  string     `json:"student_number"`
	Name           string     `json:"name"`
	GradeLevelID   uuid.UUID  `json:"grade_level_id"`
	GradeLevelName string     `json:"grade_level_name"`
	SectionID      *uuid.UUID `json:"section_id,omitempty"`
	SectionName    *string    `json:"section_name,omitempty"`
	Status         string     `json:"status"`
	Balance        Amount     `json:"balance"`
}

// PaymentDraft is what Submit hands to the PaymentSubmitter.
type PaymentDraft struct {
	StudentID uuid.UUID       `json:"student_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"payment_date"`
	Purpose   string          `json:"payment_purpose"`
	Method    string          `json:"payment_method"`
	Notes     *string         `json:"notes,omitempty"`
	FeeIDs    []uuid.UUID     `json:"fee_ids"`
}

type Receipt struct {
	PaymentID     uuid.UUID       `json:"payment_id"`
	ReceiptNumber string          `json:"payment_receipt_number"`
	Amount        decimal.Decimal `json:"payment_amount"`
	Date          string          `json:"payment_date"`
	Method        string          `json:"payment_method"`
	CheckoutURL   *string         `json:"payment_checkout_url,omitempty"`
	CreatedAt     time.Time       `json:"payment_created_at"`
}

type FeeCatalog interface {
	StudentFees(ctx context.Context, studentID uuid.UUID) (Catalog, error)
}

type StudentDirectory interface {
	SearchStudents(ctx context.Context, query string) ([]StudentSummary, error)
}

type PaymentSubmitter interface {
	SubmitPayment(ctx context.Context, draft PaymentDraft) (Receipt, error)
}
