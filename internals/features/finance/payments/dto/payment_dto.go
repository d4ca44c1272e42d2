package dto

import (
	"strings"
	"time"

	"cashierku_backend/internals/features/finance/payments/model"
	"cashierku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RecordPaymentRequest is what the cashier submits at the end of the payment wizard.
type RecordPaymentRequest struct {
	StudentID uuid.UUID       `json:"student_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	Date      string          `json:"payment_date" validate:"required"`
	Purpose   string          `json:"payment_purpose" validate:"required,max=255"`
	Method    string          `json:"payment_method" validate:"required,oneof=cash check online"`
	Notes     *string         `json:"notes" validate:"omitempty,max=1000"`

	// fees picked in the wizard; stored as a snapshot on the payment
	FeeIDs []uuid.UUID `json:"fee_ids" validate:"omitempty,dive,required"`
}

func (r *RecordPaymentRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.Purpose = strings.TrimSpace(r.Purpose)
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
	if r.Notes != nil {
		v := strings.TrimSpace(*r.Notes)
		if v == "" {
			r.Notes = nil
		} else {
			r.Notes = &v
		}
	}
}

type PaymentResponse struct {
	PaymentID            uuid.UUID       `json:"payment_id"`
	PaymentStudentID     uuid.UUID       `json:"payment_student_id"`
	PaymentUserID        uuid.UUID       `json:"payment_user_id"`
	PaymentAmount        decimal.Decimal `json:"payment_amount"`
	PaymentDate          string          `json:"payment_date"`
	PaymentPurpose       string          `json:"payment_purpose"`
	PaymentMethod        string          `json:"payment_method"`
	PaymentReceiptNumber string          `json:"payment_receipt_number"`
	PaymentPrintedAt     *time.Time      `json:"payment_printed_at,omitempty"`
	PaymentNotes         *string         `json:"payment_notes,omitempty"`
	PaymentFeeSnapshot   datatypes.JSON  `json:"payment_fee_snapshot,omitempty"`
	PaymentCheckoutURL   *string         `json:"payment_checkout_url,omitempty"`
	PaymentCreatedAt     time.Time       `json:"payment_created_at"`
}

func FromModel(m model.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:            m.PaymentID,
		PaymentStudentID:     m.PaymentStudentID,
		PaymentUserID:        m.PaymentUserID,
		PaymentAmount:        m.PaymentAmount,
		PaymentDate:          m.PaymentDate.Format(dbtime.DateLayout),
		PaymentPurpose:       m.PaymentPurpose,
		PaymentMethod:        m.PaymentMethod,
		PaymentReceiptNumber: m.PaymentReceiptNumber,
		PaymentPrintedAt:     m.PaymentPrintedAt,
		PaymentNotes:         m.PaymentNotes,
		PaymentFeeSnapshot:   m.PaymentFeeSnapshot,
		PaymentCheckoutURL:   m.PaymentCheckoutURL,
		PaymentCreatedAt:     m.PaymentCreatedAt,
	}
}

func FromModels(ms []model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m))
	}
	return out
}

// RecordPaymentResponse pairs the payment with the ledger entry written with it.
type RecordPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Ledger  LedgerResponse  `json:"ledger"`
}

type LedgerResponse struct {
	LedgerID        uuid.UUID       `json:"ledger_id"`
	LedgerStudentID uuid.UUID       `json:"ledger_student_id"`
	LedgerPaymentID uuid.UUID       `json:"ledger_payment_id"`
	LedgerAmount    decimal.Decimal `json:"ledger_amount"`
	LedgerType      string          `json:"ledger_type"`
	LedgerDate      string          `json:"ledger_date"`
}

func FromLedger(m model.Ledger) LedgerResponse {
	return LedgerResponse{
		LedgerID:        m.LedgerID,
		LedgerStudentID: m.LedgerStudentID,
		LedgerPaymentID: m.LedgerPaymentID,
		LedgerAmount:    m.LedgerAmount,
		LedgerType:      m.LedgerType,
		LedgerDate:      m.LedgerDate.Format(dbtime.DateLayout),
	}
}

func FromLedgers(ms []model.Ledger) []LedgerResponse {
	out := make([]LedgerResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromLedger(m))
	}
	return out
}
