package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Payment struct {
	PaymentID        uuid.UUID       `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentStudentID uuid.UUID       `gorm:"column:payment_student_id;type:uuid;not null;index:idx_payments_student_date,priority:1" json:"payment_student_id"`
	PaymentUserID    uuid.UUID       `gorm:"column:payment_user_id;type:uuid;not null;index:idx_payments_user" json:"payment_user_id"`
	PaymentAmount    decimal.Decimal `gorm:"column:payment_amount;type:numeric(14,2);not null" json:"payment_amount"`
	PaymentDate      time.Time       `gorm:"column:payment_date;type:date;not null;index:idx_payments_student_date,priority:2" json:"payment_date"`
	PaymentPurpose   string          `gorm:"column:payment_purpose;type:varchar(255);not null" json:"payment_purpose"`
	PaymentMethod    string          `gorm:"column:payment_method;type:varchar(10);not null" json:"payment_method"`

	PaymentReceiptNumber string     `gorm:"column:payment_receipt_number;type:varchar(40);not null;uniqueIndex:uq_payments_receipt_number" json:"payment_receipt_number"`
	PaymentPrintedAt     *time.Time `gorm:"column:payment_printed_at" json:"payment_printed_at,omitempty"`
	PaymentNotes         *string    `gorm:"column:payment_notes;type:text" json:"payment_notes,omitempty"`

	// fees picked in the wizard when the payment was taken
	PaymentFeeSnapshot datatypes.JSON `gorm:"column:payment_fee_snapshot" json:"payment_fee_snapshot,omitempty"`
	PaymentCheckoutURL *string        `gorm:"column:payment_checkout_url;type:text" json:"payment_checkout_url,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}

// FeeSnapshotItem is one element of Payment.PaymentFeeSnapshot.
type FeeSnapshotItem struct {
	FeeStructureID uuid.UUID       `json:"fee_structure_id"`
	FeeType        string          `json:"fee_type"`
	Amount         decimal.Decimal `json:"amount"`
	IsRequired     bool            `json:"is_required"`
}
