package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger is the financial entry written together with each Payment.
type Ledger struct {
	LedgerID        uuid.UUID       `gorm:"column:ledger_id;type:uuid;primaryKey" json:"ledger_id"`
	LedgerStudentID uuid.UUID       `gorm:"column:ledger_student_id;type:uuid;not null;index:idx_ledgers_student_date,priority:1" json:"ledger_student_id"`
	LedgerPaymentID uuid.UUID       `gorm:"column:ledger_payment_id;type:uuid;not null;uniqueIndex:uq_ledgers_payment" json:"ledger_payment_id"`
	LedgerAmount    decimal.Decimal `gorm:"column:ledger_amount;type:numeric(14,2);not null" json:"ledger_amount"`
	LedgerType      string          `gorm:"column:ledger_type;type:varchar(20);not null" json:"ledger_type"`
	LedgerDate      time.Time       `gorm:"column:ledger_date;type:date;not null;index:idx_ledgers_student_date,priority:2" json:"ledger_date"`

	LedgerCreatedAt time.Time `gorm:"column:ledger_created_at;autoCreateTime" json:"ledger_created_at"`
}

func (Ledger) TableName() string { return "ledgers" }

func (l *Ledger) BeforeCreate(*gorm.DB) error {
	if l.LedgerID == uuid.Nil {
		l.LedgerID = uuid.New()
	}
	return nil
}
