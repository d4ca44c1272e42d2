package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cashierku_backend/internals/features/finance/payments/model"

	"gorm.io/gorm"
)

const maxReceiptAttempts = 5

// receiptPrefix is "<PREFIX>-YYYYMMDD-" for the payment date.
func receiptPrefix(prefix string, date time.Time) string {
	return fmt.Sprintf("%s-%s-", prefix, date.Format("20060102"))
}

func formatReceipt(dayPrefix string, seq int) string {
	return fmt.Sprintf("%s%04d", dayPrefix, seq)
}

// lastReceiptSeq returns the highest sequence already issued under dayPrefix, or 0.
// Sequences past 9999 grow a digit, so longer numbers sort first.
func lastReceiptSeq(tx *gorm.DB, dayPrefix string) (int, error) {
	var numbers []string
	err := tx.Model(&model.Payment{}).
		Where("payment_receipt_number LIKE ?", dayPrefix+"%").
		Order("LENGTH(payment_receipt_number) DESC").
		Order("payment_receipt_number DESC").
		Limit(1).
		Pluck("payment_receipt_number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return 0, err
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(numbers[0], dayPrefix))
	if err != nil {
		return 0, fmt.Errorf("unexpected receipt number %q: %w", numbers[0], err)
	}
	return seq, nil
}
