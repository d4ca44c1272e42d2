package service

import (
	"context"
	"errors"
	"strings"
	"time"

	studentModel "cashierku_backend/internals/features/academics/students/model"
	"cashierku_backend/internals/features/finance/payments/model"
	helper "cashierku_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListQuery struct {
	StudentID *uuid.UUID
	Method    string
	From      *time.Time
	To        *time.Time
	Params    helper.Params
}

var paymentSorts = map[string]string{
	"payment_date":   "payment_date",
	"amount":         "payment_amount",
	"receipt_number": "payment_receipt_number",
	"created_at":     "payment_created_at",
}

func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var m model.Payment
	if err := s.DB.WithContext(ctx).First(&m, "payment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewNotFound("payment", id)
		}
		return nil, err
	}
	return &m, nil
}

func (s *PaymentService) List(ctx context.Context, q ListQuery) ([]model.Payment, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.Payment{})
	if q.StudentID != nil {
		tx = tx.Where("payment_student_id = ?", *q.StudentID)
	}
	if m := strings.ToLower(strings.TrimSpace(q.Method)); m != "" {
		tx = tx.Where("payment_method = ?", m)
	}
	if q.From != nil {
		tx = tx.Where("payment_date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("payment_date <= ?", *q.To)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order, err := q.Params.OrderClause(paymentSorts, "payment_date")
	if err != nil {
		return nil, 0, err
	}
	var rows []model.Payment
	if err := tx.Order(order).Order("payment_receipt_number DESC").
		Limit(q.Params.Limit()).Offset(q.Params.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *PaymentService) ensureStudent(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&studentModel.Student{}).
		Where("student_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.NewNotFound("student", id)
	}
	return nil
}

// StudentPayments lists one student's payments, newest first by default.
func (s *PaymentService) StudentPayments(ctx context.Context, studentID uuid.UUID, p helper.Params) ([]model.Payment, int64, error) {
	if err := s.ensureStudent(ctx, studentID); err != nil {
		return nil, 0, err
	}
	return s.List(ctx, ListQuery{StudentID: &studentID, Params: p})
}

// StudentLedger lists one student's ledger entries in date order.
func (s *PaymentService) StudentLedger(ctx context.Context, studentID uuid.UUID, p helper.Params) ([]model.Ledger, int64, error) {
	if err := s.ensureStudent(ctx, studentID); err != nil {
		return nil, 0, err
	}
	tx := s.DB.WithContext(ctx).Model(&model.Ledger{}).Where("ledger_student_id = ?", studentID)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}
	var rows []model.Ledger
	if err := tx.Order("ledger_date " + dir).Order("ledger_created_at " + dir).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
