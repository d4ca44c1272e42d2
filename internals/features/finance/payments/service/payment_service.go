package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cashierku_backend/internals/constants"
	studentModel "cashierku_backend/internals/features/academics/students/model"
	feeModel "cashierku_backend/internals/features/finance/fee_structures/model"
	"cashierku_backend/internals/features/finance/payments/dto"
	"cashierku_backend/internals/features/finance/payments/model"
	helper "cashierku_backend/internals/helpers"
	"cashierku_backend/internals/helpers/dbtime"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Operator is the authenticated staff member taking the payment.
type Operator struct {
	ID   uuid.UUID
	Role string
	Name string // for logs only
}

type PaymentService struct {
	DB            *gorm.DB
	Loc           *time.Location
	ReceiptPrefix string
	Gateway       CheckoutGateway // nil disables online checkout links
	Now           func() time.Time

	// LastReceiptSeq reports the highest issued sequence for a receipt day prefix.
	LastReceiptSeq func(tx *gorm.DB, dayPrefix string) (int, error)
}

func NewPaymentService(db *gorm.DB, loc *time.Location, receiptPrefix string, gw CheckoutGateway) *PaymentService {
	if loc == nil {
		loc = time.UTC
	}
	if receiptPrefix == "" {
		receiptPrefix = "OR"
	}
	return &PaymentService{
		DB:             db,
		Loc:            loc,
		ReceiptPrefix:  receiptPrefix,
		Gateway:        gw,
		Now:            time.Now,
		LastReceiptSeq: lastReceiptSeq,
	}
}

// RecordResult is the committed payment and its ledger entry.
type RecordResult struct {
	Payment model.Payment
	Ledger  model.Ledger
}

// Record validates the submission and writes the payment and its ledger entry
// in one transaction. Either both rows exist afterwards or neither does.
func (s *PaymentService) Record(ctx context.Context, op Operator, req dto.RecordPaymentRequest) (*RecordResult, error) {
	if !constants.RoleHas(op.Role, constants.PermCreatePayments) {
		return nil, helper.NewAuthorizationError(constants.PermCreatePayments)
	}
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	date, err := dbtime.ParseDate(req.Date, s.Loc)
	if err != nil {
		return nil, helper.NewFieldError("payment_date", "payment_date must be a date like 2024-07-01")
	}
	if today := dbtime.StartOfDay(s.Now(), s.Loc); date.After(today) {
		return nil, helper.NewFieldError("payment_date", "payment_date cannot be in the future")
	}
	// calendar day only; the column is a DATE
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var student studentModel.Student
	if err := s.DB.WithContext(ctx).First(&student, "student_id = ?", req.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewNotFound("student", req.StudentID)
		}
		return nil, err
	}
	snapshot, err := s.feeSnapshot(ctx, student, req.FeeIDs)
	if err != nil {
		return nil, err
	}

	payment := model.Payment{
		PaymentStudentID: student.StudentID,
		PaymentUserID:    op.ID,
		PaymentAmount:    req.Amount.Round(2),
		PaymentDate:      date,
		PaymentPurpose:   req.Purpose,
		PaymentMethod:    req.Method,
		PaymentNotes:     req.Notes,
	}
	if len(snapshot) > 0 {
		raw, err := sonic.Marshal(snapshot)
		if err != nil {
			return nil, err
		}
		payment.PaymentFeeSnapshot = datatypes.JSON(raw)
	}

	var ledger model.Ledger
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.insertWithReceipt(tx, &payment); err != nil {
			return err
		}
		ledger = model.Ledger{
			LedgerStudentID: payment.PaymentStudentID,
			LedgerPaymentID: payment.PaymentID,
			LedgerAmount:    payment.PaymentAmount,
			LedgerType:      model.LedgerTypePayment,
			LedgerDate:      payment.PaymentDate,
		}
		return tx.Create(&ledger).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] payment %s recorded: student=%s amount=%s method=%s by=%s (%s)",
		payment.PaymentReceiptNumber, student.StudentNumber, payment.PaymentAmount.StringFixed(2), payment.PaymentMethod, op.ID, op.Name)

	if payment.PaymentMethod == model.PaymentMethodOnline && s.Gateway != nil {
		s.attachCheckout(ctx, &payment, student, snapshot)
	}
	return &RecordResult{Payment: payment, Ledger: ledger}, nil
}

// insertWithReceipt numbers the payment after the day's highest receipt and
// inserts it inside a savepoint, moving to the next sequence when another
// payment took the number first.
func (s *PaymentService) insertWithReceipt(tx *gorm.DB, p *model.Payment) error {
	dayPrefix := receiptPrefix(s.ReceiptPrefix, p.PaymentDate)
	seq, err := s.LastReceiptSeq(tx, dayPrefix)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= maxReceiptAttempts; attempt++ {
		seq++
		p.PaymentReceiptNumber = formatReceipt(dayPrefix, seq)
		lastErr = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(p).Error
		})
		if lastErr == nil {
			return nil
		}
		if !helper.IsUniqueViolation(lastErr) {
			return lastErr
		}
	}
	log.Printf("[ALERT] receipt numbering exhausted %d attempts under %s: %v", maxReceiptAttempts, dayPrefix, lastErr)
	return helper.NewConflict("could not allocate a receipt number, please retry", lastErr)
}

// feeSnapshot loads the selected fees; they must belong to the student's grade level.
func (s *PaymentService) feeSnapshot(ctx context.Context, st studentModel.Student, ids []uuid.UUID) ([]model.FeeSnapshotItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ids = lo.Uniq(ids)
	var fees []feeModel.FeeStructure
	if err := s.DB.WithContext(ctx).
		Where("fee_structure_id IN ?", ids).
		Order("fee_structure_fee_type ASC").Order("fee_structure_id ASC").
		Find(&fees).Error; err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]bool, len(fees))
	out := make([]model.FeeSnapshotItem, 0, len(fees))
	for _, f := range fees {
		if f.FeeStructureGradeLevelID != st.StudentGradeLevelID {
			return nil, helper.NewFieldError("fee_ids", fmt.Sprintf("fee %s is not offered for the student's grade level", f.FeeStructureID))
		}
		found[f.FeeStructureID] = true
		out = append(out, model.FeeSnapshotItem{
			FeeStructureID: f.FeeStructureID,
			FeeType:        f.FeeStructureFeeType,
			Amount:         f.FeeStructureAmount,
			IsRequired:     f.FeeStructureIsRequired,
		})
	}
	for _, id := range ids {
		if !found[id] {
			return nil, helper.NewNotFound("fee structure", id)
		}
	}
	return out, nil
}

// attachCheckout stores a Midtrans checkout link on a committed online payment.
// Failures are logged only; the payment stays recorded.
func (s *PaymentService) attachCheckout(ctx context.Context, p *model.Payment, st studentModel.Student, items []model.FeeSnapshotItem) {
	_, url, err := s.Gateway.CreateCheckout(*p, st, items)
	if err != nil {
		log.Printf("[WARN] checkout link for %s failed: %v", p.PaymentReceiptNumber, err)
		return
	}
	if url == "" {
		return
	}
	if err := s.DB.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_id = ?", p.PaymentID).
		Update("payment_checkout_url", url).Error; err != nil {
		log.Printf("[WARN] saving checkout link for %s failed: %v", p.PaymentReceiptNumber, err)
		return
	}
	p.PaymentCheckoutURL = &url
}

// MarkPrinted stamps printed_at the first time a receipt is printed; later calls keep the first stamp.
func (s *PaymentService) MarkPrinted(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	now := s.Now()
	if err := s.DB.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_id = ? AND payment_printed_at IS NULL", id).
		Update("payment_printed_at", now).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}
