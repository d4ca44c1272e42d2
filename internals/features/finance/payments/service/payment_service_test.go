package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cashierku_backend/internals/constants"
	gradeModel "cashierku_backend/internals/features/academics/grade_levels/model"
	studentModel "cashierku_backend/internals/features/academics/students/model"
	studentService "cashierku_backend/internals/features/academics/students/service"
	feeDTO "cashierku_backend/internals/features/finance/fee_structures/dto"
	feeModel "cashierku_backend/internals/features/finance/fee_structures/model"
	feeService "cashierku_backend/internals/features/finance/fee_structures/service"
	"cashierku_backend/internals/features/finance/payments/dto"
	"cashierku_backend/internals/features/finance/payments/model"
	helper "cashierku_backend/internals/helpers"
	"cashierku_backend/internals/helpers/testdb"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type fakeGateway struct {
	url   string
	err   error
	calls int
}

func (g *fakeGateway) CreateCheckout(p model.Payment, _ studentModel.Student, _ []model.FeeSnapshotItem) (string, string, error) {
	g.calls++
	return "tok-" + p.PaymentReceiptNumber, g.url, g.err
}

type RecorderSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	svc     *PaymentService
	fees    *feeService.FeeStructureService
	grade7  gradeModel.GradeLevel
	student studentModel.Student
	cashier Operator
}

func TestRecorder(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testdb.Open(s.T(), &gradeModel.GradeLevel{}, &studentModel.Student{}, &feeModel.FeeStructure{},
		&model.Payment{}, &model.Ledger{})
	s.svc = NewPaymentService(s.db, time.UTC, "OR", nil)
	s.svc.Now = func() time.Time { return time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC) }
	s.fees = feeService.NewFeeStructureService(s.db)

	s.grade7 = gradeModel.GradeLevel{GradeLevelName: "Grade 7", GradeLevelSlug: "grade-7", GradeLevelIsActive: true}
	s.Require().NoError(s.db.Create(&s.grade7).Error)
	s.student = studentModel.Student{
		StudentNumber:       "2024-0001",
		StudentFirstName:    "Juan",
		StudentLastName:     "Dela Cruz",
		StudentGradeLevelID: s.grade7.GradeLevelID,
	}
	s.Require().NoError(s.db.Create(&s.student).Error)
	s.cashier = Operator{ID: uuid.New(), Role: constants.RoleCashier}
}

func (s *RecorderSuite) request(amount int64) dto.RecordPaymentRequest {
	return dto.RecordPaymentRequest{
		StudentID: s.student.StudentID,
		Amount:    decimal.NewFromInt(amount),
		Date:      "2024-07-01",
		Purpose:   "Tuition",
		Method:    model.PaymentMethodCash,
	}
}

func (s *RecorderSuite) counts() (payments, ledgers int64) {
	s.Require().NoError(s.db.Model(&model.Payment{}).Count(&payments).Error)
	s.Require().NoError(s.db.Model(&model.Ledger{}).Count(&ledgers).Error)
	return payments, ledgers
}

func (s *RecorderSuite) seedReceipt(number string) {
	s.Require().NoError(s.db.Create(&model.Payment{
		PaymentStudentID:     s.student.StudentID,
		PaymentUserID:        s.cashier.ID,
		PaymentAmount:        decimal.NewFromInt(1),
		PaymentDate:          time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		PaymentPurpose:       "seed",
		PaymentMethod:        model.PaymentMethodCash,
		PaymentReceiptNumber: number,
	}).Error)
}

func (s *RecorderSuite) TestRecord_WritesPaymentAndLedgerPair() {
	res, err := s.svc.Record(s.ctx, s.cashier, s.request(5000))
	s.Require().NoError(err)

	p, l := res.Payment, res.Ledger
	s.Equal("OR-20240701-0001", p.PaymentReceiptNumber)
	s.Equal(s.cashier.ID, p.PaymentUserID)
	s.Equal(p.PaymentID, l.LedgerPaymentID)
	s.Equal(p.PaymentStudentID, l.LedgerStudentID)
	s.True(l.LedgerAmount.Equal(p.PaymentAmount))
	s.Equal(model.LedgerTypePayment, l.LedgerType)
	s.True(l.LedgerDate.Equal(p.PaymentDate))

	var stored model.Ledger
	s.Require().NoError(s.db.First(&stored, "ledger_payment_id = ?", p.PaymentID).Error)
	s.True(stored.LedgerAmount.Equal(decimal.NewFromInt(5000)))

	second, err := s.svc.Record(s.ctx, s.cashier, s.request(100))
	s.Require().NoError(err)
	s.Equal("OR-20240701-0002", second.Payment.PaymentReceiptNumber)

	payments, ledgers := s.counts()
	s.EqualValues(2, payments)
	s.EqualValues(2, ledgers)
}

func (s *RecorderSuite) TestRecord_NonPositiveAmountWritesNothing() {
	for _, amount := range []int64{0, -250} {
		_, err := s.svc.Record(s.ctx, s.cashier, s.request(amount))
		var ve *helper.ValidationError
		s.Require().ErrorAs(err, &ve)
		s.Contains(ve.FieldMap(), "amount")
	}
	payments, ledgers := s.counts()
	s.Zero(payments)
	s.Zero(ledgers)
}

func (s *RecorderSuite) TestRecord_FieldValidation() {
	cases := []struct {
		name  string
		edit  func(*dto.RecordPaymentRequest)
		field string
	}{
		{"missing purpose", func(r *dto.RecordPaymentRequest) { r.Purpose = "  " }, "payment_purpose"},
		{"unknown method", func(r *dto.RecordPaymentRequest) { r.Method = "card" }, "payment_method"},
		{"missing date", func(r *dto.RecordPaymentRequest) { r.Date = "" }, "payment_date"},
		{"bad date", func(r *dto.RecordPaymentRequest) { r.Date = "07/01/2024" }, "payment_date"},
		{"future date", func(r *dto.RecordPaymentRequest) { r.Date = "2024-07-16" }, "payment_date"},
		{"missing student", func(r *dto.RecordPaymentRequest) { r.StudentID = uuid.Nil }, "student_id"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			req := s.request(1000)
			tc.edit(&req)
			_, err := s.svc.Record(s.ctx, s.cashier, req)
			var ve *helper.ValidationError
			s.Require().ErrorAs(err, &ve)
			s.Contains(ve.FieldMap(), tc.field)
		})
	}
	payments, _ := s.counts()
	s.Zero(payments)
}

func (s *RecorderSuite) TestRecord_MethodIsCaseInsensitiveAndTodayAllowed() {
	req := s.request(1000)
	req.Method = " Check "
	req.Date = "2024-07-15"
	res, err := s.svc.Record(s.ctx, s.cashier, req)
	s.Require().NoError(err)
	s.Equal(model.PaymentMethodCheck, res.Payment.PaymentMethod)
}

func (s *RecorderSuite) TestRecord_UnknownStudent() {
	req := s.request(1000)
	req.StudentID = uuid.New()
	_, err := s.svc.Record(s.ctx, s.cashier, req)
	s.True(helper.IsNotFound(err))
}

func (s *RecorderSuite) TestRecord_RequiresCreatePermission() {
	_, err := s.svc.Record(s.ctx, Operator{ID: uuid.New(), Role: constants.RoleAccountant}, s.request(1000))
	s.True(helper.IsAuthorization(err))
	payments, _ := s.counts()
	s.Zero(payments)
}

func (s *RecorderSuite) TestRecord_LedgerFailureRollsBackPayment() {
	s.Require().NoError(s.db.Callback().Create().Before("gorm:create").Register("test:fail_ledger", func(tx *gorm.DB) {
		if tx.Statement.Table == "ledgers" {
			_ = tx.AddError(errors.New("ledger insert failed"))
		}
	}))

	_, err := s.svc.Record(s.ctx, s.cashier, s.request(5000))
	s.Require().Error(err)
	s.Contains(err.Error(), "ledger insert failed")

	payments, ledgers := s.counts()
	s.Zero(payments, "payment must roll back with the ledger")
	s.Zero(ledgers)
}

func (s *RecorderSuite) TestLastReceiptSeq_FiveDigitSequenceSortsAfterFourDigit() {
	s.seedReceipt("OR-20240701-0002")
	s.seedReceipt("OR-20240701-9999")
	s.seedReceipt("OR-20240701-10000")
	s.seedReceipt("OR-20240702-20000")

	seq, err := lastReceiptSeq(s.db, "OR-20240701-")
	s.Require().NoError(err)
	s.Equal(10000, seq)

	res, err := s.svc.Record(s.ctx, s.cashier, s.request(100))
	s.Require().NoError(err)
	s.Equal("OR-20240701-10001", res.Payment.PaymentReceiptNumber)
}

func (s *RecorderSuite) TestRecord_ReceiptCollisionMovesToNextSequence() {
	s.seedReceipt("OR-20240701-0001")
	s.seedReceipt("OR-20240701-0002")
	// a stale view of the day's receipts, as a concurrent cashier would see it
	s.svc.LastReceiptSeq = func(*gorm.DB, string) (int, error) { return 0, nil }

	res, err := s.svc.Record(s.ctx, s.cashier, s.request(700))
	s.Require().NoError(err)
	s.Equal("OR-20240701-0003", res.Payment.PaymentReceiptNumber)

	var l model.Ledger
	s.Require().NoError(s.db.First(&l, "ledger_payment_id = ?", res.Payment.PaymentID).Error)
}

func (s *RecorderSuite) TestRecord_ReceiptRetriesExhaustedIsConflict() {
	for _, n := range []string{"0001", "0002", "0003", "0004", "0005"} {
		s.seedReceipt("OR-20240701-" + n)
	}
	s.svc.LastReceiptSeq = func(*gorm.DB, string) (int, error) { return 0, nil }

	_, err := s.svc.Record(s.ctx, s.cashier, s.request(700))
	s.True(helper.IsConflict(err), "got %v", err)

	payments, ledgers := s.counts()
	s.EqualValues(5, payments)
	s.Zero(ledgers)
}

func (s *RecorderSuite) TestRecord_Grade7Scenario() {
	mk := func(feeType string, amount int64, required bool) uuid.UUID {
		f, err := s.fees.Create(s.ctx, feeDTO.CreateFeeStructureRequest{
			GradeLevelID: s.grade7.GradeLevelID,
			FeeType:      feeType,
			Amount:       decimal.NewFromInt(amount),
			SchoolYear:   "2024-2025",
			IsRequired:   lo.ToPtr(required),
		})
		s.Require().NoError(err)
		return f.FeeStructureID
	}
	tuition := mk("Tuition", 30000, true)
	misc := mk("Miscellaneous", 6000, true)
	mk("Laboratory", 2000, false)

	req := s.request(36000)
	req.Purpose = "Tuition, Miscellaneous"
	req.FeeIDs = []uuid.UUID{tuition, misc}
	res, err := s.svc.Record(s.ctx, s.cashier, req)
	s.Require().NoError(err)
	s.True(res.Ledger.LedgerAmount.Equal(decimal.NewFromInt(36000)))

	var snapshot []model.FeeSnapshotItem
	s.Require().NoError(sonic.Unmarshal(res.Payment.PaymentFeeSnapshot, &snapshot))
	s.Equal([]string{"Miscellaneous", "Tuition"}, lo.Map(snapshot, func(it model.FeeSnapshotItem, _ int) string { return it.FeeType }))

	payments, ledgers := s.counts()
	s.EqualValues(1, payments)
	s.EqualValues(1, ledgers)

	bal, err := studentService.NewStudentService(s.db).Balance(s.ctx, s.student.StudentID, "2024-2025")
	s.Require().NoError(err)
	s.True(bal.Balance.Equal(decimal.NewFromInt(2000)), "got %s", bal.Balance)
}

func (s *RecorderSuite) TestRecord_FeeFromAnotherGradeRejected() {
	grade8 := gradeModel.GradeLevel{GradeLevelName: "Grade 8", GradeLevelSlug: "grade-8", GradeLevelIsActive: true}
	s.Require().NoError(s.db.Create(&grade8).Error)
	f, err := s.fees.Create(s.ctx, feeDTO.CreateFeeStructureRequest{
		GradeLevelID: grade8.GradeLevelID, FeeType: "Tuition", Amount: decimal.NewFromInt(31000), SchoolYear: "2024-2025",
	})
	s.Require().NoError(err)

	req := s.request(31000)
	req.FeeIDs = []uuid.UUID{f.FeeStructureID}
	_, err = s.svc.Record(s.ctx, s.cashier, req)
	s.True(helper.IsValidation(err))

	req.FeeIDs = []uuid.UUID{uuid.New()}
	_, err = s.svc.Record(s.ctx, s.cashier, req)
	s.True(helper.IsNotFound(err))
}

func (s *RecorderSuite) TestRecord_OnlineAttachesCheckoutLink() {
	gw := &fakeGateway{url: "https://app.sandbox.midtrans.com/snap/v2/vtweb/abc"}
	s.svc.Gateway = gw

	req := s.request(36000)
	req.Method = model.PaymentMethodOnline
	res, err := s.svc.Record(s.ctx, s.cashier, req)
	s.Require().NoError(err)
	s.Require().NotNil(res.Payment.PaymentCheckoutURL)
	s.Equal(gw.url, *res.Payment.PaymentCheckoutURL)

	stored, err := s.svc.Get(s.ctx, res.Payment.PaymentID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.PaymentCheckoutURL)

	_, err = s.svc.Record(s.ctx, s.cashier, s.request(100))
	s.Require().NoError(err)
	s.Equal(1, gw.calls, "cash payments never reach the gateway")
}

func (s *RecorderSuite) TestRecord_GatewayFailureKeepsPayment() {
	s.svc.Gateway = &fakeGateway{err: errors.New("midtrans unavailable")}

	req := s.request(500)
	req.Method = model.PaymentMethodOnline
	res, err := s.svc.Record(s.ctx, s.cashier, req)
	s.Require().NoError(err)
	s.Nil(res.Payment.PaymentCheckoutURL)

	payments, ledgers := s.counts()
	s.EqualValues(1, payments)
	s.EqualValues(1, ledgers)
}

func (s *RecorderSuite) TestMarkPrinted_KeepsFirstStamp() {
	res, err := s.svc.Record(s.ctx, s.cashier, s.request(5000))
	s.Require().NoError(err)

	first, err := s.svc.MarkPrinted(s.ctx, res.Payment.PaymentID)
	s.Require().NoError(err)
	s.Require().NotNil(first.PaymentPrintedAt)

	s.svc.Now = func() time.Time { return time.Date(2024, 7, 20, 8, 0, 0, 0, time.UTC) }
	again, err := s.svc.MarkPrinted(s.ctx, res.Payment.PaymentID)
	s.Require().NoError(err)
	s.True(again.PaymentPrintedAt.Equal(*first.PaymentPrintedAt))

	_, err = s.svc.MarkPrinted(s.ctx, uuid.New())
	s.True(helper.IsNotFound(err))
}

func (s *RecorderSuite) TestStudentLedger() {
	for _, amt := range []int64{100, 200} {
		_, err := s.svc.Record(s.ctx, s.cashier, s.request(amt))
		s.Require().NoError(err)
	}
	rows, total, err := s.svc.StudentLedger(s.ctx, s.student.StudentID, helper.Params{Page: 1, PerPage: 10, SortOrder: "asc"})
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(rows, 2)

	_, _, err = s.svc.StudentLedger(s.ctx, uuid.New(), helper.Params{Page: 1, PerPage: 10})
	s.True(helper.IsNotFound(err))
}
