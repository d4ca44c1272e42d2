package service

import (
	"errors"
	"strings"

	studentModel "cashierku_backend/internals/features/academics/students/model"
	"cashierku_backend/internals/features/finance/payments/model"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
)

// CheckoutGateway issues a hosted checkout link for an online payment.
type CheckoutGateway interface {
	CreateCheckout(p model.Payment, st studentModel.Student, items []model.FeeSnapshotItem) (token, redirectURL string, err error)
}

// SnapGateway is the Midtrans Snap implementation of CheckoutGateway.
type SnapGateway struct {
	client snap.Client
}

// NewSnapGateway returns nil when serverKey is empty so callers can skip online checkout.
func NewSnapGateway(serverKey string, useProduction bool) *SnapGateway {
	if strings.TrimSpace(serverKey) == "" {
		return nil
	}
	g := &SnapGateway{}
	if useProduction {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

// CreateCheckout uses the receipt number as the order id. Fee items are sent
// only when they add up to the paid amount, otherwise one line carries the total.
func (g *SnapGateway) CreateCheckout(p model.Payment, st studentModel.Student, items []model.FeeSnapshotItem) (string, string, error) {
	gross := p.PaymentAmount.Round(0).IntPart()
	if gross <= 0 {
		return "", "", errors.New("invalid payment_amount")
	}
	if p.PaymentReceiptNumber == "" {
		return "", "", errors.New("payment_receipt_number is required (used as OrderID)")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  p.PaymentReceiptNumber,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: st.StudentFirstName,
			LName: st.StudentLastName,
		},
		CustomField1: truncate(st.StudentNumber, 40),
		CustomField2: truncate(p.PaymentPurpose, 40),
	}
	req.Items = &[]midtrans.ItemDetails{{
		ID:    p.PaymentReceiptNumber,
		Price: gross,
		Qty:   1,
		Name:  truncate(defaultString(p.PaymentPurpose, "School fees"), 50),
	}}
	if details, ok := itemDetails(items, gross); ok {
		req.Items = &details
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

func itemDetails(items []model.FeeSnapshotItem, gross int64) ([]midtrans.ItemDetails, bool) {
	if len(items) == 0 {
		return nil, false
	}
	out := make([]midtrans.ItemDetails, 0, len(items))
	sum := decimal.Zero
	for _, it := range items {
		price := it.Amount.Round(0)
		sum = sum.Add(price)
		out = append(out, midtrans.ItemDetails{
			ID:       it.FeeStructureID.String(),
			Price:    price.IntPart(),
			Qty:      1,
			Name:     truncate(it.FeeType, 50),
			Category: "School fees",
		})
	}
	return out, sum.IntPart() == gross
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func defaultString(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}
