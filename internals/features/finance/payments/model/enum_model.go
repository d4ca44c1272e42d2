package model

const (
	PaymentMethodCash   = "cash"
	PaymentMethodCheck  = "check"
	PaymentMethodOnline = "online"
)

var PaymentMethods = []string{PaymentMethodCash, PaymentMethodCheck, PaymentMethodOnline}

const (
	LedgerTypePayment = "payment"
)
