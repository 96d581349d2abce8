package model

import (
	"pos/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName   = "bills"
	EntityName  = "bill"
	CachePrefix = "bill:"

	FieldID              = "id"
	FieldOrderID         = "order_id"
	FieldBillNumber      = "bill_number"
	FieldTableNo         = "table_no"
	FieldSubtotal        = "subtotal"
	FieldTotalAmount     = "total_amount"
	FieldRemainingAmount = "remaining_amount"
	FieldPaymentMethod   = "payment_method"
	FieldSplitPayments   = "split_payments"
	FieldPaymentStatus   = "payment_status"
	FieldPaidAmount      = "paid_amount"
	FieldChangeAmount    = "change_amount"
	FieldCashierID       = "cashier_id"
	FieldReservationID   = "reservation_id"
)

const (
	PaymentMethodCash  = "cash"
	PaymentMethodCard  = "card"
	PaymentMethodUPI   = "upi"
	PaymentMethodSplit = "split"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type SplitPayment struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type Bill struct {
	ID              string                       `db:"id"`
	OrderID         string                       `db:"order_id"`
	BillNumber      string                       `db:"bill_number"`
	TableNo         string                       `db:"table_no"`
	Subtotal        decimal.Decimal              `db:"subtotal"`
	Discount        decimal.Decimal              `db:"discount"`
	Tax             decimal.Decimal              `db:"tax"`
	TotalAmount     decimal.Decimal              `db:"total_amount"`
	AdvancePayment  decimal.Decimal              `db:"advance_payment"`
	RemainingAmount decimal.Decimal              `db:"remaining_amount"`
	PaymentMethod   string                       `db:"payment_method"`
	SplitPayments   model.JSONList[SplitPayment] `db:"split_payments"`
	PaymentStatus   string                       `db:"payment_status"`
	PaidAmount      decimal.Decimal              `db:"paid_amount"`
	ChangeAmount    decimal.Decimal              `db:"change_amount"`
	CashierID       string                       `db:"cashier_id"`
	ReservationID   string                       `db:"reservation_id"`
	model.Metadata
}

// Totals returns total = subtotal - discount + tax and remaining = max(0, total - advance).
func Totals(subtotal, discount, tax, advance decimal.Decimal) (total, remaining decimal.Decimal) {
	total = subtotal.Sub(discount).Add(tax)
	remaining = decimal.Max(decimal.Zero, total.Sub(advance))

	return total, remaining
}

// Settle compares a payment against what is still owed.
func Settle(outstanding, paid decimal.Decimal) (change decimal.Decimal, settled bool) {
	change = decimal.Max(decimal.Zero, paid.Sub(outstanding))

	return change, paid.GreaterThanOrEqual(outstanding)
}
