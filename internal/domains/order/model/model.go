package model

import (
	"errors"
	"fmt"
	"pos/shared/model"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName   = "restaurant_orders"
	EntityName  = "order"
	CachePrefix = "order:"

	FieldID                 = "id"
	FieldStaffName          = "staff_name"
	FieldCustomerName       = "customer_name"
	FieldTableNo            = "table_no"
	FieldItems              = "items"
	FieldNotes              = "notes"
	FieldStatus             = "status"
	FieldStatusUpdatedAt    = "status_updated_at"
	FieldAmount             = "amount"
	FieldDiscount           = "discount"
	FieldTransferHistory    = "transfer_history"
	FieldTransactionHistory = "transaction_history"
)

const (
	StatusPending   = "pending"
	StatusReserved  = "reserved"
	StatusRunning   = "running"
	StatusServed    = "served"
	StatusPaid      = "paid"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	UnknownItemName           = "Unknown Item"
	DefaultTransferReason     = "Customer request"
	DefaultVacatedTableStatus = "available"
)

var hundred = decimal.NewFromInt(100)

var ErrInvalidTransition = errors.New("invalid order status transition")

// flow is the forward order of statuses; an order may skip steps but never go back.
var flow = []string{StatusPending, StatusReserved, StatusRunning, StatusServed, StatusPaid, StatusCompleted}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// ValidateTransition allows forward moves along flow, skipping steps, and cancellation of any
// non-terminal order. Re-issuing the current status is allowed.
func ValidateTransition(from, to string) error {
	if from == to {
		return nil
	}

	if IsTerminal(from) {
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, from)
	}

	if to == StatusCancelled {
		return nil
	}

	fromRank, toRank := slices.Index(flow, from), slices.Index(flow, to)
	if fromRank < 0 || toRank <= fromRank {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}

	return nil
}

// PayableFrom lists the statuses an order may hold when its bill is settled.
func PayableFrom() []string {
	return slices.Clone(flow[:slices.Index(flow, StatusPaid)+1])
}

type Line struct {
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	IsFree   bool            `json:"is_free"`
	NocID    string          `json:"noc_id,omitempty"`
}

// Total is zero for free lines.
func (l Line) Total() decimal.Decimal {
	if l.IsFree {
		return decimal.Zero
	}

	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Transfer struct {
	FromTable     string    `json:"from_table"`
	ToTable       string    `json:"to_table"`
	Reason        string    `json:"reason"`
	TransferredBy string    `json:"transferred_by"`
	TransferredAt time.Time `json:"transferred_at"`
}

type Transaction struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	BillID        string          `json:"bill_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ProcessedBy   string          `json:"processed_by"`
	ProcessedAt   time.Time       `json:"processed_at"`
}

type Order struct {
	ID                 string                      `db:"id"`
	StaffName          string                      `db:"staff_name"`
	CustomerName       string                      `db:"customer_name"`
	TableNo            string                      `db:"table_no"`
	Items              model.JSONList[Line]        `db:"items"`
	Notes              string                      `db:"notes"`
	Status             string                      `db:"status"`
	StatusUpdatedAt    time.Time                   `db:"status_updated_at"`
	Amount             decimal.Decimal             `db:"amount"`
	Discount           decimal.Decimal             `db:"discount"`
	CouponCode         string                      `db:"coupon_code"`
	IsMembership       bool                        `db:"is_membership"`
	IsLoyalty          bool                        `db:"is_loyalty"`
	TransferHistory    model.JSONList[Transfer]    `db:"transfer_history"`
	TransactionHistory model.JSONList[Transaction] `db:"transaction_history"`
	model.Metadata
}

// Amount sums every non-free line.
func Amount(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total())
	}

	return total
}

// MergeLines adds each incoming line to the line with the same item and free flag, or appends it.
func MergeLines(current, incoming []Line) model.JSONList[Line] {
	merged := make(model.JSONList[Line], len(current), len(current)+len(incoming))
	copy(merged, current)

	for _, line := range incoming {
		idx := -1

		for i := range merged {
			if merged[i].ItemID == line.ItemID && merged[i].IsFree == line.IsFree {
				idx = i

				break
			}
		}

		if idx >= 0 {
			merged[idx].Quantity += line.Quantity

			continue
		}

		merged = append(merged, line)
	}

	return merged
}

// IsSettled reports whether the status counts towards releasing the table.
func IsSettled(status string) bool {
	return status == StatusServed || status == StatusPaid || status == StatusCompleted
}

// InvoiceSourceLine is one billable line as recorded on a kitchen ticket.
type InvoiceSourceLine struct {
	ItemID    string
	ItemName  string
	Quantity  int
	Rate      decimal.Decimal
	IsFree    bool
	KOTNumber string
}

// PriceLine applies a catalog discount percentage to rate. Free lines total zero.
func PriceLine(rate, discountPercent decimal.Decimal, quantity int, isFree bool) (finalPrice, total decimal.Decimal) {
	_, finalPrice = ApplyPercent(rate, discountPercent)
	if isFree {
		return finalPrice, decimal.Zero
	}

	return finalPrice, finalPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ApplyPercent returns the discount taken off amount and what remains.
func ApplyPercent(amount, percent decimal.Decimal) (discount, remaining decimal.Decimal) {
	discount = amount.Mul(percent).Div(hundred)

	return discount, amount.Sub(discount)
}
