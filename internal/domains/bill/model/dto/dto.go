package dto

import (
	"pos/internal/domains/bill/model"
	"pos/shared"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBillRequest struct {
	OrderID       string  `json:"order_id"       validate:"required"`
	Discount      float64 `json:"discount"       validate:"omitempty,gte=0"`
	Tax           float64 `json:"tax"            validate:"omitempty,gte=0"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=cash card upi split"`
	ReservationID string  `json:"reservation_id"`
}

// ToModel prices the bill against the order subtotal and the advance still available.
func (c *CreateBillRequest) ToModel(number, tableNo string, subtotal, advance decimal.Decimal, user string) model.Bill {
	now := timezone.Now()
	discount := decimal.NewFromFloat(c.Discount)
	tax := decimal.NewFromFloat(c.Tax)
	total, remaining := model.Totals(subtotal, discount, tax, advance)

	return model.Bill{
		ID:              uuid.NewString(),
		OrderID:         c.OrderID,
		BillNumber:      number,
		TableNo:         tableNo,
		Subtotal:        subtotal,
		Discount:        discount,
		Tax:             tax,
		TotalAmount:     total,
		AdvancePayment:  advance,
		RemainingAmount: remaining,
		PaymentMethod:   c.PaymentMethod,
		SplitPayments:   gModel.JSONList[model.SplitPayment]{},
		PaymentStatus:   model.PaymentStatusPending,
		PaidAmount:      decimal.Zero,
		ChangeAmount:    decimal.Zero,
		CashierID:       user,
		ReservationID:   c.ReservationID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ProcessPaymentRequest struct {
	PaidAmount    float64 `json:"paid_amount"    validate:"gte=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash card upi"`
}

type SplitPaymentRequest struct {
	Method string  `json:"method" validate:"required,oneof=cash card upi"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

type ProcessSplitPaymentRequest struct {
	Payments []SplitPaymentRequest `json:"payments" validate:"required,min=1,dive"`
}

// ToModel returns the recorded parts and their sum.
func (p *ProcessSplitPaymentRequest) ToModel() (gModel.JSONList[model.SplitPayment], decimal.Decimal) {
	parts := make(gModel.JSONList[model.SplitPayment], len(p.Payments))
	paid := decimal.Zero

	for i, payment := range p.Payments {
		parts[i] = model.SplitPayment{Method: payment.Method, Amount: decimal.NewFromFloat(payment.Amount)}
		paid = paid.Add(parts[i].Amount)
	}

	return parts, paid
}

type UpdateBillStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid"`
}

type BillResponse struct {
	ID              string               `json:"id"`
	OrderID         string               `json:"order_id"`
	BillNumber      string               `json:"bill_number"`
	TableNo         string               `json:"table_no"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Discount        decimal.Decimal      `json:"discount"`
	Tax             decimal.Decimal      `json:"tax"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	AdvancePayment  decimal.Decimal      `json:"advance_payment"`
	RemainingAmount decimal.Decimal      `json:"remaining_amount"`
	PaymentMethod   string               `json:"payment_method"`
	SplitPayments   []model.SplitPayment `json:"split_payments"`
	PaymentStatus   string               `json:"payment_status"`
	PaidAmount      decimal.Decimal      `json:"paid_amount"`
	ChangeAmount    decimal.Decimal      `json:"change_amount"`
	CashierID       string               `json:"cashier_id"`
	ReservationID   string               `json:"reservation_id,omitempty"`
	gDto.Metadata
}

func (r *BillResponse) FromModel(mod model.Bill) {
	r.ID = mod.ID
	r.OrderID = mod.OrderID
	r.BillNumber = mod.BillNumber
	r.TableNo = mod.TableNo
	r.Subtotal = mod.Subtotal
	r.Discount = mod.Discount
	r.Tax = mod.Tax
	r.TotalAmount = mod.TotalAmount
	r.AdvancePayment = mod.AdvancePayment
	r.RemainingAmount = mod.RemainingAmount
	r.PaymentMethod = mod.PaymentMethod
	r.SplitPayments = mod.SplitPayments
	r.PaymentStatus = mod.PaymentStatus
	r.PaidAmount = mod.PaidAmount
	r.ChangeAmount = mod.ChangeAmount
	r.CashierID = mod.CashierID
	r.ReservationID = mod.ReservationID
	r.Metadata.FromModel(mod.Metadata)
}

type GetBillsResponse struct {
	Bills     []BillResponse `json:"bills"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetBillsResponse) FromModels(models []model.Bill, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bills = make([]BillResponse, len(models))
	for i, mod := range models {
		r.Bills[i].FromModel(mod)
	}
}

type AdvanceReservation struct {
	ReservationNumber string          `json:"reservation_number"`
	GuestName         string          `json:"guest_name"`
	AdvancePayment    decimal.Decimal `json:"advance_payment"`
	ReservationDate   time.Time       `json:"reservation_date"`
}

type PaymentBreakdown struct {
	TotalBill       decimal.Decimal `json:"total_bill"`
	AdvancePaid     decimal.Decimal `json:"advance_paid"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	ChangeAmount    decimal.Decimal `json:"change_amount"`
}

type AdvanceDetailsResponse struct {
	BillResponse
	Reservation      *AdvanceReservation `json:"reservation"`
	PaymentBreakdown PaymentBreakdown    `json:"payment_breakdown"`
}
