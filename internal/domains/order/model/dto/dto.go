package dto

import (
	"pos/internal/domains/order/model"
	"pos/shared"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderLineRequest struct {
	ItemID              string `json:"item_id"              validate:"required"`
	Quantity            int    `json:"quantity"             validate:"omitempty,gte=1"`
	IsFree              bool   `json:"is_free"`
	NocID               string `json:"noc_id"`
	SpecialInstructions string `json:"special_instructions" validate:"omitempty,max=255"`
}

// Qty falls back to a single portion.
func (l OrderLineRequest) Qty() int {
	if l.Quantity <= 0 {
		return 1
	}

	return l.Quantity
}

type CreateOrderRequest struct {
	StaffName    string             `json:"staff_name"    validate:"required,max=100"`
	CustomerName string             `json:"customer_name" validate:"omitempty,max=100"`
	TableNo      string             `json:"table_no"      validate:"required,max=20"`
	Items        []OrderLineRequest `json:"items"         validate:"required,min=1,dive"`
	Notes        string             `json:"notes"         validate:"omitempty,max=500"`
	Discount     float64            `json:"discount"      validate:"omitempty,gte=0,lte=100"`
	CouponCode   string             `json:"coupon_code"   validate:"omitempty,max=50"`
	IsMembership bool               `json:"is_membership"`
	IsLoyalty    bool               `json:"is_loyalty"`
}

func (c *CreateOrderRequest) ToModel(user string, lines []model.Line) model.Order {
	now := timezone.Now()

	return model.Order{
		ID:                 uuid.NewString(),
		StaffName:          c.StaffName,
		CustomerName:       c.CustomerName,
		TableNo:            c.TableNo,
		Items:              lines,
		Notes:              c.Notes,
		Status:             model.StatusPending,
		StatusUpdatedAt:    now,
		Amount:             model.Amount(lines),
		Discount:           decimal.NewFromFloat(c.Discount),
		CouponCode:         c.CouponCode,
		IsMembership:       c.IsMembership,
		IsLoyalty:          c.IsLoyalty,
		TransferHistory:    gModel.JSONList[model.Transfer]{},
		TransactionHistory: gModel.JSONList[model.Transaction]{},
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type AddItemsRequest struct {
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

type TransferTableRequest struct {
	NewTableNo     string `json:"new_table_no"     validate:"required,max=20"`
	Reason         string `json:"reason"           validate:"omitempty,max=255"`
	OldTableStatus string `json:"old_table_status" validate:"omitempty,oneof=available occupied reserved maintenance"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reserved running served paid completed cancelled"`
}

type AddTransactionRequest struct {
	Amount        float64 `json:"amount"         validate:"required,gt=0"`
	Method        string  `json:"method"         validate:"required,oneof=cash card upi split"`
	BillID        string  `json:"bill_id"`
	TransactionID string  `json:"transaction_id" validate:"omitempty,max=100"`
}

func (a *AddTransactionRequest) ToModel(user string) model.Transaction {
	return model.Transaction{
		Amount:        decimal.NewFromFloat(a.Amount),
		Method:        a.Method,
		BillID:        a.BillID,
		TransactionID: a.TransactionID,
		ProcessedBy:   user,
		ProcessedAt:   timezone.Now(),
	}
}

type LineResponse struct {
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
	IsFree   bool            `json:"is_free"`
	NocID    string          `json:"noc_id,omitempty"`
}

type OrderResponse struct {
	ID                 string              `json:"id"`
	StaffName          string              `json:"staff_name"`
	CustomerName       string              `json:"customer_name"`
	TableNo            string              `json:"table_no"`
	Items              []LineResponse      `json:"items"`
	Notes              string              `json:"notes"`
	Status             string              `json:"status"`
	StatusUpdatedAt    time.Time           `json:"status_updated_at"`
	Amount             decimal.Decimal     `json:"amount"`
	Discount           decimal.Decimal     `json:"discount"`
	CouponCode         string              `json:"coupon_code"`
	IsMembership       bool                `json:"is_membership"`
	IsLoyalty          bool                `json:"is_loyalty"`
	TransferHistory    []model.Transfer    `json:"transfer_history"`
	TransactionHistory []model.Transaction `json:"transaction_history"`
	gDto.Metadata
}

func (r *OrderResponse) FromModel(mod model.Order) {
	r.ID = mod.ID
	r.StaffName = mod.StaffName
	r.CustomerName = mod.CustomerName
	r.TableNo = mod.TableNo
	r.Notes = mod.Notes
	r.Status = mod.Status
	r.StatusUpdatedAt = mod.StatusUpdatedAt
	r.Amount = mod.Amount
	r.Discount = mod.Discount
	r.CouponCode = mod.CouponCode
	r.IsMembership = mod.IsMembership
	r.IsLoyalty = mod.IsLoyalty
	r.TransferHistory = mod.TransferHistory
	r.TransactionHistory = mod.TransactionHistory
	r.Metadata.FromModel(mod.Metadata)

	r.Items = make([]LineResponse, len(mod.Items))
	for i, line := range mod.Items {
		r.Items[i] = LineResponse{
			ItemID:   line.ItemID,
			ItemName: line.ItemName,
			Quantity: line.Quantity,
			Price:    line.Price,
			Total:    line.Total(),
			IsFree:   line.IsFree,
			NocID:    line.NocID,
		}
	}
}

type GetOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetOrdersResponse) FromModels(models []model.Order, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Orders = make([]OrderResponse, len(models))
	for i, mod := range models {
		r.Orders[i].FromModel(mod)
	}
}

type KOTLineResponse struct {
	ItemName  string          `json:"item_name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	KOTNumber string          `json:"kot_number"`
}

type OrderDetailsResponse struct {
	OrderResponse
	AllKOTItems []KOTLineResponse `json:"all_kot_items"`
	KOTCount    int               `json:"kot_count"`
}

type InvoiceLine struct {
	ItemName   string          `json:"item_name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Discount   decimal.Decimal `json:"discount"`
	FinalPrice decimal.Decimal `json:"final_price"`
	Total      decimal.Decimal `json:"total"`
	IsFree     bool            `json:"is_free"`
	KOTNumber  string          `json:"kot_number"`
}

type InvoiceResponse struct {
	OrderID             string          `json:"order_id"`
	TableNo             string          `json:"table_no"`
	StaffName           string          `json:"staff_name"`
	CustomerName        string          `json:"customer_name"`
	Status              string          `json:"status"`
	Items               []InvoiceLine   `json:"items"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	OrderDiscount       decimal.Decimal `json:"order_discount"`
	OrderDiscountAmount decimal.Decimal `json:"order_discount_amount"`
	FinalAmount         decimal.Decimal `json:"final_amount"`
	KOTCount            int             `json:"kot_count"`
	Notes               string          `json:"notes"`
	CouponCode          string          `json:"coupon_code"`
	IsMembership        bool            `json:"is_membership"`
	IsLoyalty           bool            `json:"is_loyalty"`
	CreatedAt           time.Time       `json:"created_at"`
}
