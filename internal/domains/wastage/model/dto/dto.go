package dto

import (
	"time"

	"pos/internal/domains/wastage/model"
	"pos/shared"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateWastageRequest struct {
	ItemName      string  `json:"item_name"      validate:"required,max=100"`
	Category      string  `json:"category"       validate:"required,oneof=Food Beverage 'Raw Material' Equipment Other"`
	Department    string  `json:"department"     validate:"required,oneof=Kitchen Restaurant Pantry"`
	Quantity      float64 `json:"quantity"       validate:"gte=0"`
	Unit          string  `json:"unit"           validate:"required,oneof=kg grams liters ml pieces plates bowls"`
	Reason        string  `json:"reason"         validate:"required,oneof=Expired Spoiled Overcooked Burnt Dropped 'Customer Return' 'Preparation Error' Other"`
	EstimatedCost float64 `json:"estimated_cost" validate:"gte=0"`
	ReportedBy    string  `json:"reported_by"    validate:"required,max=100"`
	Date          string  `json:"date"           validate:"omitempty,datetime=2006-01-02"`
}

// ToModel records the wastage on date, or now when date is zero.
func (c *CreateWastageRequest) ToModel(date time.Time, user string) model.Wastage {
	now := timezone.Now()
	if date.IsZero() {
		date = now
	}

	return model.Wastage{
		ID:            uuid.NewString(),
		ItemName:      c.ItemName,
		Category:      c.Category,
		Department:    c.Department,
		Quantity:      decimal.NewFromFloat(c.Quantity),
		Unit:          c.Unit,
		Reason:        c.Reason,
		EstimatedCost: decimal.NewFromFloat(c.EstimatedCost),
		ReportedBy:    c.ReportedBy,
		Date:          date,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateWastageRequest struct {
	ItemName      string   `db:"item_name"      json:"item_name"      validate:"omitempty,max=100"`
	Category      string   `db:"category"       json:"category"       validate:"omitempty,oneof=Food Beverage 'Raw Material' Equipment Other"`
	Department    string   `db:"department"     json:"department"     validate:"omitempty,oneof=Kitchen Restaurant Pantry"`
	Quantity      *float64 `db:"quantity"       json:"quantity"       validate:"omitempty,gte=0"`
	Unit          string   `db:"unit"           json:"unit"           validate:"omitempty,oneof=kg grams liters ml pieces plates bowls"`
	Reason        string   `db:"reason"         json:"reason"         validate:"omitempty,oneof=Expired Spoiled Overcooked Burnt Dropped 'Customer Return' 'Preparation Error' Other"`
	EstimatedCost *float64 `db:"estimated_cost" json:"estimated_cost" validate:"omitempty,gte=0"`
	ReportedBy    string   `db:"reported_by"    json:"reported_by"    validate:"omitempty,max=100"`
}

type WastageResponse struct {
	ID            string          `json:"id"`
	ItemName      string          `json:"item_name"`
	Category      string          `json:"category"`
	Department    string          `json:"department"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	Reason        string          `json:"reason"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	ReportedBy    string          `json:"reported_by"`
	Date          string          `json:"date"`
	gDto.Metadata
}

func (r *WastageResponse) FromModel(mod model.Wastage) {
	r.ID = mod.ID
	r.ItemName = mod.ItemName
	r.Category = mod.Category
	r.Department = mod.Department
	r.Quantity = mod.Quantity
	r.Unit = mod.Unit
	r.Reason = mod.Reason
	r.EstimatedCost = mod.EstimatedCost
	r.ReportedBy = mod.ReportedBy
	r.Date = timezone.Format(mod.Date, time.RFC3339)
	r.Metadata.FromModel(mod.Metadata)
}

type GetWastagesResponse struct {
	Wastages  []WastageResponse `json:"wastages"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetWastagesResponse) FromModels(models []model.Wastage, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Wastages = make([]WastageResponse, len(models))
	for i, mod := range models {
		r.Wastages[i].FromModel(mod)
	}
}
