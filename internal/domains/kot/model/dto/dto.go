package dto

import (
	"pos/internal/domains/kot/model"
	"pos/shared"
	gDto "pos/shared/dto"
	"pos/shared/identifier"
	gModel "pos/shared/model"
	"pos/shared/timezone"
	"time"

	"github.com/google/uuid"
)

// NewKOT opens a pending ticket. An empty priority means normal.
func NewKOT(orderID, number, tableNo string, lines []model.Line, priority string, estimated int, user string) model.KOT {
	if priority == "" {
		priority = model.PriorityNormal
	}

	now := timezone.Now()

	return model.KOT{
		ID:              uuid.NewString(),
		OrderID:         orderID,
		KOTNumber:       number,
		TableNo:         tableNo,
		Items:           lines,
		Status:          model.StatusPending,
		Priority:        priority,
		EstimatedTime:   estimated,
		ItemStatuses:    gModel.JSONList[model.ItemStatus]{},
		StatusUpdatedAt: now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type KOTLineRequest struct {
	ItemID              string `json:"item_id"              validate:"required"`
	Quantity            int    `json:"quantity"             validate:"omitempty,gte=1"`
	SpecialInstructions string `json:"special_instructions" validate:"omitempty,max=255"`
	IsFree              bool   `json:"is_free"`
	NocID               string `json:"noc_id"`
}

type CreateKOTRequest struct {
	OrderID             string           `json:"order_id"             validate:"required"`
	Items               []KOTLineRequest `json:"items"                validate:"required,min=1,dive"`
	Priority            string           `json:"priority"             validate:"omitempty,oneof=low normal high urgent"`
	EstimatedTime       int              `json:"estimated_time"       validate:"omitempty,gte=0"`
	SpecialInstructions string           `json:"special_instructions" validate:"omitempty,max=255"`
}

type UpdateKOTStatusRequest struct {
	Status       string `json:"status"        validate:"required,oneof=pending preparing ready served completed cancelled"`
	ActualTime   *int   `json:"actual_time"   validate:"omitempty,gte=0"`
	AssignedChef string `json:"assigned_chef" validate:"omitempty,max=100"`
}

type ItemStatusRequest struct {
	ItemIndex int    `json:"item_index" validate:"gte=0"`
	Status    string `json:"status"     validate:"required,oneof=served delivered"`
}

type UpdateItemStatusesRequest struct {
	ItemStatuses []ItemStatusRequest `json:"item_statuses" validate:"required,min=1,dive"`
}

type KOTResponse struct {
	ID              string             `json:"id"`
	OrderID         string             `json:"order_id"`
	KOTNumber       string             `json:"kot_number"`
	DisplayNumber   string             `json:"display_number"`
	TableNo         string             `json:"table_no"`
	Items           []model.Line       `json:"items"`
	Status          string             `json:"status"`
	Priority        string             `json:"priority"`
	EstimatedTime   int                `json:"estimated_time"`
	ActualTime      int                `json:"actual_time"`
	AssignedChef    string             `json:"assigned_chef"`
	ItemStatuses    []model.ItemStatus `json:"item_statuses"`
	StatusUpdatedAt time.Time          `json:"status_updated_at"`
	gDto.Metadata
}

func (r *KOTResponse) FromModel(mod model.KOT) {
	r.ID = mod.ID
	r.OrderID = mod.OrderID
	r.KOTNumber = mod.KOTNumber
	r.DisplayNumber = identifier.DisplayCode(mod.KOTNumber)
	r.TableNo = mod.TableNo
	r.Items = mod.Items
	r.Status = mod.Status
	r.Priority = mod.Priority
	r.EstimatedTime = mod.EstimatedTime
	r.ActualTime = mod.ActualTime
	r.AssignedChef = mod.AssignedChef
	r.ItemStatuses = mod.ItemStatuses
	r.StatusUpdatedAt = mod.StatusUpdatedAt
	r.Metadata.FromModel(mod.Metadata)
}

type GetKOTsResponse struct {
	KOTs      []KOTResponse `json:"kots"`
	TotalPage int           `json:"total_page"`
	TotalData int           `json:"total_data"`
}

func (r *GetKOTsResponse) FromModels(models []model.KOT, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.KOTs = make([]KOTResponse, len(models))
	for i, mod := range models {
		r.KOTs[i].FromModel(mod)
	}
}

type ItemStatusesResponse struct {
	ItemStatuses []model.ItemStatus `json:"item_statuses"`
}
