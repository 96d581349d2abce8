package dto

import (
	"pos/internal/domains/table/model"
	"pos/shared"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"

	"github.com/google/uuid"
)

type CreateTableRequest struct {
	TableNumber string `json:"table_number" validate:"required,max=20"`
	Capacity    int    `json:"capacity"     validate:"required"`
	Location    string `json:"location"     validate:"omitempty,oneof=dining rooftop"`
	Status      string `json:"status"       validate:"omitempty,oneof=available occupied reserved maintenance"`
}

func (c *CreateTableRequest) ToModel(user string) model.Table {
	location := c.Location
	if location == "" {
		location = model.LocationDining
	}

	status := c.Status
	if status == "" {
		status = model.StatusAvailable
	}

	return model.Table{
		ID:          uuid.NewString(),
		TableNumber: c.TableNumber,
		Capacity:    c.Capacity,
		Location:    location,
		Status:      status,
		IsActive:    true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateTableRequest leaves status alone; status changes go through the status endpoints.
type UpdateTableRequest struct {
	TableNumber string `db:"table_number" json:"table_number" validate:"omitempty,max=20"`
	Capacity    *int   `db:"capacity"     json:"capacity"`
	Location    string `db:"location"     json:"location"     validate:"omitempty,oneof=dining rooftop"`
}

type UpdateTableStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied reserved maintenance"`
}

type UpdateTableStatusByNumberRequest struct {
	TableNumber string `json:"table_number" validate:"required"`
	Status      string `json:"status"       validate:"required,oneof=available occupied reserved maintenance"`
}

type TableResponse struct {
	ID          string `json:"id"`
	TableNumber string `json:"table_number"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	IsActive    bool   `json:"is_active"`
	gDto.Metadata
}

func (r *TableResponse) FromModel(model model.Table) {
	r.ID = model.ID
	r.TableNumber = model.TableNumber
	r.Capacity = model.Capacity
	r.Location = model.Location
	r.Status = model.Status
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetTablesResponse struct {
	Tables    []TableResponse `json:"tables"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetTablesResponse) FromModels(models []model.Table, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tables = make([]TableResponse, len(models))
	for i, mod := range models {
		r.Tables[i].FromModel(mod)
	}
}
