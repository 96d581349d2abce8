package dto

import (
	"time"

	"pos/internal/domains/activity/model"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"

	"github.com/google/uuid"
)

// NewLog stamps a location report for salesPersonID; a blank address becomes "Unknown".
func NewLog(salesPersonID string, loc model.Location, user string) model.ActivityLog {
	now := timezone.Now()

	address := loc.Address
	if address == constant.Empty {
		address = model.UnknownAddress
	}

	lat, lng := loc.Latitude, loc.Longitude

	return model.ActivityLog{
		ID:            uuid.NewString(),
		SalesPersonID: salesPersonID,
		Latitude:      &lat,
		Longitude:     &lng,
		Address:       address,
		LoggedAt:      now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ActivityLogResponse struct {
	ID            string   `json:"id"`
	SalesPersonID string   `json:"sales_person_id"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Address       string   `json:"address"`
	LoggedAt      string   `json:"logged_at"`
	gDto.Metadata
}

func (r *ActivityLogResponse) FromModel(mod model.ActivityLog) {
	r.ID = mod.ID
	r.SalesPersonID = mod.SalesPersonID
	r.Latitude = mod.Latitude
	r.Longitude = mod.Longitude
	r.Address = mod.Address
	r.LoggedAt = timezone.Format(mod.LoggedAt, time.RFC3339)
	r.Metadata.FromModel(mod.Metadata)
}

type GetActivityLogsResponse struct {
	Logs      []ActivityLogResponse `json:"logs"`
	TotalPage int                   `json:"total_page"`
	TotalData int                   `json:"total_data"`
}

func (r *GetActivityLogsResponse) FromModels(models []model.ActivityLog, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Logs = make([]ActivityLogResponse, len(models))
	for i, mod := range models {
		r.Logs[i].FromModel(mod)
	}
}

type TrackingResponse struct {
	Message       string `json:"message"`
	SalesPersonID string `json:"sales_person_id"`
	Active        bool   `json:"active"`
}
