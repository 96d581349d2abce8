package dto

import (
	"pos/internal/domains/reservation/model"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateReservationRequest struct {
	GuestName       string  `json:"guest_name"       validate:"required,max=100"`
	PhoneNumber     string  `json:"phone_number"     validate:"required,max=20"`
	Email           string  `json:"email"            validate:"omitempty,email"`
	PartySize       int     `json:"party_size"       validate:"required,gte=1"`
	ReservationDate string  `json:"reservation_date" validate:"required,datetime=2006-01-02"`
	TimeIn          string  `json:"time_in"          validate:"required,clock"`
	TimeOut         string  `json:"time_out"         validate:"required,clock"`
	TableNo         string  `json:"table_no"         validate:"omitempty,max=20"`
	SpecialRequests string  `json:"special_requests" validate:"omitempty,max=500"`
	AdvancePayment  float64 `json:"advance_payment"  validate:"omitempty,gte=0"`
}

func (c *CreateReservationRequest) ToModel(number string, date time.Time, user string) model.Reservation {
	now := timezone.Now()
	advance := decimal.NewFromFloat(c.AdvancePayment)

	return model.Reservation{
		ID:                uuid.NewString(),
		ReservationNumber: number,
		GuestName:         c.GuestName,
		PhoneNumber:       c.PhoneNumber,
		Email:             c.Email,
		PartySize:         c.PartySize,
		ReservationDate:   date,
		TimeIn:            c.TimeIn,
		TimeOut:           c.TimeOut,
		TableNo:           c.TableNo,
		Status:            model.StatusForAdvance(advance),
		SpecialRequests:   c.SpecialRequests,
		AdvancePayment:    advance,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateReservationRequest struct {
	GuestName       string `db:"guest_name"       json:"guest_name"       validate:"omitempty,max=100"`
	PhoneNumber     string `db:"phone_number"     json:"phone_number"     validate:"omitempty,max=20"`
	Email           string `db:"email"            json:"email"            validate:"omitempty,email"`
	PartySize       int    `db:"party_size"       json:"party_size"       validate:"omitempty,gte=1"`
	ReservationDate string `json:"reservation_date" validate:"omitempty,datetime=2006-01-02"`
	TimeIn          string `db:"time_in"          json:"time_in"          validate:"omitempty,clock"`
	TimeOut         string `db:"time_out"         json:"time_out"         validate:"omitempty,clock"`
	TableNo         string `db:"table_no"         json:"table_no"         validate:"omitempty,max=20"`
	SpecialRequests string `db:"special_requests" json:"special_requests" validate:"omitempty,max=500"`
}

// Reschedules reports whether the update moves the booking in time.
func (u *UpdateReservationRequest) Reschedules() bool {
	return u.ReservationDate != "" || u.TimeIn != "" || u.TimeOut != ""
}

type UpdateReservationStatusRequest struct {
	Status  string `json:"status"   validate:"required,oneof=enquiry reserved complete"`
	TableNo string `json:"table_no" validate:"omitempty,max=20"`
}

type UpdatePaymentRequest struct {
	AdvancePayment float64 `json:"advance_payment" validate:"gte=0"`
}

type ReservationResponse struct {
	ID                string          `json:"id"`
	ReservationNumber string          `json:"reservation_number"`
	GuestName         string          `json:"guest_name"`
	PhoneNumber       string          `json:"phone_number"`
	Email             string          `json:"email"`
	PartySize         int             `json:"party_size"`
	ReservationDate   string          `json:"reservation_date"`
	TimeIn            string          `json:"time_in"`
	TimeOut           string          `json:"time_out"`
	TableNo           string          `json:"table_no"`
	Status            string          `json:"status"`
	SpecialRequests   string          `json:"special_requests"`
	AdvancePayment    decimal.Decimal `json:"advance_payment"`
	IsAdvanceAdjusted bool            `json:"is_advance_adjusted"`
	AdjustedInBill    string          `json:"adjusted_in_bill,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(mod model.Reservation) {
	r.ID = mod.ID
	r.ReservationNumber = mod.ReservationNumber
	r.GuestName = mod.GuestName
	r.PhoneNumber = mod.PhoneNumber
	r.Email = mod.Email
	r.PartySize = mod.PartySize
	r.ReservationDate = mod.ReservationDate.Format(constant.DayFormat)
	r.TimeIn = mod.TimeIn
	r.TimeOut = mod.TimeOut
	r.TableNo = mod.TableNo
	r.Status = mod.Status
	r.SpecialRequests = mod.SpecialRequests
	r.AdvancePayment = mod.AdvancePayment
	r.IsAdvanceAdjusted = mod.IsAdvanceAdjusted
	r.AdjustedInBill = mod.AdjustedInBill
	r.Metadata.FromModel(mod.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type AvailableSlotsResponse struct {
	Date                string       `json:"date"`
	TotalSlots          int          `json:"total_slots"`
	AvailableSlotsCount int          `json:"available_slots_count"`
	AvailableSlots      []model.Slot `json:"available_slots"`
}
