package model

import (
	"fmt"
	"pos/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName   = "reservations"
	EntityName  = "reservation"
	CachePrefix = "reservation:"

	FieldID                = "id"
	FieldReservationNumber = "reservation_number"
	FieldGuestName         = "guest_name"
	FieldPhoneNumber       = "phone_number"
	FieldEmail             = "email"
	FieldPartySize         = "party_size"
	FieldReservationDate   = "reservation_date"
	FieldTimeIn            = "time_in"
	FieldTimeOut           = "time_out"
	FieldTableNo           = "table_no"
	FieldStatus            = "status"
	FieldAdvancePayment    = "advance_payment"
	FieldIsAdvanceAdjusted = "is_advance_adjusted"
	FieldAdjustedInBill    = "adjusted_in_bill"
)

const (
	StatusEnquiry  = "enquiry"
	StatusReserved = "reserved"
	StatusComplete = "complete"
)

type Reservation struct {
	ID                string          `db:"id"`
	ReservationNumber string          `db:"reservation_number"`
	GuestName         string          `db:"guest_name"`
	PhoneNumber       string          `db:"phone_number"`
	Email             string          `db:"email"`
	PartySize         int             `db:"party_size"`
	ReservationDate   time.Time       `db:"reservation_date"`
	TimeIn            string          `db:"time_in"`
	TimeOut           string          `db:"time_out"`
	TableNo           string          `db:"table_no"`
	Status            string          `db:"status"`
	SpecialRequests   string          `db:"special_requests"`
	AdvancePayment    decimal.Decimal `db:"advance_payment"`
	IsAdvanceAdjusted bool            `db:"is_advance_adjusted"`
	AdjustedInBill    string          `db:"adjusted_in_bill"`
	model.Metadata
}

// Overlaps reports whether [aIn, aOut) and [bIn, bOut) intersect. Times are zero padded
// "HH:MM" strings, so lexical order matches clock order.
func Overlaps(aIn, aOut, bIn, bOut string) bool {
	return aIn < bOut && aOut > bIn
}

// StatusForAdvance is reserved once any advance is paid.
func StatusForAdvance(advance decimal.Decimal) string {
	if advance.GreaterThan(decimal.Zero) {
		return StatusReserved
	}

	return StatusEnquiry
}

// Slot is a bookable [Start, End) window.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// HourlySlots lists one-hour windows from opening until closing.
func HourlySlots(opening, closing int) []Slot {
	slots := make([]Slot, 0, max(0, closing-opening))
	for hour := opening; hour < closing; hour++ {
		slots = append(slots, Slot{
			Start: fmt.Sprintf("%02d:00", hour),
			End:   fmt.Sprintf("%02d:00", hour+1),
		})
	}

	return slots
}

// FreeSlots drops every slot that overlaps one of the booked reservations.
func FreeSlots(slots []Slot, booked []Reservation) []Slot {
	free := make([]Slot, 0, len(slots))

	for _, slot := range slots {
		taken := false
		for _, r := range booked {
			if Overlaps(r.TimeIn, r.TimeOut, slot.Start, slot.End) {
				taken = true

				break
			}
		}

		if !taken {
			free = append(free, slot)
		}
	}

	return free
}
