package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pos/internal/domains/reservation/model"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name      string
		aIn, aOut string
		bIn, bOut string
		want      bool
	}{
		{name: "partial overlap", aIn: "10:00", aOut: "11:00", bIn: "10:30", bOut: "11:30", want: true},
		{name: "adjacent windows", aIn: "10:00", aOut: "11:00", bIn: "11:00", bOut: "12:00", want: false},
		{name: "contained", aIn: "09:00", aOut: "13:00", bIn: "10:00", bOut: "11:00", want: true},
		{name: "before", aIn: "08:00", aOut: "09:00", bIn: "10:00", bOut: "11:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Overlaps(tt.aIn, tt.aOut, tt.bIn, tt.bOut))
			assert.Equal(t, tt.want, model.Overlaps(tt.bIn, tt.bOut, tt.aIn, tt.aOut))
		})
	}
}

func TestStatusForAdvance(t *testing.T) {
	assert.Equal(t, model.StatusEnquiry, model.StatusForAdvance(decimal.Zero))
	assert.Equal(t, model.StatusReserved, model.StatusForAdvance(decimal.NewFromInt(1)))
}

func TestHourlySlots(t *testing.T) {
	slots := model.HourlySlots(10, 23)

	assert.Len(t, slots, 13)
	assert.Equal(t, model.Slot{Start: "10:00", End: "11:00"}, slots[0])
	assert.Equal(t, model.Slot{Start: "22:00", End: "23:00"}, slots[12])
	assert.Empty(t, model.HourlySlots(23, 10))
}

func TestFreeSlots(t *testing.T) {
	slots := model.HourlySlots(10, 14)

	free := model.FreeSlots(slots, []model.Reservation{{TimeIn: "11:00", TimeOut: "12:30"}})

	assert.Equal(t, []model.Slot{
		{Start: "10:00", End: "11:00"},
		{Start: "13:00", End: "14:00"},
	}, free)
}
