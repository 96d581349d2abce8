package timezone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pos/shared/timezone"
)

func TestNowUsesRestaurantLocation(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, timezone.GetLocation(), now.Location())
}

func TestDayBounds(t *testing.T) {
	lunch, err := timezone.Parse("2006-01-02 15:04", "2025-11-13 13:45")
	assert.NoError(t, err)

	start, end := timezone.DayBounds(lunch)

	assert.Equal(t, "2025-11-13 00:00", timezone.Format(start, "2006-01-02 15:04"))
	assert.Equal(t, "2025-11-14 00:00", timezone.Format(end, "2006-01-02 15:04"))
	assert.True(t, timezone.StartOfDay(lunch).Equal(start))
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "calendar day", value: "2025-11-13"},
		{name: "wrong order", value: "13-11-2025", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := timezone.ParseDay(tt.value)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.True(t, timezone.StartOfDay(day).Equal(day))
		})
	}
}
