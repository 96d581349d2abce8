package identifier_test

import (
	"context"
	"errors"
	"pos/shared/dto"
	"pos/shared/identifier"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type counterFunc func(ctx context.Context, filter dto.FilterGroup) (int, error)

func (f counterFunc) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	return f(ctx, filter)
}

func TestFormat(t *testing.T) {
	day := time.Date(2025, 11, 13, 15, 4, 0, 0, time.UTC)

	tests := []struct {
		name  string
		kind  identifier.Kind
		count int
		want  string
	}{
		{name: "first bill of the day", kind: identifier.Bill, count: 0, want: "BILL202511130001"},
		{name: "bill keeps four digits", kind: identifier.Bill, count: 41, want: "BILL202511130042"},
		{name: "reservation", kind: identifier.Reservation, count: 9, want: "RES202511130010"},
		{name: "kot", kind: identifier.KOT, count: 6, want: "KOT20251113007"},
		{name: "kot wraps after 999", kind: identifier.KOT, count: 999, want: "KOT20251113001"},
		{name: "kot last before wrap", kind: identifier.KOT, count: 998, want: "KOT20251113999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identifier.Format(tt.kind, day, tt.count))
		})
	}
}

func TestDisplayCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "kot code", code: "KOT20251113007", want: "007"},
		{name: "empty", code: "", want: "000"},
		{name: "short", code: "12", want: "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identifier.DisplayCode(tt.code))
		})
	}
}

func TestNext(t *testing.T) {
	t.Run("uses same day count", func(t *testing.T) {
		var captured dto.FilterGroup

		counter := counterFunc(func(_ context.Context, filter dto.FilterGroup) (int, error) {
			captured = filter

			return 2, nil
		})

		code, err := identifier.Next(context.Background(), identifier.Bill, "bills", counter)

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(code, "BILL"))
		assert.True(t, strings.HasSuffix(code, "0003"))
		assert.Len(t, code, len("BILL")+8+4)

		where, args := captured.GetWhereClause()
		assert.Contains(t, where, "bills.created_at >= :day_start")
		assert.Contains(t, where, "bills.created_at < :day_end")
		assert.Len(t, args, 2)
	})

	t.Run("count error", func(t *testing.T) {
		counter := counterFunc(func(_ context.Context, _ dto.FilterGroup) (int, error) {
			return 0, errors.New("db down")
		})

		_, err := identifier.Next(context.Background(), identifier.KOT, "kots", counter)

		assert.Error(t, err)
	})
}

func TestDayFilter(t *testing.T) {
	day := time.Date(2025, 11, 13, 23, 59, 0, 0, time.UTC)

	filter := identifier.DayFilter("kots", day)
	_, args := filter.GetWhereClause()

	assert.Equal(t, time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC), args["day_start"])
	assert.Equal(t, time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC), args["day_end"])
}
