package identifier

import (
	"context"
	"fmt"
	"pos/shared/constant"
	"pos/shared/dto"
	"pos/shared/timezone"
	"time"
)

const (
	displayWidth   = 3
	displayDefault = "000"
	argDayStart    = "day_start"
	argDayEnd      = "day_end"
)

// Kind describes one family of human-readable codes.
type Kind struct {
	Prefix string
	Width  int
	Modulo int
}

var (
	Bill        = Kind{Prefix: "BILL", Width: 4}
	Reservation = Kind{Prefix: "RES", Width: 4}
	KOT         = Kind{Prefix: "KOT", Width: 3, Modulo: 999}
)

// Counter is satisfied by every domain repository.
type Counter interface {
	Count(ctx context.Context, filter dto.FilterGroup) (int, error)
}

// Next counts today's rows of table and returns the following code. Two concurrent
// callers can receive the same code; the unique index on the column rejects the loser.
func Next(ctx context.Context, kind Kind, table string, counter Counter) (string, error) {
	now := timezone.Now()

	count, err := counter.Count(ctx, DayFilter(table, now))
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to count %s codes: %w", kind.Prefix, err)
	}

	return Format(kind, now, count), nil
}

// Format builds the code for the given day when count codes already exist.
func Format(kind Kind, day time.Time, count int) string {
	seq := count + 1
	if kind.Modulo > 0 {
		seq = (count % kind.Modulo) + 1
	}

	return fmt.Sprintf("%s%s%0*d", kind.Prefix, day.Format(constant.CompactDay), kind.Width, seq)
}

// DisplayCode returns the short suffix shown on kitchen screens.
func DisplayCode(code string) string {
	if code == constant.Empty {
		return displayDefault
	}

	if len(code) <= displayWidth {
		return code
	}

	return code[len(code)-displayWidth:]
}

// DayFilter matches rows whose created_at falls on the calendar day of t.
func DayFilter(table string, t time.Time) dto.FilterGroup {
	start, end := timezone.DayBounds(t)

	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				ArgName:  argDayStart,
				Field:    constant.FieldCreatedAt,
				Value:    start,
				Operator: dto.FilterOperatorGreaterEq,
				Table:    table,
			},
			dto.Filter{
				ArgName:  argDayEnd,
				Field:    constant.FieldCreatedAt,
				Value:    end,
				Operator: dto.FilterOperatorLess,
				Table:    table,
			},
		},
	}
}
