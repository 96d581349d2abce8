package timezone

import (
	"pos/config"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	dayLayout = "2006-01-02"
)

var (
	appLocation *time.Location
)

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, restaurant days follow UTC")

		appLocation = time.UTC

		return
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC")

		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().Str("timezone", loc.String()).Msg("Restaurant timezone initialized")
}

func location() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Now returns the current time in the restaurant timezone.
func Now() time.Time {
	return time.Now().In(location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

func GetLocation() *time.Location {
	return location()
}

// Parse parses value in the restaurant timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, location())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// StartOfDay returns local midnight of the restaurant day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := ToAppTime(t).Date()

	return time.Date(y, m, d, 0, 0, 0, 0, location())
}

// DayBounds returns [start, end) of the restaurant day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)

	return start, start.AddDate(0, 0, 1)
}

// ParseDay parses a YYYY-MM-DD date as local midnight.
func ParseDay(value string) (time.Time, error) {
	return Parse(dayLayout, value)
}
