package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"pos/shared/cache"
	"pos/shared/constant"
	"pos/shared/dto"
	"pos/shared/failure"
	"pos/shared/timezone"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

func parseOptional[T any](value, kind string, parse func(string) (T, error)) *T {
	if value == "" {
		return nil
	}

	parsed, err := parse(value)
	if err != nil {
		log.Warn().Err(err).Str("value", value).Msgf("ignoring malformed %s", kind)

		return nil
	}

	return &parsed
}

// ConvertStringToBool reads optional form and query flags; blank or malformed input yields nil.
func ConvertStringToBool(value string) *bool {
	return parseOptional(value, "bool", strconv.ParseBool)
}

func ConvertStringToInt(value string) *int {
	return parseOptional(value, "int", strconv.Atoi)
}

func ConvertStringToFloat(value string) *float64 {
	return parseOptional(value, "float", func(v string) (float64, error) {
		return strconv.ParseFloat(v, 64)
	})
}

// CalculateTotalPage never reports fewer than one page.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields turns a partial update request into column values. Zero fields are left out,
// so optional fields must be pointers when zero is a valid value. The audit columns are always set.
func TransformFields(data any, actor string) map[string]any {
	val := reflect.ValueOf(data)
	typ := val.Type()

	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	for index := range val.NumField() {
		column := typ.Field(index).Tag.Get("db")
		if column == "" || column == "-" || val.Field(index).IsZero() {
			continue
		}

		fields[column] = val.Field(index).Interface()
	}

	return fields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterBy(fieldID, id, table)
}

func FilterBy(field string, value any, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    field,
				Value:    value,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins the prefix and parts with ":".
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a stable key for a list query from its paging and filter arguments.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	raw := fmt.Sprintf("%d|%d|%s|%s|%s|%v", params.Page, params.Limit, params.SortBy, params.SortDir, where, args)
	sum := sha256.Sum256([]byte(raw))

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:8]))
}

// InvalidateCaches removes every key under prefix. Errors are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// Actor returns the authenticated user, or the system user for unauthenticated writers.
func Actor(ctx context.Context) string {
	if user, _ := ctx.Value(constant.ContextKeyUserID).(string); user != constant.Empty {
		return user
	}

	return constant.SystemUser
}

// DayRange bounds field to the calendar days [from, to] in the app timezone. Blank bounds stay open.
func DayRange(field, table, from, to string) ([]any, error) {
	filters := []any{}

	if from != constant.Empty {
		start, err := timezone.ParseDay(from)
		if err != nil {
			return nil, failure.InvalidFormat(constant.RequestParamFromDate, constant.DayFormat)
		}

		filters = append(filters, dto.Filter{
			ArgName:  field + "_from",
			Field:    field,
			Value:    start,
			Operator: dto.FilterOperatorGreaterEq,
			Table:    table,
		})
	}

	if to != constant.Empty {
		end, err := timezone.ParseDay(to)
		if err != nil {
			return nil, failure.InvalidFormat(constant.RequestParamToDate, constant.DayFormat)
		}

		filters = append(filters, dto.Filter{
			ArgName:  field + "_to",
			Field:    field,
			Value:    end.AddDate(0, 0, 1),
			Operator: dto.FilterOperatorLess,
			Table:    table,
		})
	}

	return filters, nil
}
