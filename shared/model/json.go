package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var errUnsupportedJSONSource = errors.New("unsupported source type for json column")

// JSONList stores a slice in a JSONB column.
type JSONList[T any] []T

func (j JSONList[T]) Value() (driver.Value, error) {
	if j == nil {
		return []byte("[]"), nil
	}

	b, err := json.Marshal([]T(j))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json column: %w", err)
	}

	return b, nil
}

func (j *JSONList[T]) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*j = JSONList[T]{}

		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: %T", errUnsupportedJSONSource, src)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to unmarshal json column: %w", err)
	}

	*j = items

	return nil
}
