package model

import (
	"errors"
	"fmt"
	"pos/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "kots"
	EntityName = "kot"

	FieldID              = "id"
	FieldOrderID         = "order_id"
	FieldKOTNumber       = "kot_number"
	FieldTableNo         = "table_no"
	FieldItems           = "items"
	FieldStatus          = "status"
	FieldPriority        = "priority"
	FieldActualTime      = "actual_time"
	FieldAssignedChef    = "assigned_chef"
	FieldItemStatuses    = "item_statuses"
	FieldStatusUpdatedAt = "status_updated_at"
)

const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusServed    = "served"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	ItemStatusServed    = "served"
	ItemStatusDelivered = "delivered"
)

var ErrInvalidTransition = errors.New("invalid kot status transition")

var statusRank = map[string]int{
	StatusPending:   0,
	StatusPreparing: 1,
	StatusReady:     2,
	StatusServed:    3,
	StatusCompleted: 4,
}

type Line struct {
	ItemID              string          `json:"item_id"`
	ItemName            string          `json:"item_name"`
	Quantity            int             `json:"quantity"`
	Rate                decimal.Decimal `json:"rate"`
	Amount              decimal.Decimal `json:"amount"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	IsFree              bool            `json:"is_free"`
	NocID               string          `json:"noc_id,omitempty"`
}

type ItemStatus struct {
	ItemIndex int       `json:"item_index"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type KOT struct {
	ID              string                     `db:"id"`
	OrderID         string                     `db:"order_id"`
	KOTNumber       string                     `db:"kot_number"`
	TableNo         string                     `db:"table_no"`
	Items           model.JSONList[Line]       `db:"items"`
	Status          string                     `db:"status"`
	Priority        string                     `db:"priority"`
	EstimatedTime   int                        `db:"estimated_time"`
	ActualTime      int                        `db:"actual_time"`
	AssignedChef    string                     `db:"assigned_chef"`
	ItemStatuses    model.JSONList[ItemStatus] `db:"item_statuses"`
	StatusUpdatedAt time.Time                  `db:"status_updated_at"`
	model.Metadata
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// ValidateTransition allows forward moves along the kitchen flow, skipping steps, and
// cancellation from any non-terminal status. Re-issuing the current status is allowed.
func ValidateTransition(from, to string) error {
	if from == to {
		return nil
	}

	if IsTerminal(from) {
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, from)
	}

	if to == StatusCancelled {
		return nil
	}

	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]

	if !okFrom || !okTo || toRank <= fromRank {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}

	return nil
}

// UpsertItemStatuses replaces the entry with the same index or appends a new one.
func UpsertItemStatuses(current []ItemStatus, updates []ItemStatus) []ItemStatus {
	result := make([]ItemStatus, len(current), len(current)+len(updates))
	copy(result, current)

	for _, update := range updates {
		replaced := false

		for i := range result {
			if result[i].ItemIndex == update.ItemIndex {
				result[i] = update
				replaced = true

				break
			}
		}

		if !replaced {
			result = append(result, update)
		}
	}

	return result
}

// MinutesSince returns whole minutes elapsed between from and now.
func MinutesSince(from, now time.Time) int {
	if now.Before(from) {
		return 0
	}

	return int(now.Sub(from) / time.Minute)
}
