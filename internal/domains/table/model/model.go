package model

import "pos/shared/model"

const (
	TableName   = "restaurant_tables"
	EntityName  = "table"
	CachePrefix = "table:"

	FieldID          = "id"
	FieldTableNumber = "table_number"
	FieldCapacity    = "capacity"
	FieldLocation    = "location"
	FieldStatus      = "status"
	FieldIsActive    = "is_active"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusReserved    = "reserved"
	StatusMaintenance = "maintenance"
)

const (
	LocationDining  = "dining"
	LocationRooftop = "rooftop"
)

const (
	MinCapacity = 1
	MaxCapacity = 4
)

type Table struct {
	ID          string `db:"id"`
	TableNumber string `db:"table_number"`
	Capacity    int    `db:"capacity"`
	Location    string `db:"location"`
	Status      string `db:"status"`
	IsActive    bool   `db:"is_active"`
	model.Metadata
}
