package model

import (
	"pos/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName   = "items"
	EntityName  = "item"
	CachePrefix = "item:"

	FieldID            = "id"
	FieldName          = "name"
	FieldPrice         = "price"
	FieldCategory      = "category"
	FieldDiscount      = "discount"
	FieldStatus        = "status"
	FieldInStock       = "in_stock"
	FieldImage         = "image"
	FieldDescription   = "description"
	FieldTimeToPrepare = "time_to_prepare"
)

const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
)

type Item struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Price         decimal.Decimal `db:"price"`
	Category      string          `db:"category"`
	Discount      decimal.Decimal `db:"discount"`
	Status        string          `db:"status"`
	InStock       bool            `db:"in_stock"`
	Image         string          `db:"image"`
	Description   string          `db:"description"`
	TimeToPrepare int             `db:"time_to_prepare"`
	model.Metadata
}
