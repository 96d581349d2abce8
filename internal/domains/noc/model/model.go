package model

import "pos/shared/model"

const (
	TableName   = "nocs"
	EntityName  = "noc"
	CachePrefix = "noc:"

	FieldID               = "id"
	FieldName             = "name"
	FieldAuthorityType    = "authority_type"
	FieldIsCompletelyFree = "is_completely_free"
)

const (
	AuthorityGM      = "gm"
	AuthorityManager = "manager"
	AuthorityOther   = "other"
)

// NOC is a named authorisation that waives the price of an order line.
type NOC struct {
	ID               string `db:"id"`
	Name             string `db:"name"`
	AuthorityType    string `db:"authority_type"`
	IsCompletelyFree bool   `db:"is_completely_free"`
	model.Metadata
}
