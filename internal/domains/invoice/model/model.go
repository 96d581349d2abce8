package model

import (
	"pos/shared/constant"
	"pos/shared/model"
)

const (
	TableName   = "restaurant_invoices"
	EntityName  = "invoice"
	CachePrefix = "invoice:"

	FieldID            = "id"
	FieldOrderID       = "order_id"
	FieldClientName    = "client_name"
	FieldClientAddress = "client_address"
	FieldClientCity    = "client_city"
	FieldClientCompany = "client_company"
	FieldClientMobile  = "client_mobile_no"
	FieldClientGSTIN   = "client_gstin"
)

// ClientColumns are rewritten when an invoice for the same order is saved again.
var ClientColumns = []string{
	FieldClientName,
	FieldClientAddress,
	FieldClientCity,
	FieldClientCompany,
	FieldClientMobile,
	FieldClientGSTIN,
	constant.FieldModifiedAt,
	constant.FieldModifiedBy,
}

// Invoice holds the billing party printed on an order's tax invoice.
type Invoice struct {
	ID            string `db:"id"`
	OrderID       string `db:"order_id"`
	ClientName    string `db:"client_name"`
	ClientAddress string `db:"client_address"`
	ClientCity    string `db:"client_city"`
	ClientCompany string `db:"client_company"`
	ClientMobile  string `db:"client_mobile_no"`
	ClientGSTIN   string `db:"client_gstin"`
	model.Metadata
}
