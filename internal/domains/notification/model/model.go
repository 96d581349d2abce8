package model

import "pos/shared/model"

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID        = "id"
	FieldRecipient = "recipient"
	FieldType      = "type"
	FieldIsRead    = "is_read"
)

const (
	TypeOrderReady = "order_ready"
	TypeGeneral    = "general"
)

const MyNotificationsLimit = 50

type Notification struct {
	ID        string `db:"id"`
	Recipient string `db:"recipient"`
	Message   string `db:"message"`
	Type      string `db:"type"`
	OrderID   string `db:"order_id"`
	KOTID     string `db:"kot_id"`
	TableNo   string `db:"table_no"`
	IsRead    bool   `db:"is_read"`
	model.Metadata
}
