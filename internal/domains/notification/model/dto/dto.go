package dto

import (
	"fmt"
	"pos/internal/domains/notification/model"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"

	"github.com/google/uuid"
)

// NewOrderReady builds the notice sent to the waiter who placed an order once the kitchen serves it.
// An empty message gets the default wording.
func NewOrderReady(recipient, orderID, kotID, tableNo, message string) model.Notification {
	now := timezone.Now()

	if message == "" {
		message = fmt.Sprintf("Order for Table %s is ready for serving", tableNo)
	}

	return model.Notification{
		ID:        uuid.NewString(),
		Recipient: recipient,
		Message:   message,
		Type:      model.TypeOrderReady,
		OrderID:   orderID,
		KOTID:     kotID,
		TableNo:   tableNo,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  recipient,
			ModifiedBy: recipient,
		},
	}
}

type OrderReadyRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	KOTID   string `json:"kot_id"`
	TableNo string `json:"table_no" validate:"required,max=20"`
	Message string `json:"message"  validate:"omitempty,max=255"`
}

type NotificationResponse struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	OrderID   string `json:"order_id"`
	KOTID     string `json:"kot_id"`
	TableNo   string `json:"table_no"`
	IsRead    bool   `json:"is_read"`
	gDto.Metadata
}

func (r *NotificationResponse) FromModel(mod model.Notification) {
	r.ID = mod.ID
	r.Recipient = mod.Recipient
	r.Message = mod.Message
	r.Type = mod.Type
	r.OrderID = mod.OrderID
	r.KOTID = mod.KOTID
	r.TableNo = mod.TableNo
	r.IsRead = mod.IsRead
	r.Metadata.FromModel(mod.Metadata)
}
