package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"pos/shared/timezone"
	"time"
)

type Audience string

const (
	AudienceWaiters Audience = "waiters"
	AudienceKitchen Audience = "kitchen-updates"
)

const (
	TypeNewOrder             = "new-order"
	TypeNewRestaurantOrder   = "new-restaurant-order"
	TypeOrderUpdated         = "order-updated"
	TypeOrderStatusUpdated   = "order-status-updated"
	TypeTableTransferred     = "table-transferred"
	TypeTableStatusUpdated   = "table-status-updated"
	TypeTableCreated         = "table-created"
	TypeTableUpdated         = "table-updated"
	TypeTableDeleted         = "table-deleted"
	TypeNewKOT               = "new-kot"
	TypeNewKOTCreated        = "new-kot-created"
	TypeKOTStatusUpdated     = "kot-status-updated"
	TypeKOTItemStatusUpdated = "kot-item-status-updated"
	TypeBillCreated          = "bill-created"
	TypeBillPaid             = "bill-paid"
	TypeReservationCreated   = "reservation-created"
	TypeReservationUpdated   = "reservation-updated"
	TypeNotificationCreated  = "notification-created"
)

// Event is the envelope written to every sink.
type Event struct {
	Type      string    `json:"type"`
	Audience  Audience  `json:"audience"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

func New(audience Audience, eventType string, payload any) Event {
	return Event{
		Type:      eventType,
		Audience:  audience,
		Payload:   payload,
		Timestamp: timezone.Now(),
	}
}

// Emitter queues events for asynchronous delivery. Emit never blocks the caller.
type Emitter interface {
	Emit(ctx context.Context, evt Event)
	Start(ctx context.Context)
	Close()
}

// Sink delivers a single event to an external broker.
type Sink interface {
	Name() string
	Publish(ctx context.Context, evt Event) error
}
