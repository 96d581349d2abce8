package router

import (
	"pos/internal/handlers/activity"
	"pos/internal/handlers/auth"
	"pos/internal/handlers/bill"
	"pos/internal/handlers/invoice"
	"pos/internal/handlers/item"
	"pos/internal/handlers/kot"
	"pos/internal/handlers/noc"
	"pos/internal/handlers/notification"
	"pos/internal/handlers/order"
	"pos/internal/handlers/reservation"
	"pos/internal/handlers/staff"
	"pos/internal/handlers/table"
	"pos/internal/handlers/wastage"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	Staff        staff.Handler
	Order        order.Handler
	KOT          kot.Handler
	Bill         bill.Handler
	Table        table.Handler
	Reservation  reservation.Handler
	Item         item.Handler
	NOC          noc.Handler
	Notification notification.Handler
	Invoice      invoice.Handler
	Wastage      wastage.Handler
	Activity     activity.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Staff.Router(routerGroup)
		r.DomainHandlers.Order.Router(routerGroup)
		r.DomainHandlers.KOT.Router(routerGroup)
		r.DomainHandlers.Bill.Router(routerGroup)
		r.DomainHandlers.Table.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Item.Router(routerGroup)
		r.DomainHandlers.NOC.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
		r.DomainHandlers.Invoice.Router(routerGroup)
		r.DomainHandlers.Wastage.Router(routerGroup)
		r.DomainHandlers.Activity.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
