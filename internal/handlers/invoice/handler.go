package invoice

import (
	"net/http"

	"pos/infras/otel"
	"pos/internal/domains/invoice/model"
	"pos/internal/domains/invoice/model/dto"
	"pos/internal/domains/invoice/service"
	"pos/shared/constant"
	"pos/shared/validator"
	"pos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Invoice
	otel    otel.Otel
}

func New(service service.Invoice, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/invoices", func(routerGroup chi.Router) {
		routerGroup.Put("/", handler.SaveInvoice)
		routerGroup.Get("/order/{order_id}", handler.GetInvoiceByOrder)
	})
}

// SaveInvoice stores the client details printed on an order's invoice, replacing earlier ones.
// @Summary Save invoice client details
// @Tags Invoice
// @Accept json
// @Produce json
// @Param request body dto.SaveInvoiceRequest true "Invoice"
// @Success 200 {object} response.Envelope{data=dto.InvoiceResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/invoices [put]
// @Security BearerAuth
func (handler *Handler) SaveInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SaveInvoice")
	defer scope.End()

	var req dto.SaveInvoiceRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	invoice, err := handler.service.Save(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to save invoice")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, invoice)
}

// @Summary Get invoice by order
// @Tags Invoice
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} response.Envelope{data=dto.InvoiceResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/invoices/order/{order_id} [get]
// @Security BearerAuth
func (handler *Handler) GetInvoiceByOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvoiceByOrder")
	defer scope.End()

	invoice, err := handler.service.GetByOrder(ctx, chi.URLParam(r, model.FieldOrderID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get invoice")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, invoice)
}
