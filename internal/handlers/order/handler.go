package order

import (
	"net/http"

	"pos/infras/otel"
	"pos/internal/domains/order/model"
	"pos/internal/domains/order/model/dto"
	"pos/internal/domains/order/service"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/validator"
	"pos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Order
	otel    otel.Otel
}

func New(service service.Order, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/orders", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateOrder)
		routerGroup.Get("/", handler.GetOrders)
		routerGroup.Get("/table/{table_no}", handler.GetOrdersByTable)
		routerGroup.Get("/{id}", handler.GetOrderByID)
		routerGroup.Get("/{id}/details", handler.GetOrderDetails)
		routerGroup.Get("/{id}/invoice", handler.GenerateInvoice)
		routerGroup.Post("/{id}/items", handler.AddItems)
		routerGroup.Patch("/{id}/transfer", handler.TransferTable)
		routerGroup.Patch("/{id}/status", handler.UpdateStatus)
		routerGroup.Post("/{id}/transactions", handler.RecordTransaction)
	})
}

// CreateOrder creates an order and its first kitchen ticket.
// @Summary Create an order
// @Description Create an order for a table; the first KOT is raised with it.
// @Tags Order
// @Accept json
// @Produce json
// @Param request body dto.CreateOrderRequest true "Order"
// @Success 201 {object} response.Envelope{data=dto.OrderResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/orders [post]
// @Security BearerAuth
func (handler *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOrder")
	defer scope.End()

	var req dto.CreateOrderRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	order, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create order")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Order created for table " + order.TableNo)

	response.WithCreated(w, order)
}

// GetOrders lists orders.
// @Summary Get all orders
// @Tags Order
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param table_no query string false "Filter by table"
// @Param staff_name query string false "Filter by staff name"
// @Param from_date query string false "Created on or after (YYYY-MM-DD)"
// @Param to_date query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=dto.GetOrdersResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/orders [get]
// @Security BearerAuth
func (handler *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrders")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.AllowSort(constant.FieldCreatedAt, model.FieldStatus, model.FieldTableNo, model.FieldAmount, model.FieldStatusUpdatedAt)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filterGroup.Add(model.FieldStatus, gDto.FilterOperatorEq, model.TableName, query.Get(constant.RequestParamStatus))
	filterGroup.Add(model.FieldTableNo, gDto.FilterOperatorEq, model.TableName, query.Get(constant.RequestParamTableNo))
	filterGroup.Add(model.FieldStaffName, gDto.FilterOperatorLike, model.TableName, query.Get(model.FieldStaffName))

	dayRange, err := shared.DayRange(constant.FieldCreatedAt, model.TableName,
		query.Get(constant.RequestParamFromDate), query.Get(constant.RequestParamToDate))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	filterGroup.Filters = append(filterGroup.Filters, dayRange...)

	orders, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get orders")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, orders)
}

// GetOrdersByTable lists the orders of one table.
// @Summary Get orders by table
// @Tags Order
// @Produce json
// @Param table_no path string true "Table number"
// @Success 200 {object} response.Envelope{data=[]dto.OrderResponse}
// @Failure 500 {object} response.Envelope
// @Router /v1/orders/table/{table_no} [get]
// @Security BearerAuth
func (handler *Handler) GetOrdersByTable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrdersByTable")
	defer scope.End()

	orders, err := handler.service.GetByTable(ctx, chi.URLParam(r, constant.RequestParamTableNo))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get orders by table")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, orders)
}

// GetOrderByID retrieves an order.
// @Summary Get an order by ID
// @Tags Order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Envelope{data=dto.OrderResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/orders/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrderByID")
	defer scope.End()

	order, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get order")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, order)
}

// GetOrderDetails returns an order with its tickets and bill.
// @Summary Get order details
// @Tags Order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Envelope{data=dto.OrderDetailsResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/orders/{id}/details [get]
// @Security BearerAuth
func (handler *Handler) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrderDetails")
	defer scope.End()

	details, err := handler.service.GetDetails(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get order details")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, details)
}

// GenerateInvoice builds the printable invoice of an order.
// @Summary Generate an invoice
// @Tags Order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Envelope{data=dto.InvoiceResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/orders/{id}/invoice [get]
// @Security BearerAuth
func (handler *Handler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GenerateInvoice")
	defer scope.End()

	invoice, err := handler.service.GenerateInvoice(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to generate invoice")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, invoice)
}

// AddItems appends lines to an order and raises a new KOT for them.
// @Summary Add items to an order
// @Tags Order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body dto.AddItemsRequest true "Lines"
// @Success 200 {object} response.Envelope{data=dto.OrderResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/orders/{id}/items [post]
// @Security BearerAuth
func (handler *Handler) AddItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddItems")
	defer scope.End()

	var req dto.AddItemsRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	order, err := handler.service.AddItems(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, order)
}

// TransferTable moves an order to another table.
// @Summary Transfer an order
// @Tags Order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body dto.TransferTableRequest true "Transfer"
// @Success 200 {object} response.Envelope{data=dto.OrderResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/orders/{id}/transfer [patch]
// @Security BearerAuth
func (handler *Handler) TransferTable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".TransferTable")
	defer scope.End()

	var req dto.TransferTableRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	order, err := handler.service.TransferTable(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to transfer order")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, order)
}

// UpdateStatus changes an order's status.
// @Summary Update order status
// @Tags Order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body dto.UpdateOrderStatusRequest true "Status"
// @Success 200 {object} response.Envelope{data=dto.OrderResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/orders/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateOrderStatus")
	defer scope.End()

	var req dto.UpdateOrderStatusRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	order, err := handler.service.UpdateStatus(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update order status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, order)
}

// RecordTransaction appends a payment to the order's history.
// @Summary Record a transaction
// @Tags Order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body dto.AddTransactionRequest true "Transaction"
// @Success 200 {object} response.Envelope{data=dto.OrderResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/orders/{id}/transactions [post]
// @Security BearerAuth
func (handler *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecordTransaction")
	defer scope.End()

	var req dto.AddTransactionRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	order, err := handler.service.RecordTransaction(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to record transaction")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, order)
}
