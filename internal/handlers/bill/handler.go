package bill

import (
	"net/http"

	"pos/infras/otel"
	"pos/internal/domains/bill/model"
	"pos/internal/domains/bill/model/dto"
	"pos/internal/domains/bill/service"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/validator"
	"pos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Bill
	otel    otel.Otel
}

func New(service service.Bill, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bills", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBill)
		routerGroup.Get("/", handler.GetBills)
		routerGroup.Get("/order/{order_id}", handler.GetBillByOrder)
		routerGroup.Get("/{id}", handler.GetBillByID)
		routerGroup.Get("/{id}/advance", handler.GetAdvanceDetails)
		routerGroup.Post("/{id}/payment", handler.ProcessPayment)
		routerGroup.Post("/{id}/split-payment", handler.ProcessSplitPayment)
		routerGroup.Patch("/{id}/status", handler.UpdateStatus)
	})
}

// CreateBill bills an order, consuming a reservation advance when one applies.
// @Summary Create a bill
// @Tags Bill
// @Accept json
// @Produce json
// @Param request body dto.CreateBillRequest true "Bill"
// @Success 201 {object} response.Envelope{data=dto.BillResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/bills [post]
// @Security BearerAuth
func (handler *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBill")
	defer scope.End()

	var req dto.CreateBillRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bill, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create bill")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bill " + bill.BillNumber + " created")

	response.WithCreated(w, bill)
}

// GetBills lists bills.
// @Summary Get all bills
// @Tags Bill
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param payment_status query string false "Filter by payment status"
// @Param payment_method query string false "Filter by payment method"
// @Param table_no query string false "Filter by table"
// @Param from_date query string false "Created on or after (YYYY-MM-DD)"
// @Param to_date query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=dto.GetBillsResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/bills [get]
// @Security BearerAuth
func (handler *Handler) GetBills(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBills")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.AllowSort(constant.FieldCreatedAt, model.FieldBillNumber, model.FieldTotalAmount, model.FieldPaymentStatus)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filterGroup.Add(model.FieldPaymentStatus, gDto.FilterOperatorEq, model.TableName, query.Get(model.FieldPaymentStatus))
	filterGroup.Add(model.FieldPaymentMethod, gDto.FilterOperatorEq, model.TableName, query.Get(model.FieldPaymentMethod))
	filterGroup.Add(model.FieldTableNo, gDto.FilterOperatorEq, model.TableName, query.Get(constant.RequestParamTableNo))

	dayRange, err := shared.DayRange(constant.FieldCreatedAt, model.TableName,
		query.Get(constant.RequestParamFromDate), query.Get(constant.RequestParamToDate))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	filterGroup.Filters = append(filterGroup.Filters, dayRange...)

	bills, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bills")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bills)
}

// GetBillByOrder retrieves the bill of an order.
// @Summary Get a bill by order
// @Tags Bill
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} response.Envelope{data=dto.BillResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/bills/order/{order_id} [get]
// @Security BearerAuth
func (handler *Handler) GetBillByOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBillByOrder")
	defer scope.End()

	bill, err := handler.service.GetByOrder(ctx, chi.URLParam(r, model.FieldOrderID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bill by order")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bill)
}

// GetBillByID retrieves a bill.
// @Summary Get a bill by ID
// @Tags Bill
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.Envelope{data=dto.BillResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/bills/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBillByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBillByID")
	defer scope.End()

	bill, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bill")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bill)
}

// GetAdvanceDetails shows how a reservation advance was applied to a bill.
// @Summary Get bill advance details
// @Tags Bill
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.Envelope{data=dto.AdvanceDetailsResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/bills/{id}/advance [get]
// @Security BearerAuth
func (handler *Handler) GetAdvanceDetails(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAdvanceDetails")
	defer scope.End()

	details, err := handler.service.GetAdvanceDetails(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get advance details")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, details)
}

// ProcessPayment settles a bill with a single method.
// @Summary Process a payment
// @Tags Bill
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param request body dto.ProcessPaymentRequest true "Payment"
// @Success 200 {object} response.Envelope{data=dto.BillResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/bills/{id}/payment [post]
// @Security BearerAuth
func (handler *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ProcessPayment")
	defer scope.End()

	var req dto.ProcessPaymentRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bill, err := handler.service.ProcessPayment(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to process payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bill)
}

// ProcessSplitPayment settles a bill across several methods.
// @Summary Process a split payment
// @Tags Bill
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param request body dto.ProcessSplitPaymentRequest true "Split payment"
// @Success 200 {object} response.Envelope{data=dto.BillResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/bills/{id}/split-payment [post]
// @Security BearerAuth
func (handler *Handler) ProcessSplitPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ProcessSplitPayment")
	defer scope.End()

	var req dto.ProcessSplitPaymentRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bill, err := handler.service.ProcessSplitPayment(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to process split payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bill)
}

// UpdateStatus sets a bill's payment status directly.
// @Summary Update bill status
// @Tags Bill
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param request body dto.UpdateBillStatusRequest true "Status"
// @Success 200 {object} response.Envelope{data=dto.BillResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/bills/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBillStatus")
	defer scope.End()

	var req dto.UpdateBillStatusRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bill, err := handler.service.UpdateStatus(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update bill status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bill)
}
