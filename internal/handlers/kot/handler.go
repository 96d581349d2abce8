package kot

import (
	"net/http"

	"pos/infras/otel"
	"pos/internal/domains/kot/model"
	"pos/internal/domains/kot/model/dto"
	"pos/internal/domains/kot/service"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/validator"
	"pos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.KOT
	otel    otel.Otel
}

func New(service service.KOT, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/kots", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateKOT)
		routerGroup.Get("/", handler.GetKOTs)
		routerGroup.Get("/{id}", handler.GetKOTByID)
		routerGroup.Patch("/{id}/status", handler.UpdateStatus)
		routerGroup.Patch("/{id}/items", handler.UpdateItemStatuses)
	})
}

// CreateKOT raises a standalone kitchen ticket for an existing order.
// @Summary Create a KOT
// @Tags KOT
// @Accept json
// @Produce json
// @Param request body dto.CreateKOTRequest true "Ticket"
// @Success 201 {object} response.Envelope{data=dto.KOTResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/kots [post]
// @Security BearerAuth
func (handler *Handler) CreateKOT(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateKOT")
	defer scope.End()

	var req dto.CreateKOTRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	kot, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create kot")

		response.WithError(w, err)

		return
	}

	response.WithCreated(w, kot)
}

// GetKOTs lists kitchen tickets.
// @Summary Get all KOTs
// @Tags KOT
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param table_no query string false "Filter by table"
// @Param order_id query string false "Filter by order"
// @Param from_date query string false "Created on or after (YYYY-MM-DD)"
// @Param to_date query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=dto.GetKOTsResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/kots [get]
// @Security BearerAuth
func (handler *Handler) GetKOTs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetKOTs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.AllowSort(constant.FieldCreatedAt, model.FieldStatus, model.FieldPriority, model.FieldKOTNumber)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filterGroup.Add(model.FieldStatus, gDto.FilterOperatorEq, model.TableName, query.Get(constant.RequestParamStatus))
	filterGroup.Add(model.FieldPriority, gDto.FilterOperatorEq, model.TableName, query.Get(model.FieldPriority))
	filterGroup.Add(model.FieldTableNo, gDto.FilterOperatorEq, model.TableName, query.Get(constant.RequestParamTableNo))
	filterGroup.Add(model.FieldOrderID, gDto.FilterOperatorEq, model.TableName, query.Get(model.FieldOrderID))

	dayRange, err := shared.DayRange(constant.FieldCreatedAt, model.TableName,
		query.Get(constant.RequestParamFromDate), query.Get(constant.RequestParamToDate))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	filterGroup.Filters = append(filterGroup.Filters, dayRange...)

	kots, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get kots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, kots)
}

// GetKOTByID retrieves a kitchen ticket.
// @Summary Get a KOT by ID
// @Tags KOT
// @Produce json
// @Param id path string true "KOT ID"
// @Success 200 {object} response.Envelope{data=dto.KOTResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/kots/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetKOTByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetKOTByID")
	defer scope.End()

	kot, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get kot")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, kot)
}

// UpdateStatus moves a ticket through the kitchen workflow.
// @Summary Update KOT status
// @Tags KOT
// @Accept json
// @Produce json
// @Param id path string true "KOT ID"
// @Param request body dto.UpdateKOTStatusRequest true "Status"
// @Success 200 {object} response.Envelope{data=dto.KOTResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/kots/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateKOTStatus")
	defer scope.End()

	var req dto.UpdateKOTStatusRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	kot, err := handler.service.UpdateStatus(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update kot status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, kot)
}

// UpdateItemStatuses marks individual lines served or delivered.
// @Summary Update KOT item statuses
// @Tags KOT
// @Accept json
// @Produce json
// @Param id path string true "KOT ID"
// @Param request body dto.UpdateItemStatusesRequest true "Item statuses"
// @Success 200 {object} response.Envelope{data=dto.ItemStatusesResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/kots/{id}/items [patch]
// @Security BearerAuth
func (handler *Handler) UpdateItemStatuses(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateItemStatuses")
	defer scope.End()

	var req dto.UpdateItemStatusesRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	statuses, err := handler.service.UpdateItemStatuses(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update kot item statuses")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, statuses)
}
