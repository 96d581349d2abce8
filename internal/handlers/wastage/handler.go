package wastage

import (
	"net/http"

	"pos/infras/otel"
	"pos/internal/domains/wastage/model"
	"pos/internal/domains/wastage/model/dto"
	"pos/internal/domains/wastage/service"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/validator"
	"pos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Wastage
	otel    otel.Otel
}

func New(service service.Wastage, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/wastages", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateWastage)
		routerGroup.Get("/", handler.GetWastages)
		routerGroup.Get("/stats", handler.GetStats)
		routerGroup.Get("/{id}", handler.GetWastageByID)
		routerGroup.Patch("/{id}", handler.UpdateWastage)
		routerGroup.Delete("/{id}", handler.DeleteWastage)
	})
}

// CreateWastage records discarded stock.
// @Summary Record wastage
// @Tags Wastage
// @Accept json
// @Produce json
// @Param request body dto.CreateWastageRequest true "Wastage"
// @Success 201 {object} response.Envelope{data=dto.WastageResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/wastages [post]
// @Security BearerAuth
func (handler *Handler) CreateWastage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateWastage")
	defer scope.End()

	var req dto.CreateWastageRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	wastage, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create wastage")

		response.WithError(w, err)

		return
	}

	response.WithCreated(w, wastage)
}

// GetWastages lists wastage records, newest date first.
// @Summary Get all wastage records
// @Tags Wastage
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param item_name query string false "Filter by item name"
// @Param category query string false "Filter by category"
// @Param department query string false "Filter by department"
// @Param reason query string false "Filter by reason"
// @Param from_date query string false "On or after (YYYY-MM-DD)"
// @Param to_date query string false "On or before (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=dto.GetWastagesResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/wastages [get]
// @Security BearerAuth
func (handler *Handler) GetWastages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWastages")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.AllowSort(model.FieldDate, model.FieldEstimatedCost, model.FieldItemName, constant.FieldCreatedAt)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filterGroup.Add(model.FieldItemName, gDto.FilterOperatorLike, model.TableName, query.Get(model.FieldItemName))
	filterGroup.Add(model.FieldCategory, gDto.FilterOperatorEq, model.TableName, query.Get(model.FieldCategory))
	filterGroup.Add(model.FieldDepartment, gDto.FilterOperatorEq, model.TableName, query.Get(model.FieldDepartment))
	filterGroup.Add(model.FieldReason, gDto.FilterOperatorEq, model.TableName, query.Get(model.FieldReason))

	dayRange, err := shared.DayRange(model.FieldDate, model.TableName,
		query.Get(constant.RequestParamFromDate), query.Get(constant.RequestParamToDate))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	filterGroup.Filters = append(filterGroup.Filters, dayRange...)

	wastages, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get wastages")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, wastages)
}

// GetStats totals wastage overall and per department and category.
// Both dates are needed to narrow the window; otherwise every record counts.
// @Summary Wastage statistics
// @Tags Wastage
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=model.Stats}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/wastages/stats [get]
// @Security BearerAuth
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWastageStats")
	defer scope.End()

	query := r.URL.Query()

	stats, err := handler.service.Stats(ctx, query.Get(constant.RequestParamStartDate), query.Get(constant.RequestParamEndDate))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get wastage stats")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}

// @Summary Get a wastage record by ID
// @Tags Wastage
// @Produce json
// @Param id path string true "Wastage ID"
// @Success 200 {object} response.Envelope{data=dto.WastageResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/wastages/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetWastageByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWastageByID")
	defer scope.End()

	wastage, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get wastage")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, wastage)
}

// @Summary Update a wastage record
// @Tags Wastage
// @Accept json
// @Produce json
// @Param id path string true "Wastage ID"
// @Param request body dto.UpdateWastageRequest true "Wastage"
// @Success 200 {object} response.Envelope{data=dto.WastageResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/wastages/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateWastage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateWastage")
	defer scope.End()

	var req dto.UpdateWastageRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	wastage, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update wastage")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, wastage)
}

// @Summary Delete a wastage record
// @Tags Wastage
// @Produce json
// @Param id path string true "Wastage ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/wastages/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteWastage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteWastage")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete wastage")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Wastage deleted successfully")
}
