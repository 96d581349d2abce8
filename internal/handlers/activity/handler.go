package activity

import (
	"net/http"

	"pos/config"
	"pos/infras/otel"
	"pos/internal/domains/activity/model"
	"pos/internal/domains/activity/model/dto"
	"pos/internal/domains/activity/service"
	"pos/internal/domains/activity/tracker"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/failure"
	"pos/shared/validator"
	"pos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Activity
	tracker *tracker.Tracker
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Activity, tracker *tracker.Tracker, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		tracker: tracker,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/activity", func(routerGroup chi.Router) {
		routerGroup.Post("/log-location", handler.LogLocation)
		routerGroup.Get("/mine", handler.GetMyActivity)
		routerGroup.Get("/", handler.GetActivity)
		routerGroup.Get("/latest", handler.GetLatest)
		routerGroup.Get("/sales-person/{id}", handler.GetBySalesPerson)
		routerGroup.Delete("/cleanup", handler.Cleanup)

		routerGroup.Route("/tracking", func(tracking chi.Router) {
			tracking.Post("/start", handler.StartTracking)
			tracking.Post("/stop", handler.StopTracking)
			tracking.Post("/update", handler.UpdateTracking)
			tracking.Get("/status", handler.TrackingStatus)
		})
	})
}

// LogLocation stores one position for the caller.
// @Summary Log current location
// @Tags Activity
// @Accept json
// @Produce json
// @Param request body model.Location true "Location"
// @Success 201 {object} response.Envelope{data=dto.ActivityLogResponse}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/activity/log-location [post]
// @Security BearerAuth
func (handler *Handler) LogLocation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".LogLocation")
	defer scope.End()

	var req model.Location
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	activity, err := handler.service.LogLocation(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to log location")

		response.WithError(w, err)

		return
	}

	response.WithCreated(w, activity)
}

// @Summary Get my activity
// @Tags Activity
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Envelope{data=dto.GetActivityLogsResponse}
// @Failure 401 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/activity/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyActivity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyActivity")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.AllowSort(model.FieldLoggedAt)

	activity, err := handler.service.Mine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get activity")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, activity)
}

// GetActivity lists every sales person's logs.
// @Summary Get all activity
// @Tags Activity
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param sales_person_id query string false "Filter by sales person"
// @Param from_date query string false "On or after (YYYY-MM-DD)"
// @Param to_date query string false "On or before (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=dto.GetActivityLogsResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/activity [get]
// @Security BearerAuth
func (handler *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActivity")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.AllowSort(model.FieldLoggedAt, model.FieldSalesPersonID)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filterGroup.Add(model.FieldSalesPersonID, gDto.FilterOperatorEq, model.TableName, query.Get(model.FieldSalesPersonID))

	dayRange, err := shared.DayRange(model.FieldLoggedAt, model.TableName,
		query.Get(constant.RequestParamFromDate), query.Get(constant.RequestParamToDate))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	filterGroup.Filters = append(filterGroup.Filters, dayRange...)

	activity, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get activity")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, activity)
}

// GetLatest returns the most recent position of each sales person.
// @Summary Latest location per sales person
// @Tags Activity
// @Produce json
// @Success 200 {object} response.Envelope{data=[]dto.ActivityLogResponse}
// @Failure 500 {object} response.Envelope
// @Router /v1/activity/latest [get]
// @Security BearerAuth
func (handler *Handler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLatestActivity")
	defer scope.End()

	activity, err := handler.service.Latest(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get latest activity")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, activity)
}

// @Summary Activity of one sales person
// @Tags Activity
// @Produce json
// @Param id path string true "Sales person ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Envelope{data=dto.GetActivityLogsResponse}
// @Failure 500 {object} response.Envelope
// @Router /v1/activity/sales-person/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBySalesPerson(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBySalesPerson")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.AllowSort(model.FieldLoggedAt)

	activity, err := handler.service.BySalesPerson(ctx, chi.URLParam(r, constant.RequestParamID), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get activity")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, activity)
}

// Cleanup drops logs older than the retention window and any without coordinates.
// @Summary Clean up activity logs
// @Tags Activity
// @Produce json
// @Param days query integer false "Retention in days"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/activity/cleanup [delete]
// @Security BearerAuth
func (handler *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CleanupActivity")
	defer scope.End()

	days := handler.cfg.Tracker.RetentionDays

	if raw := r.URL.Query().Get(constant.RequestParamDays); raw != constant.Empty {
		parsed := shared.ConvertStringToInt(raw)
		if parsed == nil {
			response.WithError(w, failure.BadRequestFromString("days must be a number"))

			return
		}

		days = *parsed
	}

	if err := handler.service.Cleanup(ctx, days); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to clean up activity")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Activity logs cleaned up successfully")
}

// StartTracking begins periodic logging for the caller.
// @Summary Start location tracking
// @Tags Activity
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.TrackingResponse}
// @Failure 401 {object} response.Envelope
// @Router /v1/activity/tracking/start [post]
// @Security BearerAuth
func (handler *Handler) StartTracking(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartTracking")
	defer scope.End()

	salesPersonID, ok := salesPerson(w, r)
	if !ok {
		return
	}

	handler.tracker.Start(salesPersonID)
	log.Info().Str("sales_person_id", salesPersonID).Msg("location tracking started")

	response.WithJSON(w, http.StatusOK, dto.TrackingResponse{
		Message:       "Location tracking started",
		SalesPersonID: salesPersonID,
		Active:        true,
	})
}

// @Summary Stop location tracking
// @Tags Activity
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.TrackingResponse}
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /v1/activity/tracking/stop [post]
// @Security BearerAuth
func (handler *Handler) StopTracking(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StopTracking")
	defer scope.End()

	salesPersonID, ok := salesPerson(w, r)
	if !ok {
		return
	}

	if !handler.tracker.Stop(salesPersonID) {
		response.WithError(w, failure.NotFound("no active tracking session"))

		return
	}

	log.Info().Str("sales_person_id", salesPersonID).Msg("location tracking stopped")

	response.WithJSON(w, http.StatusOK, dto.TrackingResponse{
		Message:       "Location tracking stopped",
		SalesPersonID: salesPersonID,
	})
}

// UpdateTracking sets the position the next tick will record.
// @Summary Update tracked location
// @Tags Activity
// @Accept json
// @Produce json
// @Param request body model.Location true "Location"
// @Success 200 {object} response.Envelope{data=dto.TrackingResponse}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /v1/activity/tracking/update [post]
// @Security BearerAuth
func (handler *Handler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTracking")
	defer scope.End()

	salesPersonID, ok := salesPerson(w, r)
	if !ok {
		return
	}

	var req model.Location
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if !handler.tracker.Update(salesPersonID, req) {
		response.WithError(w, failure.NotFound("no active tracking session"))

		return
	}

	response.WithJSON(w, http.StatusOK, dto.TrackingResponse{
		Message:       "Location updated",
		SalesPersonID: salesPersonID,
		Active:        true,
	})
}

// @Summary Location tracking status
// @Tags Activity
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.TrackingResponse}
// @Failure 401 {object} response.Envelope
// @Router /v1/activity/tracking/status [get]
// @Security BearerAuth
func (handler *Handler) TrackingStatus(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".TrackingStatus")
	defer scope.End()

	salesPersonID, ok := salesPerson(w, r)
	if !ok {
		return
	}

	active := handler.tracker.Active(salesPersonID)

	message := "Location tracking inactive"
	if active {
		message = "Location tracking active"
	}

	response.WithJSON(w, http.StatusOK, dto.TrackingResponse{
		Message:       message,
		SalesPersonID: salesPersonID,
		Active:        active,
	})
}

func salesPerson(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, _ := r.Context().Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		response.WithError(w, failure.Unauthorized("user not authenticated"))

		return constant.Empty, false
	}

	return user, true
}
