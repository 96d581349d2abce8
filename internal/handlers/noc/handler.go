package noc

import (
	"net/http"

	"pos/infras/otel"
	"pos/internal/domains/noc/model/dto"
	"pos/internal/domains/noc/service"
	"pos/shared/constant"
	"pos/shared/validator"
	"pos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.NOC
	otel    otel.Otel
}

func New(service service.NOC, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/nocs", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateNOC)
		routerGroup.Get("/", handler.GetNOCs)
		routerGroup.Get("/{id}", handler.GetNOCByID)
		routerGroup.Patch("/{id}", handler.UpdateNOC)
		routerGroup.Delete("/{id}", handler.DeleteNOC)
	})
}

// CreateNOC registers a no-charge authorisation.
// @Summary Create a NOC
// @Tags NOC
// @Accept json
// @Produce json
// @Param request body dto.CreateNOCRequest true "NOC"
// @Success 201 {object} response.Envelope{data=dto.NOCResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/nocs [post]
// @Security BearerAuth
func (handler *Handler) CreateNOC(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateNOC")
	defer scope.End()

	var req dto.CreateNOCRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	noc, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create noc")

		response.WithError(w, err)

		return
	}

	response.WithCreated(w, noc)
}

// GetNOCs lists every NOC, newest first.
// @Summary Get all NOCs
// @Tags NOC
// @Produce json
// @Success 200 {object} response.Envelope{data=[]dto.NOCResponse}
// @Failure 500 {object} response.Envelope
// @Router /v1/nocs [get]
// @Security BearerAuth
func (handler *Handler) GetNOCs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNOCs")
	defer scope.End()

	nocs, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get nocs")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, nocs)
}

// @Summary Get a NOC by ID
// @Tags NOC
// @Produce json
// @Param id path string true "NOC ID"
// @Success 200 {object} response.Envelope{data=dto.NOCResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/nocs/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetNOCByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNOCByID")
	defer scope.End()

	noc, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get noc")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, noc)
}

// @Summary Update a NOC
// @Tags NOC
// @Accept json
// @Produce json
// @Param id path string true "NOC ID"
// @Param request body dto.UpdateNOCRequest true "NOC"
// @Success 200 {object} response.Envelope{data=dto.NOCResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/nocs/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateNOC(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateNOC")
	defer scope.End()

	var req dto.UpdateNOCRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	noc, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update noc")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, noc)
}

// @Summary Delete a NOC
// @Tags NOC
// @Produce json
// @Param id path string true "NOC ID"
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/nocs/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteNOC(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteNOC")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete noc")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "NOC deleted successfully")
}
