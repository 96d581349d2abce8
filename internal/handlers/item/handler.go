package item

import (
	"net/http"

	"pos/infras/otel"
	"pos/internal/domains/item/model"
	"pos/internal/domains/item/model/dto"
	"pos/internal/domains/item/service"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/validator"
	"pos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const formFieldImage = "image"

type Handler struct {
	service service.Item
	otel    otel.Otel
}

func New(service service.Item, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/items", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateItem)
		routerGroup.Get("/", handler.GetItems)
		routerGroup.Get("/{id}", handler.GetItemByID)
		routerGroup.Patch("/{id}", handler.UpdateItem)
		routerGroup.Delete("/{id}", handler.DeleteItem)
	})
}

// CreateItem adds a menu item, optionally with an image.
// @Summary Create a menu item
// @Tags Item
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Item name"
// @Param price formData number true "Price"
// @Param category formData string false "Category"
// @Param discount formData number false "Discount percentage"
// @Param status formData string false "available or unavailable"
// @Param in_stock formData boolean false "In stock"
// @Param description formData string false "Description"
// @Param time_to_prepare formData integer false "Minutes to prepare"
// @Param image formData file false "Item image"
// @Success 201 {object} response.Envelope{data=dto.ItemResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/items [post]
// @Security BearerAuth
func (handler *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateItem")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.CreateItemRequest{
		Name:        r.FormValue(model.FieldName),
		Category:    r.FormValue(model.FieldCategory),
		Status:      r.FormValue(model.FieldStatus),
		Description: r.FormValue(model.FieldDescription),
		InStock:     shared.ConvertStringToBool(r.FormValue(model.FieldInStock)),
	}

	if price := shared.ConvertStringToFloat(r.FormValue(model.FieldPrice)); price != nil {
		req.Price = *price
	}

	if discount := shared.ConvertStringToFloat(r.FormValue(model.FieldDiscount)); discount != nil {
		req.Discount = *discount
	}

	if minutes := shared.ConvertStringToInt(r.FormValue(model.FieldTimeToPrepare)); minutes != nil {
		req.TimeToPrepare = *minutes
	}

	file, fileHeader, err := r.FormFile(formFieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	item, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create item")

		response.WithError(w, err)

		return
	}

	response.WithCreated(w, item)
}

// GetItems lists the menu.
// @Summary Get all menu items
// @Tags Item
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Param in_stock query boolean false "Filter by stock"
// @Success 200 {object} response.Envelope{data=dto.GetItemsResponse}
// @Failure 500 {object} response.Envelope
// @Router /v1/items [get]
// @Security BearerAuth
func (handler *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetItems")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.AllowSort(constant.FieldCreatedAt, model.FieldName, model.FieldPrice, model.FieldCategory)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filterGroup.Add(model.FieldName, gDto.FilterOperatorLike, model.TableName, query.Get(model.FieldName))
	filterGroup.Add(model.FieldCategory, gDto.FilterOperatorEq, model.TableName, query.Get(model.FieldCategory))
	filterGroup.Add(model.FieldStatus, gDto.FilterOperatorEq, model.TableName, query.Get(constant.RequestParamStatus))

	if inStock := shared.ConvertStringToBool(query.Get(model.FieldInStock)); inStock != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldInStock,
			Value:    *inStock,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	items, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, items)
}

// GetItemByID retrieves a menu item.
// @Summary Get a menu item by ID
// @Tags Item
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope{data=dto.ItemResponse}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/items/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetItemByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetItemByID")
	defer scope.End()

	item, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get item")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, item)
}

// UpdateItem edits a menu item; a new image replaces the stored one.
// @Summary Update a menu item
// @Tags Item
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Item ID"
// @Param name formData string false "Item name"
// @Param price formData number false "Price"
// @Param category formData string false "Category"
// @Param discount formData number false "Discount percentage"
// @Param status formData string false "available or unavailable"
// @Param in_stock formData boolean false "In stock"
// @Param description formData string false "Description"
// @Param time_to_prepare formData integer false "Minutes to prepare"
// @Param image formData file false "Item image"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/items/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateItem")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateItemRequest{
		Name:          r.FormValue(model.FieldName),
		Category:      r.FormValue(model.FieldCategory),
		Status:        r.FormValue(model.FieldStatus),
		Description:   r.FormValue(model.FieldDescription),
		Price:         shared.ConvertStringToFloat(r.FormValue(model.FieldPrice)),
		Discount:      shared.ConvertStringToFloat(r.FormValue(model.FieldDiscount)),
		InStock:       shared.ConvertStringToBool(r.FormValue(model.FieldInStock)),
		TimeToPrepare: shared.ConvertStringToInt(r.FormValue(model.FieldTimeToPrepare)),
	}

	file, fileHeader, err := r.FormFile(formFieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update item")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Item updated by user " + user)

	response.WithMessage(w, http.StatusOK, "Item updated successfully")
}

// DeleteItem removes a menu item and its image.
// @Summary Delete a menu item
// @Tags Item
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /v1/items/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteItem")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete item")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Item deleted successfully")
}
