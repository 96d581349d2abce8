package service

import (
	"context"
	"fmt"
	"pos/config"
	"pos/infras/otel"
	"pos/internal/domains/occupancy"
	"pos/internal/domains/table/model"
	"pos/internal/domains/table/model/dto"
	"pos/internal/domains/table/repository"
	"pos/shared"
	"pos/shared/cache"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/event"
	"pos/shared/failure"
	"pos/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllTable = "table:get_all"
	cacheCountTable  = "table:count"
)

var capacityMessage = fmt.Sprintf("table capacity must be between %d and %d people", model.MinCapacity, model.MaxCapacity)

type Table interface {
	Create(ctx context.Context, req dto.CreateTableRequest) (dto.TableResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTablesResponse, error)
	Get(ctx context.Context, id string) (dto.TableResponse, error)
	Update(ctx context.Context, req dto.UpdateTableRequest, id string) (dto.TableResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateTableStatusRequest, id string) (dto.TableResponse, error)
	UpdateStatusByNumber(ctx context.Context, req dto.UpdateTableStatusByNumberRequest) (dto.TableResponse, error)
	Delete(ctx context.Context, id string) error
}

type DeletedPayload struct {
	TableID string `json:"table_id"`
}

type serviceImpl struct {
	repo       repository.Table
	propagator occupancy.Propagator
	emitter    event.Emitter
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Table,
	propagator occupancy.Propagator,
	emitter event.Emitter,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Table {
	return &serviceImpl{
		repo:       repo,
		propagator: propagator,
		emitter:    emitter,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func validCapacity(capacity int) bool {
	return capacity >= model.MinCapacity && capacity <= model.MaxCapacity
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTableRequest) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".table.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !validCapacity(req.Capacity) {
		return res, failure.BadRequestFromString(capacityMessage)
	}

	if err = s.ensureUnique(ctx, req.TableNumber); err != nil {
		return res, err
	}

	table := req.ToModel(shared.Actor(ctx))

	if err = s.repo.Insert(ctx, table); err != nil {
		log.Error().Err(err).Msg("failed to create table")

		return res, fmt.Errorf("failed to create table: %w", err)
	}

	res.FromModel(table)

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeTableCreated, res))
	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) ensureUnique(ctx context.Context, tableNumber string) error {
	exist, err := s.repo.Exist(ctx, shared.FilterBy(model.FieldTableNumber, tableNumber, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check table number")

		return fmt.Errorf("failed to check table number: %w", err)
	}

	if exist {
		return failure.Conflict("table " + tableNumber + " already exists")
	}

	return nil
}

// GetAll lists active tables only, in table number order unless the caller sorts.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTablesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".table.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.SortBy == constant.Empty {
		req.SortBy, req.SortDir = model.FieldTableNumber, gDto.SortDirAsc
	}

	filter = activeOnly(filter)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTable, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tables")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tables")

		return res, err
	}

	tables, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tables")

		return res, fmt.Errorf("failed to get tables: %w", err)
	}

	res.FromModels(tables, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tables to cache")
		}
	}()

	return res, nil
}

func activeOnly(filter gDto.FilterGroup) gDto.FilterGroup {
	active := gDto.Filter{
		Field:    model.FieldIsActive,
		Value:    true,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	}

	if len(filter.Filters) == 0 {
		return gDto.FilterGroup{Filters: []any{active}}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{filter, active},
	}
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTable, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		return total, fmt.Errorf("failed to count tables: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save table count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".table.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	table, err := s.find(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, err
	}

	res.FromModel(table)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTableRequest, id string) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".table.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Capacity != nil && !validCapacity(*req.Capacity) {
		return res, failure.BadRequestFromString(capacityMessage)
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	table, err := s.find(ctx, filter)
	if err != nil {
		return res, err
	}

	if req.TableNumber != constant.Empty && req.TableNumber != table.TableNumber {
		if err = s.ensureUnique(ctx, req.TableNumber); err != nil {
			return res, err
		}
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, shared.Actor(ctx)), filter); err != nil {
		log.Error().Err(err).Msg("failed to update table")

		return res, fmt.Errorf("failed to update table: %w", err)
	}

	if req.TableNumber != constant.Empty {
		table.TableNumber = req.TableNumber
	}

	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}

	if req.Location != constant.Empty {
		table.Location = req.Location
	}

	res.FromModel(table)

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeTableUpdated, res))
	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateTableStatusRequest, id string) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".table.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.propagator.SetStatusByID(ctx, id, req.Status); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update table status")

		return res, err //nolint:wrapcheck
	}

	table, err := s.find(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, err
	}

	res.FromModel(table)

	return res, nil
}

func (s *serviceImpl) UpdateStatusByNumber(ctx context.Context, req dto.UpdateTableStatusByNumberRequest) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".table.UpdateStatusByNumber")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.propagator.SetStatus(ctx, req.TableNumber, req.Status); err != nil {
		log.Error().Err(err).Str("table", req.TableNumber).Msg("failed to update table status")

		return res, err //nolint:wrapcheck
	}

	table, err := s.find(ctx, shared.FilterBy(model.FieldTableNumber, req.TableNumber, model.TableName))
	if err != nil {
		return res, err
	}

	res.FromModel(table)

	return res, nil
}

// Delete disables the table; rows stay for order history.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".table.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if _, err = s.find(ctx, filter); err != nil {
		return err
	}

	fields := map[string]any{
		model.FieldIsActive:      false,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.Actor(ctx),
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to disable table")

		return fmt.Errorf("failed to disable table: %w", err)
	}

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeTableDeleted, DeletedPayload{TableID: id}))
	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, filter gDto.FilterGroup) (model.Table, error) {
	table, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get table")

		return table, fmt.Errorf("failed to get table: %w", err)
	}

	if table.ID == constant.Empty {
		return table, failure.NotFound("table not found")
	}

	return table, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, model.CachePrefix)
	}()
}
