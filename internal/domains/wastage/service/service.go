package service

import (
	"context"
	"fmt"
	"time"

	"pos/config"
	"pos/infras/otel"
	"pos/internal/domains/wastage/model"
	"pos/internal/domains/wastage/model/dto"
	"pos/internal/domains/wastage/repository"
	"pos/shared"
	"pos/shared/cache"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/failure"
	"pos/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheGetAllWastage = "wastage:get_all"

type Wastage interface {
	Create(ctx context.Context, req dto.CreateWastageRequest) (dto.WastageResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetWastagesResponse, error)
	Get(ctx context.Context, id string) (dto.WastageResponse, error)
	Update(ctx context.Context, req dto.UpdateWastageRequest, id string) (dto.WastageResponse, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, startDate, endDate string) (model.Stats, error)
}

type serviceImpl struct {
	repo  repository.Wastage
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Wastage, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Wastage {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateWastageRequest) (res dto.WastageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wastage.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var date time.Time
	if req.Date != constant.Empty {
		if date, err = timezone.ParseDay(req.Date); err != nil {
			return res, failure.InvalidFormat("date", constant.DayFormat)
		}
	}

	wastage := req.ToModel(date, shared.Actor(ctx))

	if err = s.repo.Insert(ctx, wastage); err != nil {
		log.Error().Err(err).Msg("failed to create wastage")

		return res, fmt.Errorf("failed to create wastage: %w", err)
	}

	res.FromModel(wastage)
	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetWastagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wastage.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.SortBy == constant.Empty {
		req.SortBy, req.SortDir = constant.FieldCreatedAt, gDto.SortDirDesc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllWastage, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count wastages")

		return res, fmt.Errorf("failed to count wastages: %w", err)
	}

	wastages, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get wastages")

		return res, fmt.Errorf("failed to get wastages: %w", err)
	}

	res.FromModels(wastages, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save wastages to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.WastageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wastage.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	wastage, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(wastage)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateWastageRequest, id string) (res dto.WastageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wastage.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if _, err = s.find(ctx, id); err != nil {
		return res, err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, shared.Actor(ctx)), filter); err != nil {
		log.Error().Err(err).Msg("failed to update wastage")

		return res, fmt.Errorf("failed to update wastage: %w", err)
	}

	s.invalidate(ctx)

	return s.Get(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wastage.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete wastage")

		return fmt.Errorf("failed to delete wastage: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// Stats aggregates the whole table unless both bounds are given; the end day is inclusive.
func (s *serviceImpl) Stats(ctx context.Context, startDate, endDate string) (res model.Stats, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".wastage.Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{}

	if startDate != constant.Empty && endDate != constant.Empty {
		start, errStart := timezone.ParseDay(startDate)
		end, errEnd := timezone.ParseDay(endDate)

		if errStart != nil || errEnd != nil {
			return res, failure.InvalidFormat("start_date and end_date", constant.DayFormat)
		}

		filter = gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{ArgName: "start_date", Field: model.FieldDate, Value: start, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
				gDto.Filter{ArgName: "end_date", Field: model.FieldDate, Value: end.AddDate(0, 0, 1), Operator: gDto.FilterOperatorLess, Table: model.TableName},
			},
		}
	}

	buckets, err := s.repo.Stats(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate wastage")

		return res, fmt.Errorf("failed to aggregate wastage: %w", err)
	}

	return model.Summarize(buckets), nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Wastage, error) {
	wastage, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get wastage")

		return wastage, fmt.Errorf("failed to get wastage: %w", err)
	}

	if wastage.ID == constant.Empty {
		return wastage, failure.NotFound("Wastage record not found")
	}

	return wastage, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, model.CachePrefix)
	}()
}
