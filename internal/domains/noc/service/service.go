package service

import (
	"context"
	"fmt"

	"pos/config"
	"pos/infras/otel"
	"pos/internal/domains/noc/model"
	"pos/internal/domains/noc/model/dto"
	"pos/internal/domains/noc/repository"
	"pos/shared"
	"pos/shared/cache"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/failure"

	"github.com/rs/zerolog/log"
)

const cacheGetAllNOC = "noc:get_all"

type NOC interface {
	Create(ctx context.Context, req dto.CreateNOCRequest) (dto.NOCResponse, error)
	GetAll(ctx context.Context) ([]dto.NOCResponse, error)
	Get(ctx context.Context, id string) (dto.NOCResponse, error)
	Update(ctx context.Context, req dto.UpdateNOCRequest, id string) (dto.NOCResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.NOC
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.NOC, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) NOC {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateNOCRequest) (res dto.NOCResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".noc.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	noc := req.ToModel(shared.Actor(ctx))

	if err = s.repo.Insert(ctx, noc); err != nil {
		log.Error().Err(err).Msg("failed to create noc")

		return res, fmt.Errorf("failed to create noc: %w", err)
	}

	res.FromModel(noc)
	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context) (res []dto.NOCResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".noc.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.cache.Get(ctx, cacheGetAllNOC, &res); err == nil {
		return res, nil
	}

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}

	nocs, err := s.repo.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get nocs")

		return nil, fmt.Errorf("failed to get nocs: %w", err)
	}

	res = dto.FromModels(nocs)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheGetAllNOC, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save nocs to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.NOCResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".noc.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	noc, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(noc)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateNOCRequest, id string) (res dto.NOCResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".noc.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	noc, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, shared.Actor(ctx)), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update noc")

		return res, fmt.Errorf("failed to update noc: %w", err)
	}

	if req.Name != constant.Empty {
		noc.Name = req.Name
	}

	if req.AuthorityType != constant.Empty {
		noc.AuthorityType = req.AuthorityType
	}

	if req.IsCompletelyFree != nil {
		noc.IsCompletelyFree = *req.IsCompletelyFree
	}

	res.FromModel(noc)
	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".noc.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete noc")

		return fmt.Errorf("failed to delete noc: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.NOC, error) {
	noc, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get noc")

		return noc, fmt.Errorf("failed to get noc: %w", err)
	}

	if noc.ID == constant.Empty {
		return noc, failure.NotFound("NOC not found")
	}

	return noc, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, model.CachePrefix)
	}()
}
