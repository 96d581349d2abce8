package service

import (
	"context"
	"fmt"
	"path"

	"pos/config"
	"pos/infras/otel"
	"pos/infras/s3"
	"pos/internal/domains/item/model"
	"pos/internal/domains/item/model/dto"
	"pos/internal/domains/item/repository"
	"pos/shared"
	"pos/shared/cache"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/failure"
	"pos/shared/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetItem    = "item:get"
	cacheGetAllItem = "item:get_all"
	cacheCountItem  = "item:count"
)

type Item interface {
	Create(ctx context.Context, req dto.CreateItemRequest) (dto.ItemResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetItemsResponse, error)
	Get(ctx context.Context, id string) (dto.ItemResponse, error)
	Update(ctx context.Context, req dto.UpdateItemRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Item
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Item, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Item {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

// objectName keeps the upload's extension on a random name.
func objectName(filename string) string {
	return uuid.NewString() + path.Ext(filename)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateItemRequest) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "create", err) }()

	bucket := s.cfg.External.S3.BucketName
	imageURL, uploaded := constant.Empty, constant.Empty

	if req.Image != nil {
		uploaded = objectName(req.Image.Filename)

		imageURL, err = s.s3.UploadFile(ctx, bucket, model.EntityName, req.ImageFile, req.Image, uploaded)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload item image")

			return res, fmt.Errorf("failed to upload image: %w", err)
		}
	}

	item := req.ToModel(shared.Actor(ctx), imageURL)

	if err = s.repo.Insert(ctx, item); err != nil {
		log.Error().Err(err).Msg("failed to create item")

		if uploaded != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucket, model.EntityName, uploaded)
		}

		return res, fmt.Errorf("failed to create item: %w", err)
	}

	res.FromModel(item)
	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetItemsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllItem, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for items")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count items")

		return res, err
	}

	items, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get items")

		return res, fmt.Errorf("failed to get items: %w", err)
	}

	res.FromModels(items, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save items to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountItem, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		return total, fmt.Errorf("failed to count items: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save item count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetItem, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	item, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(item)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save item to cache")
		}
	}()

	return res, nil
}

// Update swaps the stored image only after the row is written; a failed write removes the new upload.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateItemRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "update", err) }()

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	bucket := s.cfg.External.S3.BucketName
	fields := shared.TransformFields(req, shared.Actor(ctx))
	uploaded := constant.Empty

	if req.Image != nil {
		uploaded = objectName(req.Image.Filename)

		url, err := s.s3.UploadFile(ctx, bucket, model.EntityName, req.ImageFile, req.Image, uploaded)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload item image")

			return fmt.Errorf("failed to upload image: %w", err)
		}

		fields[model.FieldImage] = url
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update item")

		if uploaded != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucket, model.EntityName, uploaded)
		}

		return fmt.Errorf("failed to update item: %w", err)
	}

	if uploaded != constant.Empty {
		s.removeImage(ctx, current.Image)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "delete", err) }()

	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete item")

		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.removeImage(ctx, item.Image)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	bucket := s.cfg.External.S3.BucketName

	name := s.s3.GetObjectNameFromURL(bucket, url)
	if name == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(ctx, bucket, model.EntityName, path.Base(name)); err != nil {
		log.Warn().Err(err).Str("image", url).Msg("failed to remove old item image")
	}
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Item, error) {
	item, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item")

		return item, fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == constant.Empty {
		return item, failure.NotFound("item not found")
	}

	return item, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetItem, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete item cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllItem)
		shared.InvalidateCaches(c, s.cache, cacheCountItem)
	}()
}
