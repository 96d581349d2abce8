package service

import (
	"context"
	"fmt"

	"pos/infras/otel"
	"pos/internal/domains/activity/model"
	"pos/internal/domains/activity/model/dto"
	"pos/internal/domains/activity/repository"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/failure"
	"pos/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Activity interface {
	Record(ctx context.Context, salesPersonID string, loc model.Location) error
	LogLocation(ctx context.Context, loc model.Location) (dto.ActivityLogResponse, error)
	Mine(ctx context.Context, req gDto.QueryParams) (dto.GetActivityLogsResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetActivityLogsResponse, error)
	BySalesPerson(ctx context.Context, salesPersonID string, req gDto.QueryParams) (dto.GetActivityLogsResponse, error)
	Latest(ctx context.Context) ([]dto.ActivityLogResponse, error)
	Cleanup(ctx context.Context, days int) error
}

type serviceImpl struct {
	repo repository.ActivityLog
	otel otel.Otel
}

func New(repo repository.ActivityLog, otel otel.Otel) Activity {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// Record stores one location sample; the tracker calls it on every tick.
func (s *serviceImpl) Record(ctx context.Context, salesPersonID string, loc model.Location) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Record")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.repo.Insert(ctx, dto.NewLog(salesPersonID, loc, shared.Actor(ctx))); err != nil {
		log.Error().Err(err).Str("salesPerson", salesPersonID).Msg("failed to log location")

		return fmt.Errorf("failed to log location: %w", err)
	}

	return nil
}

func (s *serviceImpl) LogLocation(ctx context.Context, loc model.Location) (res dto.ActivityLogResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.LogLocation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("user not authenticated")
	}

	entry := dto.NewLog(user, loc, user)

	if err = s.repo.Insert(ctx, entry); err != nil {
		log.Error().Err(err).Msg("failed to log location")

		return res, fmt.Errorf("failed to log location: %w", err)
	}

	res.FromModel(entry)

	return res, nil
}

func (s *serviceImpl) Mine(ctx context.Context, req gDto.QueryParams) (res dto.GetActivityLogsResponse, err error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("user not authenticated")
	}

	return s.BySalesPerson(ctx, user, req)
}

func (s *serviceImpl) BySalesPerson(ctx context.Context, salesPersonID string, req gDto.QueryParams) (dto.GetActivityLogsResponse, error) {
	return s.GetAll(ctx, req, shared.FilterBy(model.FieldSalesPersonID, salesPersonID, model.TableName))
}

// GetAll lists logs newest first unless the caller sorts.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetActivityLogsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.SortBy == constant.Empty {
		req.SortBy, req.SortDir = model.FieldLoggedAt, gDto.SortDirDesc
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count activity logs")

		return res, fmt.Errorf("failed to count activity logs: %w", err)
	}

	logs, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get activity logs")

		return res, fmt.Errorf("failed to get activity logs: %w", err)
	}

	res.FromModels(logs, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Latest(ctx context.Context) (res []dto.ActivityLogResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Latest")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	logs, err := s.repo.Latest(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get latest locations")

		return nil, fmt.Errorf("failed to get latest locations: %w", err)
	}

	res = make([]dto.ActivityLogResponse, len(logs))
	for i, entry := range logs {
		res[i].FromModel(entry)
	}

	return res, nil
}

// Cleanup removes logs older than days and logs missing either coordinate.
func (s *serviceImpl) Cleanup(ctx context.Context, days int) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Cleanup")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if days < 0 {
		return failure.BadRequestFromString("days must not be negative")
	}

	cutoff := timezone.Now().AddDate(0, 0, -days)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{Field: model.FieldLatitude, Operator: gDto.FilterIsNull, Table: model.TableName},
			gDto.Filter{Field: model.FieldLongitude, Operator: gDto.FilterIsNull, Table: model.TableName},
			gDto.Filter{Field: model.FieldLoggedAt, Value: cutoff, Operator: gDto.FilterOperatorLess, Table: model.TableName},
		},
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to clean activity logs")

		return fmt.Errorf("failed to clean activity logs: %w", err)
	}

	log.Info().Int("days", days).Msg("activity logs cleaned")

	return nil
}
