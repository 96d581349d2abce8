package service

import (
	"context"
	"fmt"

	"pos/infras/otel"
	"pos/internal/domains/notification/model"
	"pos/internal/domains/notification/model/dto"
	"pos/internal/domains/notification/repository"
	orderModel "pos/internal/domains/order/model"
	orderRepo "pos/internal/domains/order/repository"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/event"
	"pos/shared/failure"
	"pos/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Notification interface {
	OrderReady(ctx context.Context, req dto.OrderReadyRequest) (dto.NotificationResponse, error)
	Mine(ctx context.Context) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Notification
	orders  orderRepo.Order
	emitter event.Emitter
	otel    otel.Otel
}

func New(repo repository.Notification, orders orderRepo.Order, emitter event.Emitter, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:    repo,
		orders:  orders,
		emitter: emitter,
		otel:    otel,
	}
}

// OrderReady notifies whoever created the order.
func (s *serviceImpl) OrderReady(ctx context.Context, req dto.OrderReadyRequest) (res dto.NotificationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.OrderReady")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	order, err := s.orders.Get(ctx, shared.FilterByID(req.OrderID, orderModel.FieldID, orderModel.TableName),
		orderModel.FieldID, constant.FieldCreatedBy)
	if err != nil {
		log.Error().Err(err).Msg("failed to get order")

		return res, fmt.Errorf("failed to get order: %w", err)
	}

	if order.ID == constant.Empty {
		return res, failure.NotFound("order not found")
	}

	notice := dto.NewOrderReady(order.CreatedBy, order.ID, req.KOTID, req.TableNo, req.Message)

	if err = s.repo.Insert(ctx, notice); err != nil {
		log.Error().Err(err).Msg("failed to create notification")

		return res, fmt.Errorf("failed to create notification: %w", err)
	}

	res.FromModel(notice)
	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeNotificationCreated, res))

	return res, nil
}

// Mine returns the caller's latest notifications, newest first.
func (s *serviceImpl) Mine(ctx context.Context) (res []dto.NotificationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.Mine")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return nil, failure.Unauthorized("user not authenticated")
	}

	params := gDto.QueryParams{
		Page:    1,
		Limit:   model.MyNotificationsLimit,
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	notices, err := s.repo.GetAll(ctx, params, shared.FilterBy(model.FieldRecipient, user, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	res = make([]dto.NotificationResponse, len(notices))
	for i, notice := range notices {
		res[i].FromModel(notice)
	}

	return res, nil
}

// MarkRead only touches notifications addressed to the caller; anything else is a silent no-op.
func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.MarkRead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return failure.Unauthorized("user not authenticated")
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldRecipient, Value: user, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	fields := map[string]any{
		model.FieldIsRead:        true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notification read")

		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}
