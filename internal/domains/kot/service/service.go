package service

import (
	"context"
	"errors"
	"fmt"
	"pos/infras/otel"
	itemModel "pos/internal/domains/item/model"
	itemRepo "pos/internal/domains/item/repository"
	"pos/internal/domains/kot/model"
	"pos/internal/domains/kot/model/dto"
	"pos/internal/domains/kot/repository"
	notificationDto "pos/internal/domains/notification/model/dto"
	notificationRepo "pos/internal/domains/notification/repository"
	orderModel "pos/internal/domains/order/model"
	orderRepo "pos/internal/domains/order/repository"
	"pos/shared"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/event"
	"pos/shared/failure"
	"pos/shared/identifier"
	"pos/shared/metrics"
	"pos/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type KOT interface {
	Create(ctx context.Context, req dto.CreateKOTRequest) (dto.KOTResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateKOTStatusRequest, id string) (dto.KOTResponse, error)
	UpdateItemStatuses(ctx context.Context, req dto.UpdateItemStatusesRequest, id string) (dto.ItemStatusesResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetKOTsResponse, error)
	Get(ctx context.Context, id string) (dto.KOTResponse, error)
}

type UpdatePayload struct {
	KOTID   string          `json:"kot_id"`
	OrderID string          `json:"order_id"`
	TableNo string          `json:"table_no"`
	Status  string          `json:"status,omitempty"`
	KOT     dto.KOTResponse `json:"kot"`
}

type serviceImpl struct {
	repo          repository.KOT
	orders        orderRepo.Order
	items         itemRepo.Item
	notifications notificationRepo.Notification
	emitter       event.Emitter
	otel          otel.Otel
}

func New(repo repository.KOT, orders orderRepo.Order, items itemRepo.Item, notifications notificationRepo.Notification, emitter event.Emitter, otel otel.Otel) KOT {
	return &serviceImpl{
		repo:          repo,
		orders:        orders,
		items:         items,
		notifications: notifications,
		emitter:       emitter,
		otel:          otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateKOTRequest) (res dto.KOTResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".kot.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "create", err) }()

	order, err := s.orders.Get(ctx, shared.FilterByID(req.OrderID, orderModel.FieldID, orderModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get order")

		return res, fmt.Errorf("failed to get order: %w", err)
	}

	if order.ID == constant.Empty {
		return res, failure.NotFound("order not found")
	}

	lines, err := s.resolveLines(ctx, req)
	if err != nil {
		return res, err
	}

	number, err := identifier.Next(ctx, identifier.KOT, model.TableName, s.repo)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate kot number")

		return res, err //nolint:wrapcheck
	}

	ticket := dto.NewKOT(order.ID, number, order.TableNo, lines, req.Priority, req.EstimatedTime, shared.Actor(ctx))

	if err = s.repo.Insert(ctx, ticket); err != nil {
		log.Error().Err(err).Msg("failed to create kot")

		return res, fmt.Errorf("failed to create kot: %w", err)
	}

	res.FromModel(ticket)

	payload := UpdatePayload{KOTID: ticket.ID, OrderID: order.ID, TableNo: order.TableNo, KOT: res}
	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeNewKOT, payload))
	s.emitter.Emit(ctx, event.New(event.AudienceKitchen, event.TypeNewKOTCreated, payload))

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateKOTStatusRequest, id string) (res dto.KOTResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".kot.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "update_status", err) }()

	ticket, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = model.ValidateTransition(ticket.Status, req.Status); err != nil {
		if errors.Is(err, model.ErrInvalidTransition) {
			return res, failure.BadRequest(err)
		}

		return res, err //nolint:wrapcheck
	}

	if ticket.Status == req.Status && req.ActualTime == nil && req.AssignedChef == constant.Empty {
		res.FromModel(ticket)

		return res, nil
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldStatus:          req.Status,
		model.FieldStatusUpdatedAt: now,
		constant.FieldModifiedAt:   now,
		constant.FieldModifiedBy:   shared.Actor(ctx),
	}

	switch {
	case req.ActualTime != nil:
		ticket.ActualTime = *req.ActualTime
		fields[model.FieldActualTime] = ticket.ActualTime
	case req.Status == model.StatusCompleted:
		ticket.ActualTime = model.MinutesSince(ticket.CreatedAt, now)
		fields[model.FieldActualTime] = ticket.ActualTime
	}

	if req.AssignedChef != constant.Empty {
		ticket.AssignedChef = req.AssignedChef
		fields[model.FieldAssignedChef] = ticket.AssignedChef
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(ticket.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update kot status")

		return res, fmt.Errorf("failed to update kot status: %w", err)
	}

	ticket.Status = req.Status
	ticket.StatusUpdatedAt = now
	res.FromModel(ticket)

	payload := UpdatePayload{KOTID: ticket.ID, OrderID: ticket.OrderID, TableNo: ticket.TableNo, Status: ticket.Status, KOT: res}
	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeKOTStatusUpdated, payload))
	s.emitter.Emit(ctx, event.New(event.AudienceKitchen, event.TypeKOTStatusUpdated, payload))

	if req.Status == model.StatusServed {
		s.notifyServed(ctx, ticket)
	}

	return res, nil
}

func (s *serviceImpl) UpdateItemStatuses(ctx context.Context, req dto.UpdateItemStatusesRequest, id string) (res dto.ItemStatusesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".kot.UpdateItemStatuses")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ticket, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	now := timezone.Now()
	updates := make([]model.ItemStatus, len(req.ItemStatuses))

	for i, update := range req.ItemStatuses {
		if update.ItemIndex >= len(ticket.Items) {
			return res, failure.BadRequestFromString(fmt.Sprintf("item index %d is out of range", update.ItemIndex))
		}

		updates[i] = model.ItemStatus{ItemIndex: update.ItemIndex, Status: update.Status, UpdatedAt: now}
	}

	ticket.ItemStatuses = model.UpsertItemStatuses(ticket.ItemStatuses, updates)

	fields := map[string]any{
		model.FieldItemStatuses:  ticket.ItemStatuses,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: shared.Actor(ctx),
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(ticket.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update kot item statuses")

		return res, fmt.Errorf("failed to update kot item statuses: %w", err)
	}

	res.ItemStatuses = ticket.ItemStatuses

	payload := UpdatePayload{KOTID: ticket.ID, OrderID: ticket.OrderID, TableNo: ticket.TableNo}
	payload.KOT.FromModel(ticket)

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeKOTItemStatusUpdated, payload))
	s.emitter.Emit(ctx, event.New(event.AudienceKitchen, event.TypeKOTItemStatusUpdated, payload))

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetKOTsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".kot.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.SortBy == constant.Empty {
		req.SortBy = constant.FieldCreatedAt
		req.SortDir = gDto.SortDirDesc
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count kots")

		return res, fmt.Errorf("failed to count kots: %w", err)
	}

	tickets, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get kots")

		return res, fmt.Errorf("failed to get kots: %w", err)
	}

	res.FromModels(tickets, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.KOTResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".kot.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ticket, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(ticket)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.KOT, error) {
	ticket, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get kot")

		return ticket, fmt.Errorf("failed to get kot: %w", err)
	}

	if ticket.ID == constant.Empty {
		return ticket, failure.NotFound("kot not found")
	}

	return ticket, nil
}

// notifyServed tells the waiter who took the order that it is ready. Failures are logged only.
func (s *serviceImpl) notifyServed(ctx context.Context, ticket model.KOT) {
	order, err := s.orders.Get(ctx, shared.FilterByID(ticket.OrderID, orderModel.FieldID, orderModel.TableName))
	if err != nil {
		log.Warn().Err(err).Str("order", ticket.OrderID).Msg("failed to get order for served notification")

		return
	}

	if order.ID == constant.Empty || order.CreatedBy == constant.Empty {
		return
	}

	notice := notificationDto.NewOrderReady(order.CreatedBy, order.ID, ticket.ID, ticket.TableNo, constant.Empty)

	if err := s.notifications.Insert(ctx, notice); err != nil {
		log.Warn().Err(err).Str("order", ticket.OrderID).Msg("failed to create served notification")

		return
	}

	res := notificationDto.NotificationResponse{}
	res.FromModel(notice)

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeNotificationCreated, res))
}

func (s *serviceImpl) resolveLines(ctx context.Context, req dto.CreateKOTRequest) ([]model.Line, error) {
	lines := make([]model.Line, len(req.Items))
	group, gctx := errgroup.WithContext(ctx)

	for i, line := range req.Items {
		group.Go(func() error {
			item, err := s.items.Get(gctx, shared.FilterByID(line.ItemID, itemModel.FieldID, itemModel.TableName), itemModel.FieldID, itemModel.FieldName, itemModel.FieldPrice)
			if err != nil {
				return fmt.Errorf("failed to get item %s: %w", line.ItemID, err)
			}

			name, rate := item.Name, item.Price
			if item.ID == constant.Empty {
				name, rate = orderModel.UnknownItemName, decimal.Zero
			}

			quantity := line.Quantity
			if quantity <= 0 {
				quantity = 1
			}

			amount := rate.Mul(decimal.NewFromInt(int64(quantity)))
			if line.IsFree {
				rate, amount = decimal.Zero, decimal.Zero
			}

			instructions := line.SpecialInstructions
			if instructions == constant.Empty {
				instructions = req.SpecialInstructions
			}

			lines[i] = model.Line{
				ItemID:              line.ItemID,
				ItemName:            name,
				Quantity:            quantity,
				Rate:                rate,
				Amount:              amount,
				SpecialInstructions: instructions,
				IsFree:              line.IsFree,
				NocID:               line.NocID,
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to resolve kot items")

		return nil, err //nolint:wrapcheck
	}

	return lines, nil
}
