package occupancy

//go:generate go run go.uber.org/mock/mockgen -source=./propagator.go -destination=./mocks/propagator_mock.go -package=mocks

import (
	"context"
	"fmt"
	"pos/infras/otel"
	orderModel "pos/internal/domains/order/model"
	orderRepo "pos/internal/domains/order/repository"
	tableModel "pos/internal/domains/table/model"
	tableRepo "pos/internal/domains/table/repository"
	"pos/shared"
	"pos/shared/cache"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/event"
	"pos/shared/failure"
	"pos/shared/timezone"

	"github.com/rs/zerolog/log"
)

type StatusPayload struct {
	TableID     string `json:"table_id"`
	TableNumber string `json:"table_number"`
	Status      string `json:"status"`
}

// Propagator is the only writer of table status.
type Propagator interface {
	Occupy(ctx context.Context, tableNo string) error
	SetStatus(ctx context.Context, tableNo, status string) error
	SetStatusByID(ctx context.Context, id, status string) error
	// EvaluateRelease reports true only when the table was actually switched to available.
	EvaluateRelease(ctx context.Context, tableNo string) (bool, error)
}

type propagatorImpl struct {
	tables  tableRepo.Table
	orders  orderRepo.Order
	policy  ReleasePolicy
	emitter event.Emitter
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(tables tableRepo.Table, orders orderRepo.Order, policy ReleasePolicy, emitter event.Emitter, cache cache.RedisCache, otel otel.Otel) Propagator {
	return &propagatorImpl{
		tables:  tables,
		orders:  orders,
		policy:  policy,
		emitter: emitter,
		cache:   cache,
		otel:    otel,
	}
}

func (p *propagatorImpl) Occupy(ctx context.Context, tableNo string) error {
	return p.SetStatus(ctx, tableNo, tableModel.StatusOccupied)
}

func (p *propagatorImpl) SetStatus(ctx context.Context, tableNo, status string) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".occupancy.SetStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	_, err = p.apply(ctx, shared.FilterBy(tableModel.FieldTableNumber, tableNo, tableModel.TableName), status)

	return err
}

func (p *propagatorImpl) SetStatusByID(ctx context.Context, id, status string) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".occupancy.SetStatusByID")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	_, err = p.apply(ctx, shared.FilterByID(id, tableModel.FieldID, tableModel.TableName), status)

	return err
}

func (p *propagatorImpl) EvaluateRelease(ctx context.Context, tableNo string) (released bool, err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".occupancy.EvaluateRelease")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	orders, err := p.orders.GetAll(ctx, gDto.QueryParams{}, shared.FilterBy(orderModel.FieldTableNo, tableNo, orderModel.TableName), orderModel.FieldStatus)
	if err != nil {
		log.Error().Err(err).Str("table", tableNo).Msg("failed to get orders for table release")

		return false, fmt.Errorf("failed to get orders of table: %w", err)
	}

	statuses := make([]string, len(orders))
	for i, order := range orders {
		statuses[i] = order.Status
	}

	if !p.policy.ShouldRelease(statuses) {
		return false, nil
	}

	return p.apply(ctx, shared.FilterBy(tableModel.FieldTableNumber, tableNo, tableModel.TableName), tableModel.StatusAvailable)
}

// apply reports whether the table row was written.
func (p *propagatorImpl) apply(ctx context.Context, filter gDto.FilterGroup, status string) (bool, error) {
	table, err := p.tables.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get table")

		return false, fmt.Errorf("failed to get table: %w", err)
	}

	if table.ID == constant.Empty {
		return false, failure.NotFound("table not found")
	}

	if table.Status == status {
		return false, nil
	}

	fields := map[string]any{
		tableModel.FieldStatus:   status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.Actor(ctx),
	}

	if err = p.tables.Update(ctx, fields, shared.FilterByID(table.ID, tableModel.FieldID, tableModel.TableName)); err != nil {
		log.Error().Err(err).Str("table", table.TableNumber).Msg("failed to update table status")

		return false, fmt.Errorf("failed to update table status: %w", err)
	}

	p.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeTableStatusUpdated, StatusPayload{
		TableID:     table.ID,
		TableNumber: table.TableNumber,
		Status:      status,
	}))

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), p.cache, tableModel.CachePrefix)
	}()

	return true, nil
}
