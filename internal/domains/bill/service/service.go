package service

import (
	"context"
	"fmt"
	"pos/config"
	"pos/infras/otel"
	"pos/internal/domains/bill/model"
	"pos/internal/domains/bill/model/dto"
	"pos/internal/domains/bill/repository"
	"pos/internal/domains/occupancy"
	orderModel "pos/internal/domains/order/model"
	orderRepo "pos/internal/domains/order/repository"
	reservationModel "pos/internal/domains/reservation/model"
	reservationRepo "pos/internal/domains/reservation/repository"
	"pos/shared"
	"pos/shared/cache"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/event"
	"pos/shared/failure"
	"pos/shared/identifier"
	"pos/shared/metrics"
	gModel "pos/shared/model"
	gRepo "pos/shared/repository"
	"pos/shared/timezone"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheGetAllBill = "bill:get_all"
	cacheCountBill  = "bill:count"
)

type Bill interface {
	Create(ctx context.Context, req dto.CreateBillRequest) (dto.BillResponse, error)
	ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest, id string) (dto.BillResponse, error)
	ProcessSplitPayment(ctx context.Context, req dto.ProcessSplitPaymentRequest, id string) (dto.BillResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateBillStatusRequest, id string) (dto.BillResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBillsResponse, error)
	Get(ctx context.Context, id string) (dto.BillResponse, error)
	GetByOrder(ctx context.Context, orderID string) (dto.BillResponse, error)
	GetAdvanceDetails(ctx context.Context, id string) (dto.AdvanceDetailsResponse, error)
}

type PaidPayload struct {
	BillID  string `json:"bill_id"`
	OrderID string `json:"order_id"`
	TableNo string `json:"table_no"`
}

type serviceImpl struct {
	repo         repository.Bill
	orders       orderRepo.Order
	reservations reservationRepo.Reservation
	tx           gRepo.Transactor
	propagator   occupancy.Propagator
	emitter      event.Emitter
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Bill,
	orders orderRepo.Order,
	reservations reservationRepo.Reservation,
	tx gRepo.Transactor,
	propagator occupancy.Propagator,
	emitter event.Emitter,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Bill {
	return &serviceImpl{
		repo:         repo,
		orders:       orders,
		reservations: reservations,
		tx:           tx,
		propagator:   propagator,
		emitter:      emitter,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBillRequest) (res dto.BillResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".bill.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "create", err) }()

	user := shared.Actor(ctx)

	order, err := s.orders.Get(ctx, shared.FilterByID(req.OrderID, orderModel.FieldID, orderModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get order")

		return res, fmt.Errorf("failed to get order: %w", err)
	}

	if order.ID == constant.Empty {
		return res, failure.NotFound("order not found")
	}

	if order.Status == orderModel.StatusCancelled {
		return res, failure.BadRequestFromString("cannot bill a cancelled order")
	}

	billed, err := s.repo.Exist(ctx, shared.FilterBy(model.FieldOrderID, order.ID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing bill")

		return res, fmt.Errorf("failed to check existing bill: %w", err)
	}

	if billed {
		return res, failure.Conflict("order already has a bill")
	}

	reservation, err := s.openAdvance(ctx, req.ReservationID)
	if err != nil {
		return res, err
	}

	number, err := identifier.Next(ctx, identifier.Bill, model.TableName, s.repo)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate bill number")

		return res, err //nolint:wrapcheck
	}

	bill := req.ToModel(number, order.TableNo, order.Amount, reservation.AdvancePayment, user)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, bill); err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}

		if !bill.AdvancePayment.GreaterThan(decimal.Zero) {
			return nil
		}

		fields := map[string]any{
			reservationModel.FieldIsAdvanceAdjusted: true,
			reservationModel.FieldAdjustedInBill:    bill.ID,
			constant.FieldModifiedAt:                timezone.Now(),
			constant.FieldModifiedBy:                user,
		}

		claimed, err := s.reservations.UpdateTxAffected(ctx, tx, fields, openAdvanceFilter(reservation.ID))
		if err != nil {
			return fmt.Errorf("failed to adjust reservation advance: %w", err)
		}

		if claimed == 0 {
			return failure.Conflict("reservation advance already adjusted")
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create bill")

		return res, err
	}

	res.FromModel(bill)

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeBillCreated, res))
	s.invalidate(ctx, model.CachePrefix, reservationModel.CachePrefix)

	return res, nil
}

// openAdvanceFilter matches the reservation only while its advance is still unapplied.
func openAdvanceFilter(id string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: reservationModel.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: reservationModel.TableName},
			gDto.Filter{
				ArgName:  "advance_open",
				Field:    reservationModel.FieldIsAdvanceAdjusted,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
				Table:    reservationModel.TableName,
			},
		},
	}
}

// openAdvance returns the reservation whose advance can still be applied, or a zero
// reservation when there is none.
func (s *serviceImpl) openAdvance(ctx context.Context, id string) (reservationModel.Reservation, error) {
	none := reservationModel.Reservation{AdvancePayment: decimal.Zero}

	if id == constant.Empty {
		return none, nil
	}

	reservation, err := s.reservations.Get(ctx, shared.FilterByID(id, reservationModel.FieldID, reservationModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return none, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty || reservation.IsAdvanceAdjusted {
		return none, nil
	}

	return reservation, nil
}

func (s *serviceImpl) ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest, id string) (res dto.BillResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".bill.ProcessPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "process_payment", err) }()

	bill, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	bill.PaymentMethod = req.PaymentMethod

	return s.settle(ctx, bill, decimal.NewFromFloat(req.PaidAmount))
}

func (s *serviceImpl) ProcessSplitPayment(ctx context.Context, req dto.ProcessSplitPaymentRequest, id string) (res dto.BillResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".bill.ProcessSplitPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "process_split_payment", err) }()

	bill, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	parts, paid := req.ToModel()
	bill.PaymentMethod = model.PaymentMethodSplit
	bill.SplitPayments = parts

	return s.settle(ctx, bill, paid)
}

// settle records the payment against the outstanding amount. A short payment leaves the
// bill pending; a full one marks both the bill and its order paid.
func (s *serviceImpl) settle(ctx context.Context, bill model.Bill, paid decimal.Decimal) (res dto.BillResponse, err error) {
	user := shared.Actor(ctx)

	change, settled := model.Settle(bill.RemainingAmount, paid)

	bill.PaidAmount = paid
	bill.ChangeAmount = change
	bill.PaymentStatus = model.PaymentStatusPending

	if settled {
		bill.PaymentStatus = model.PaymentStatusPaid
	}

	if bill.SplitPayments == nil {
		bill.SplitPayments = gModel.JSONList[model.SplitPayment]{}
	}

	now := timezone.Now()

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		fields := map[string]any{
			model.FieldPaidAmount:    bill.PaidAmount,
			model.FieldChangeAmount:  bill.ChangeAmount,
			model.FieldPaymentStatus: bill.PaymentStatus,
			model.FieldPaymentMethod: bill.PaymentMethod,
			model.FieldSplitPayments: bill.SplitPayments,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(bill.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		if !settled {
			return nil
		}

		return s.markOrderPaid(ctx, tx, bill.OrderID, now, user)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to process payment")

		return res, err
	}

	res.FromModel(bill)

	if settled {
		s.afterPaid(ctx, bill)
	}

	s.invalidate(ctx, model.CachePrefix)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateBillStatusRequest, id string) (res dto.BillResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".bill.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "update_status", err) }()

	user := shared.Actor(ctx)

	bill, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	paid := req.PaymentStatus == model.PaymentStatusPaid
	now := timezone.Now()

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		fields := map[string]any{
			model.FieldPaymentStatus: req.PaymentStatus,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(bill.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update bill status: %w", err)
		}

		if !paid {
			return nil
		}

		return s.markOrderPaid(ctx, tx, bill.OrderID, now, user)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update bill status")

		return res, err
	}

	bill.PaymentStatus = req.PaymentStatus
	res.FromModel(bill)

	if paid {
		s.afterPaid(ctx, bill)
	}

	s.invalidate(ctx, model.CachePrefix)

	return res, nil
}

func (s *serviceImpl) markOrderPaid(ctx context.Context, tx *sqlx.Tx, orderID string, now time.Time, user string) error {
	fields := map[string]any{
		orderModel.FieldStatus:          orderModel.StatusPaid,
		orderModel.FieldStatusUpdatedAt: now,
		constant.FieldModifiedAt:        now,
		constant.FieldModifiedBy:        user,
	}

	if err := s.orders.UpdateTx(ctx, tx, fields, payableOrderFilter(orderID)); err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	return nil
}

// payableOrderFilter skips orders that may no longer move to paid, so settling a bill
// never revives a cancelled or completed order.
func payableOrderFilter(orderID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: orderModel.FieldID, Value: orderID, Operator: gDto.FilterOperatorEq, Table: orderModel.TableName},
			gDto.Filter{
				ArgName:  "current_status",
				Field:    orderModel.FieldStatus,
				Value:    orderModel.PayableFrom(),
				Operator: gDto.FilterOperatorIn,
				Table:    orderModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) afterPaid(ctx context.Context, bill model.Bill) {
	if _, err := s.propagator.EvaluateRelease(ctx, bill.TableNo); err != nil {
		log.Warn().Err(err).Str("table", bill.TableNo).Msg("failed to evaluate table release")
	}

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeBillPaid, PaidPayload{
		BillID:  bill.ID,
		OrderID: bill.OrderID,
		TableNo: bill.TableNo,
	}))

	s.invalidate(ctx, orderModel.CachePrefix)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBillsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".bill.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBill, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bills")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bills")

		return res, err
	}

	bills, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bills")

		return res, err
	}

	res.FromModels(bills, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bills to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBill, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		return total, fmt.Errorf("failed to count bills: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bill count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BillResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".bill.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bill, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(bill)

	return res, nil
}

func (s *serviceImpl) GetByOrder(ctx context.Context, orderID string) (res dto.BillResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".bill.GetByOrder")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bill, err := s.repo.Get(ctx, shared.FilterBy(model.FieldOrderID, orderID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bill of order")

		return res, fmt.Errorf("failed to get bill: %w", err)
	}

	if bill.ID == constant.Empty {
		return res, failure.NotFound("bill not found")
	}

	res.FromModel(bill)

	return res, nil
}

func (s *serviceImpl) GetAdvanceDetails(ctx context.Context, id string) (res dto.AdvanceDetailsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".bill.GetAdvanceDetails")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bill, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(bill)
	res.PaymentBreakdown = dto.PaymentBreakdown{
		TotalBill:       bill.TotalAmount,
		AdvancePaid:     bill.AdvancePayment,
		RemainingAmount: bill.RemainingAmount,
		PaidAmount:      bill.PaidAmount,
		ChangeAmount:    bill.ChangeAmount,
	}

	if !bill.AdvancePayment.GreaterThan(decimal.Zero) {
		return res, nil
	}

	filter := shared.FilterBy(reservationModel.FieldAdjustedInBill, bill.ID, reservationModel.TableName)

	reservation, err := s.reservations.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation of bill")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID != constant.Empty {
		res.Reservation = &dto.AdvanceReservation{
			ReservationNumber: reservation.ReservationNumber,
			GuestName:         reservation.GuestName,
			AdvancePayment:    reservation.AdvancePayment,
			ReservationDate:   reservation.ReservationDate,
		}
	}

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Bill, error) {
	bill, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bill")

		return bill, fmt.Errorf("failed to get bill: %w", err)
	}

	if bill.ID == constant.Empty {
		return bill, failure.NotFound("bill not found")
	}

	return bill, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, prefixes ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, prefix := range prefixes {
			shared.InvalidateCaches(c, s.cache, prefix)
		}
	}()
}
