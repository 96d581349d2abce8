package service

import (
	"context"
	"fmt"
	"pos/config"
	"pos/infras/otel"
	"pos/internal/domains/reservation/model"
	"pos/internal/domains/reservation/model/dto"
	"pos/internal/domains/reservation/repository"
	"pos/shared"
	"pos/shared/cache"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/event"
	"pos/shared/failure"
	"pos/shared/identifier"
	"pos/shared/metrics"
	"pos/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheGetAllReservation = "reservation:get_all"
	cacheCountReservation  = "reservation:count"

	msgSlotBooked = "This time slot is already booked. Please choose another time."

	// the generic repository interpolates SortBy as is, so a compound order fits in one value
	sortByDateThenTime = model.FieldReservationDate + " " + gDto.SortDirAsc + ", " + model.FieldTimeIn
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	AvailableSlots(ctx context.Context, date string) (dto.AvailableSlotsResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (dto.ReservationResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateReservationStatusRequest, id string) (dto.ReservationResponse, error)
	UpdatePayment(ctx context.Context, req dto.UpdatePaymentRequest, id string) (dto.ReservationResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Reservation
	emitter event.Emitter
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.Reservation, emitter event.Emitter, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Reservation {
	return &serviceImpl{
		repo:    repo,
		emitter: emitter,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "create", err) }()

	date, err := parseDate(req.ReservationDate)
	if err != nil {
		return res, err
	}

	if err = s.checkSlot(ctx, date.Format(constant.DayFormat), req.TimeIn, req.TimeOut, constant.Empty); err != nil {
		return res, err
	}

	number, err := identifier.Next(ctx, identifier.Reservation, model.TableName, s.repo)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate reservation number")

		return res, err //nolint:wrapcheck
	}

	reservation := req.ToModel(number, date, shared.Actor(ctx))

	if err = s.repo.Insert(ctx, reservation); err != nil {
		log.Error().Err(err).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	res.FromModel(reservation)

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeReservationCreated, res))
	s.invalidate(ctx)

	return res, nil
}

// checkSlot rejects a window that is empty or intersects another booking on the same day.
func (s *serviceImpl) checkSlot(ctx context.Context, day, timeIn, timeOut, exceptID string) error {
	if timeOut <= timeIn {
		return failure.BadRequestFromString("time_out must be after time_in")
	}

	filters := []any{
		gDto.Filter{
			Field:    model.FieldReservationDate,
			Value:    day,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldTimeIn,
			Value:    timeOut,
			Operator: gDto.FilterOperatorLess,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldTimeOut,
			Value:    timeIn,
			Operator: gDto.FilterOperatorGreater,
			Table:    model.TableName,
		},
	}

	if exceptID != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			Value:    exceptID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	booked, err := s.repo.Exist(ctx, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters})
	if err != nil {
		log.Error().Err(err).Msg("failed to check reservation overlap")

		return fmt.Errorf("failed to check reservation overlap: %w", err)
	}

	if booked {
		return failure.BadRequestFromString(msgSlotBooked)
	}

	return nil
}

func (s *serviceImpl) AvailableSlots(ctx context.Context, date string) (res dto.AvailableSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.AvailableSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day, err := parseDate(date)
	if err != nil {
		return res, err
	}

	booked, err := s.repo.GetAll(ctx, gDto.QueryParams{}, shared.FilterBy(model.FieldReservationDate, day.Format(constant.DayFormat), model.TableName),
		model.FieldTimeIn, model.FieldTimeOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations of day")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	slots := model.HourlySlots(s.cfg.Restaurant.OpeningHour, s.cfg.Restaurant.ClosingHour)
	free := model.FreeSlots(slots, booked)

	return dto.AvailableSlotsResponse{
		Date:                date,
		TotalSlots:          len(slots),
		AvailableSlotsCount: len(free),
		AvailableSlots:      free,
	}, nil
}

// GetAll orders by date then time_in unless the caller sorts.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.SortBy == constant.Empty {
		req.SortBy, req.SortDir = sortByDateThenTime, gDto.SortDirAsc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, err
	}

	reservations, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(reservations, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		return total, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	fields := shared.TransformFields(req, shared.Actor(ctx))

	if req.Reschedules() {
		if req.ReservationDate != constant.Empty {
			if reservation.ReservationDate, err = parseDate(req.ReservationDate); err != nil {
				return res, err
			}

			fields[model.FieldReservationDate] = reservation.ReservationDate
		}

		reservation.TimeIn = pick(req.TimeIn, reservation.TimeIn)
		reservation.TimeOut = pick(req.TimeOut, reservation.TimeOut)

		if err = s.checkSlot(ctx, reservation.ReservationDate.Format(constant.DayFormat), reservation.TimeIn, reservation.TimeOut, reservation.ID); err != nil {
			return res, err
		}
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update reservation")

		return res, fmt.Errorf("failed to update reservation: %w", err)
	}

	reservation.GuestName = pick(req.GuestName, reservation.GuestName)
	reservation.PhoneNumber = pick(req.PhoneNumber, reservation.PhoneNumber)
	reservation.Email = pick(req.Email, reservation.Email)
	reservation.TableNo = pick(req.TableNo, reservation.TableNo)
	reservation.SpecialRequests = pick(req.SpecialRequests, reservation.SpecialRequests)

	if req.PartySize > 0 {
		reservation.PartySize = req.PartySize
	}

	return s.updated(ctx, reservation), nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateReservationStatusRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	fields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.Actor(ctx),
	}

	if req.TableNo != constant.Empty {
		fields[model.FieldTableNo] = req.TableNo
		reservation.TableNo = req.TableNo
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update reservation status")

		return res, fmt.Errorf("failed to update reservation status: %w", err)
	}

	reservation.Status = req.Status

	return s.updated(ctx, reservation), nil
}

// UpdatePayment replaces the advance and derives the status from it.
func (s *serviceImpl) UpdatePayment(ctx context.Context, req dto.UpdatePaymentRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.UpdatePayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if reservation.IsAdvanceAdjusted {
		return res, failure.BadRequestFromString("advance already adjusted in bill " + reservation.AdjustedInBill)
	}

	reservation.AdvancePayment = decimal.NewFromFloat(req.AdvancePayment)
	reservation.Status = model.StatusForAdvance(reservation.AdvancePayment)

	fields := map[string]any{
		model.FieldAdvancePayment: reservation.AdvancePayment,
		model.FieldStatus:         reservation.Status,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  shared.Actor(ctx),
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update reservation payment")

		return res, fmt.Errorf("failed to update reservation payment: %w", err)
	}

	return s.updated(ctx, reservation), nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if reservation exists")

		return fmt.Errorf("failed to check if reservation exists: %w", err)
	}

	if !exist {
		return failure.NotFound("reservation not found")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) updated(ctx context.Context, reservation model.Reservation) (res dto.ReservationResponse) {
	res.FromModel(reservation)

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeReservationUpdated, res))
	s.invalidate(ctx)

	return res
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found")
	}

	return reservation, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, model.CachePrefix)
	}()
}

func parseDate(value string) (time.Time, error) {
	date, err := timezone.ParseDay(value)
	if err != nil {
		return date, failure.InvalidFormat("reservation_date", constant.DayFormat)
	}

	return date, nil
}

func pick(value, fallback string) string {
	if value == constant.Empty {
		return fallback
	}

	return value
}
