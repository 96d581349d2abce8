package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pos/config"
	"pos/infras/otel/mocks"
	reservationMocks "pos/internal/domains/reservation/mocks"
	"pos/internal/domains/reservation/model"
	"pos/internal/domains/reservation/model/dto"
	"pos/internal/domains/reservation/service"
	cacheMocks "pos/shared/cache/mocks"
	gDto "pos/shared/dto"
	"pos/shared/event"
	eventMocks "pos/shared/event/mocks"
	"pos/shared/failure"
)

type deps struct {
	repo    *reservationMocks.MockReservation
	emitter *eventMocks.MockEmitter
	svc     service.Reservation
}

func newDeps(t *testing.T) deps {
	ctrl := gomock.NewController(t)

	d := deps{
		repo:    reservationMocks.NewMockReservation(ctrl),
		emitter: eventMocks.NewMockEmitter(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Restaurant.OpeningHour = 10
	cfg.Restaurant.ClosingHour = 23

	d.svc = service.New(d.repo, d.emitter, cfg, mockCache, mocks.NewOtel())

	return d
}

func booked() model.Reservation {
	return model.Reservation{
		ID:                "res-1",
		ReservationNumber: "RES202610150001",
		GuestName:         "Meera",
		PhoneNumber:       "9800000000",
		PartySize:         4,
		ReservationDate:   time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		TimeIn:            "19:00",
		TimeOut:           "20:00",
		Status:            model.StatusEnquiry,
		AdvancePayment:    decimal.Zero,
	}
}

func TestReservationService_Create(t *testing.T) {
	base := dto.CreateReservationRequest{
		GuestName:       "Meera",
		PhoneNumber:     "9800000000",
		PartySize:       4,
		ReservationDate: "2026-10-20",
		TimeIn:          "19:00",
		TimeOut:         "20:00",
	}

	withAdvance := base
	withAdvance.AdvancePayment = 500

	reversed := base
	reversed.TimeIn, reversed.TimeOut = "20:00", "19:00"

	badDate := base
	badDate.ReservationDate = "20-10-2026"

	tests := []struct {
		name       string
		req        dto.CreateReservationRequest
		setupMock  func(d deps)
		wantStatus string
		wantCode   int
		wantMsg    string
	}{
		{
			name: "enquiry without advance",
			req:  base,
			setupMock: func(d deps) {
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, evt event.Event) { assert.Equal(t, event.TypeReservationCreated, evt.Type) })
			},
			wantStatus: model.StatusEnquiry,
		},
		{
			name: "reserved with advance",
			req:  withAdvance,
			setupMock: func(d deps) {
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r model.Reservation) error {
						assert.True(t, decimal.NewFromInt(500).Equal(r.AdvancePayment))
						assert.Contains(t, r.ReservationNumber, "RES")

						return nil
					})
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())
			},
			wantStatus: model.StatusReserved,
		},
		{
			name: "overlapping slot",
			req:  base,
			setupMock: func(d deps) {
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "This time slot is already booked. Please choose another time.",
		},
		{
			name:      "time out before time in",
			req:       reversed,
			setupMock: func(_ deps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "malformed date",
			req:       badDate,
			setupMock: func(_ deps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "insert failure",
			req:  base,
			setupMock: func(d deps) {
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			tt.setupMock(d)

			res, err := d.svc.Create(context.Background(), tt.req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantMsg != "" {
					assert.Contains(t, err.Error(), tt.wantMsg)
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, "2026-10-20", res.ReservationDate)
		})
	}
}

func TestReservationService_Create_OverlapQuery(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "reservations.time_in < :time_in")
			assert.Contains(t, where, "reservations.time_out > :time_out")
			assert.Equal(t, "20:00", args[model.FieldTimeIn])
			assert.Equal(t, "19:00", args[model.FieldTimeOut])
			assert.Equal(t, "2026-10-20", args[model.FieldReservationDate])

			return true, nil
		})

	_, err := d.svc.Create(context.Background(), dto.CreateReservationRequest{
		GuestName:       "Meera",
		PhoneNumber:     "9800000000",
		PartySize:       2,
		ReservationDate: "2026-10-20",
		TimeIn:          "19:00",
		TimeOut:         "20:00",
	})

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestReservationService_AvailableSlots(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Reservation{
			{TimeIn: "12:00", TimeOut: "13:00"},
			{TimeIn: "19:30", TimeOut: "21:00"},
		}, nil)

	res, err := d.svc.AvailableSlots(context.Background(), "2026-10-20")

	assert.NoError(t, err)
	assert.Equal(t, 13, res.TotalSlots)
	assert.Equal(t, 10, res.AvailableSlotsCount)
	assert.NotContains(t, res.AvailableSlots, model.Slot{Start: "12:00", End: "13:00"})
	assert.NotContains(t, res.AvailableSlots, model.Slot{Start: "20:00", End: "21:00"})
	assert.Contains(t, res.AvailableSlots, model.Slot{Start: "13:00", End: "14:00"})
}

func TestReservationService_GetAll(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	d.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
			assert.Contains(t, params.SortBy, model.FieldReservationDate)
			assert.Contains(t, params.SortBy, model.FieldTimeIn)

			return []model.Reservation{booked()}, nil
		})

	res, err := d.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, "Meera", res.Reservations[0].GuestName)
}

func TestReservationService_Update(t *testing.T) {
	t.Run("reschedule into booked slot", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booked(), nil)
		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				where, _ := filter.GetWhereClause()
				assert.Contains(t, where, "reservations.id != :id")

				return true, nil
			})

		_, err := d.svc.Update(context.Background(), dto.UpdateReservationRequest{TimeIn: "18:30"}, "res-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("guest details only", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booked(), nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, 6, fields[model.FieldPartySize])
				assert.NotContains(t, fields, model.FieldTimeIn)

				return nil
			})
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())

		res, err := d.svc.Update(context.Background(), dto.UpdateReservationRequest{PartySize: 6}, "res-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, 6, res.PartySize)
		assert.Equal(t, "19:00", res.TimeIn)
	})

	t.Run("not found", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		_, err := d.svc.Update(context.Background(), dto.UpdateReservationRequest{PartySize: 6}, "res-9")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestReservationService_UpdateStatus(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booked(), nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, model.StatusComplete, fields[model.FieldStatus])
			assert.Equal(t, "T4", fields[model.FieldTableNo])

			return nil
		})
	d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, evt event.Event) { assert.Equal(t, event.TypeReservationUpdated, evt.Type) })

	res, err := d.svc.UpdateStatus(context.Background(), dto.UpdateReservationStatusRequest{
		Status:  model.StatusComplete,
		TableNo: "T4",
	}, "res-1")
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusComplete, res.Status)
	assert.Equal(t, "T4", res.TableNo)
}

func TestReservationService_UpdatePayment(t *testing.T) {
	tests := []struct {
		name       string
		current    func() model.Reservation
		advance    float64
		wantStatus string
		wantCode   int
	}{
		{
			name:       "advance makes it reserved",
			current:    booked,
			advance:    1000,
			wantStatus: model.StatusReserved,
		},
		{
			name: "zero advance falls back to enquiry",
			current: func() model.Reservation {
				r := booked()
				r.Status = model.StatusReserved
				r.AdvancePayment = decimal.NewFromInt(300)

				return r
			},
			advance:    0,
			wantStatus: model.StatusEnquiry,
		},
		{
			name: "already adjusted",
			current: func() model.Reservation {
				r := booked()
				r.IsAdvanceAdjusted = true
				r.AdjustedInBill = "bill-1"

				return r
			},
			advance:  200,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)

			d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current(), nil)

			if tt.wantCode == 0 {
				d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())
			}

			res, err := d.svc.UpdatePayment(context.Background(), dto.UpdatePaymentRequest{AdvancePayment: tt.advance}, "res-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.True(t, decimal.NewFromFloat(tt.advance).Equal(res.AdvancePayment))
		})
	}
}

func TestReservationService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := d.svc.Delete(context.Background(), "res-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := d.svc.Delete(context.Background(), "res-9")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
