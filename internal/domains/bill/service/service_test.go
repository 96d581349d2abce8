package service_test

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pos/config"
	"pos/infras/otel/mocks"
	billMocks "pos/internal/domains/bill/mocks"
	"pos/internal/domains/bill/model"
	"pos/internal/domains/bill/model/dto"
	"pos/internal/domains/bill/service"
	occupancyMocks "pos/internal/domains/occupancy/mocks"
	orderMocks "pos/internal/domains/order/mocks"
	orderModel "pos/internal/domains/order/model"
	reservationMocks "pos/internal/domains/reservation/mocks"
	reservationModel "pos/internal/domains/reservation/model"
	cacheMocks "pos/shared/cache/mocks"
	gDto "pos/shared/dto"
	"pos/shared/event"
	eventMocks "pos/shared/event/mocks"
	"pos/shared/failure"
	repoMocks "pos/shared/repository/mocks"
)

type deps struct {
	repo         *billMocks.MockBill
	orders       *orderMocks.MockOrder
	reservations *reservationMocks.MockReservation
	tx           *repoMocks.MockTransactor
	propagator   *occupancyMocks.MockPropagator
	emitter      *eventMocks.MockEmitter
	svc          service.Bill
}

func newDeps(t *testing.T) deps {
	ctrl := gomock.NewController(t)

	d := deps{
		repo:         billMocks.NewMockBill(ctrl),
		orders:       orderMocks.NewMockOrder(ctrl),
		reservations: reservationMocks.NewMockReservation(ctrl),
		tx:           repoMocks.NewMockTransactor(ctrl),
		propagator:   occupancyMocks.NewMockPropagator(ctrl),
		emitter:      eventMocks.NewMockEmitter(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	d.svc = service.New(d.repo, d.orders, d.reservations, d.tx, d.propagator, d.emitter, cfg, mockCache, mocks.NewOtel())

	return d
}

func (d deps) runTx() {
	d.tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

func unpaid() model.Bill {
	return model.Bill{
		ID:              "bill-1",
		OrderID:         "order-1",
		BillNumber:      "BILL202511130001",
		TableNo:         "T3",
		Subtotal:        decimal.NewFromInt(1000),
		Discount:        decimal.NewFromInt(50),
		Tax:             decimal.NewFromInt(20),
		TotalAmount:     decimal.NewFromInt(970),
		AdvancePayment:  decimal.Zero,
		RemainingAmount: decimal.NewFromInt(970),
		PaymentStatus:   model.PaymentStatusPending,
	}
}

func TestBillService_Create(t *testing.T) {
	order := orderModel.Order{ID: "order-1", TableNo: "T3", Amount: decimal.NewFromInt(1000)}

	tests := []struct {
		name          string
		req           dto.CreateBillRequest
		setupMock     func(d deps)
		wantTotal     int64
		wantAdvance   int64
		wantRemaining int64
		wantCode      int
	}{
		{
			name: "totals without reservation",
			req:  dto.CreateBillRequest{OrderID: "order-1", Discount: 50, Tax: 20},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any()).Return(order, nil)
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				d.runTx()
				d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())
			},
			wantTotal:     970,
			wantAdvance:   0,
			wantRemaining: 970,
		},
		{
			name: "applies unadjusted advance and marks reservation",
			req:  dto.CreateBillRequest{OrderID: "order-1", Discount: 50, Tax: 20, ReservationID: "res-1"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any()).Return(order, nil)
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.reservations.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(reservationModel.Reservation{ID: "res-1", AdvancePayment: decimal.NewFromInt(500)}, nil)
				d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				d.runTx()
				d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.reservations.EXPECT().UpdateTxAffected(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) (int64, error) {
						assert.Equal(t, true, fields[reservationModel.FieldIsAdvanceAdjusted])
						assert.NotEmpty(t, fields[reservationModel.FieldAdjustedInBill])

						_, args := filter.GetWhereClause()
						assert.Equal(t, "res-1", args[reservationModel.FieldID])
						assert.Equal(t, false, args["advance_open"])

						return 1, nil
					})
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())
			},
			wantTotal:     970,
			wantAdvance:   500,
			wantRemaining: 470,
		},
		{
			name: "does not apply an advance twice",
			req:  dto.CreateBillRequest{OrderID: "order-1", Discount: 50, Tax: 20, ReservationID: "res-1"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any()).Return(order, nil)
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.reservations.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(reservationModel.Reservation{
						ID:                "res-1",
						AdvancePayment:    decimal.NewFromInt(500),
						IsAdvanceAdjusted: true,
						AdjustedInBill:    "bill-0",
					}, nil)
				d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				d.runTx()
				d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())
			},
			wantTotal:     970,
			wantAdvance:   0,
			wantRemaining: 970,
		},
		{
			name: "advance larger than total leaves nothing to pay",
			req:  dto.CreateBillRequest{OrderID: "order-1", ReservationID: "res-1"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any()).Return(order, nil)
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.reservations.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(reservationModel.Reservation{ID: "res-1", AdvancePayment: decimal.NewFromInt(1500)}, nil)
				d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				d.runTx()
				d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.reservations.EXPECT().UpdateTxAffected(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())
			},
			wantTotal:     1000,
			wantAdvance:   1500,
			wantRemaining: 0,
		},
		{
			name: "advance claimed by another bill in the meantime",
			req:  dto.CreateBillRequest{OrderID: "order-1", ReservationID: "res-1"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any()).Return(order, nil)
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.reservations.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(reservationModel.Reservation{ID: "res-1", AdvancePayment: decimal.NewFromInt(500)}, nil)
				d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				d.runTx()
				d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.reservations.EXPECT().UpdateTxAffected(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "order already billed",
			req:  dto.CreateBillRequest{OrderID: "order-1"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any()).Return(order, nil)
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
						_, args := filter.GetWhereClause()
						assert.Equal(t, "order-1", args[model.FieldOrderID])

						return true, nil
					})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "cancelled order cannot be billed",
			req:  dto.CreateBillRequest{OrderID: "order-1"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(orderModel.Order{ID: "order-1", TableNo: "T3", Status: orderModel.StatusCancelled}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "order not found",
			req:  dto.CreateBillRequest{OrderID: "missing"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any()).Return(orderModel.Order{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "insert failure",
			req:  dto.CreateBillRequest{OrderID: "order-1"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any()).Return(order, nil)
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				d.runTx()
				d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("duplicate key"))
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
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Regexp(t, `^BILL\d{12}$`, res.BillNumber)
			assert.Equal(t, "T3", res.TableNo)
			assert.True(t, decimal.NewFromInt(1000).Equal(res.Subtotal))
			assert.True(t, decimal.NewFromInt(tt.wantTotal).Equal(res.TotalAmount), res.TotalAmount.String())
			assert.True(t, decimal.NewFromInt(tt.wantAdvance).Equal(res.AdvancePayment), res.AdvancePayment.String())
			assert.True(t, decimal.NewFromInt(tt.wantRemaining).Equal(res.RemainingAmount), res.RemainingAmount.String())
			assert.Equal(t, model.PaymentStatusPending, res.PaymentStatus)
		})
	}
}

func TestBillService_ProcessPayment(t *testing.T) {
	tests := []struct {
		name       string
		paid       float64
		setupMock  func(d deps)
		wantStatus string
		wantChange int64
	}{
		{
			name: "full payment settles bill and order",
			paid: 1000,
			setupMock: func(d deps) {
				d.runTx()
				d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.orders.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
						assert.Equal(t, orderModel.StatusPaid, fields[orderModel.FieldStatus])

						where, args := filter.GetWhereClause()
						assert.Contains(t, where, "restaurant_orders.status IN")
						assert.NotContains(t, slices.Collect(maps.Values(args)), orderModel.StatusCancelled)
						assert.NotContains(t, slices.Collect(maps.Values(args)), orderModel.StatusCompleted)

						return nil
					})
				d.propagator.EXPECT().EvaluateRelease(gomock.Any(), "T3").Return(true, nil)
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, evt event.Event) { assert.Equal(t, event.TypeBillPaid, evt.Type) })
			},
			wantStatus: model.PaymentStatusPaid,
			wantChange: 30,
		},
		{
			name: "short payment stays pending",
			paid: 500,
			setupMock: func(d deps) {
				d.runTx()
				d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: model.PaymentStatusPending,
			wantChange: 0,
		},
		{
			name: "release failure does not fail payment",
			paid: 970,
			setupMock: func(d deps) {
				d.runTx()
				d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.orders.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.propagator.EXPECT().EvaluateRelease(gomock.Any(), "T3").Return(false, errors.New("table store down"))
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())
			},
			wantStatus: model.PaymentStatusPaid,
			wantChange: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)

			d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unpaid(), nil)
			tt.setupMock(d)

			res, err := d.svc.ProcessPayment(context.Background(), dto.ProcessPaymentRequest{
				PaidAmount:    tt.paid,
				PaymentMethod: model.PaymentMethodCash,
			}, "bill-1")
			time.Sleep(10 * time.Millisecond)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.PaymentStatus)
			assert.Equal(t, model.PaymentMethodCash, res.PaymentMethod)
			assert.True(t, decimal.NewFromInt(tt.wantChange).Equal(res.ChangeAmount), res.ChangeAmount.String())
			assert.True(t, decimal.NewFromInt(970).Equal(res.TotalAmount))
		})
	}

	t.Run("bill not found", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Bill{}, nil)

		_, err := d.svc.ProcessPayment(context.Background(), dto.ProcessPaymentRequest{PaidAmount: 10, PaymentMethod: model.PaymentMethodCard}, "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBillService_ProcessSplitPayment(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unpaid(), nil)
	d.runTx()
	d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
			assert.Equal(t, model.PaymentMethodSplit, fields[model.FieldPaymentMethod])

			return nil
		})
	d.orders.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.propagator.EXPECT().EvaluateRelease(gomock.Any(), "T3").Return(true, nil)
	d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())

	res, err := d.svc.ProcessSplitPayment(context.Background(), dto.ProcessSplitPaymentRequest{
		Payments: []dto.SplitPaymentRequest{
			{Method: model.PaymentMethodCash, Amount: 500},
			{Method: model.PaymentMethodUPI, Amount: 500},
		},
	}, "bill-1")
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, res.PaymentStatus)
	assert.Len(t, res.SplitPayments, 2)
	assert.True(t, decimal.NewFromInt(1000).Equal(res.PaidAmount))
	assert.True(t, decimal.NewFromInt(30).Equal(res.ChangeAmount))
}

func TestBillService_UpdateStatus(t *testing.T) {
	t.Run("pending does not touch order", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unpaid(), nil)
		d.runTx()
		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := d.svc.UpdateStatus(context.Background(), dto.UpdateBillStatusRequest{PaymentStatus: model.PaymentStatusPending}, "bill-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, res.PaymentStatus)
	})

	t.Run("paid releases table", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unpaid(), nil)
		d.runTx()
		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.orders.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.propagator.EXPECT().EvaluateRelease(gomock.Any(), "T3").Return(true, nil)
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())

		res, err := d.svc.UpdateStatus(context.Background(), dto.UpdateBillStatusRequest{PaymentStatus: model.PaymentStatusPaid}, "bill-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPaid, res.PaymentStatus)
	})
}

func TestBillService_GetAdvanceDetails(t *testing.T) {
	t.Run("with adjusted reservation", func(t *testing.T) {
		d := newDeps(t)

		bill := unpaid()
		bill.AdvancePayment = decimal.NewFromInt(500)
		bill.RemainingAmount = decimal.NewFromInt(470)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bill, nil)
		d.reservations.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(reservationModel.Reservation{
				ID:                "res-1",
				ReservationNumber: "RES202511130001",
				GuestName:         "Asha",
				AdvancePayment:    decimal.NewFromInt(500),
			}, nil)

		res, err := d.svc.GetAdvanceDetails(context.Background(), "bill-1")

		assert.NoError(t, err)
		assert.NotNil(t, res.Reservation)
		assert.Equal(t, "RES202511130001", res.Reservation.ReservationNumber)
		assert.True(t, decimal.NewFromInt(470).Equal(res.PaymentBreakdown.RemainingAmount))
	})

	t.Run("without advance skips lookup", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unpaid(), nil)

		res, err := d.svc.GetAdvanceDetails(context.Background(), "bill-1")

		assert.NoError(t, err)
		assert.Nil(t, res.Reservation)
	})
}

func TestBillService_GetAll(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	d.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Bill{unpaid()}, nil)

	res, err := d.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	assert.Equal(t, "BILL202511130001", res.Bills[0].BillNumber)
}
