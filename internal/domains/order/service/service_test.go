package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pos/config"
	"pos/infras/otel/mocks"
	billMocks "pos/internal/domains/bill/mocks"
	billModel "pos/internal/domains/bill/model"
	itemMocks "pos/internal/domains/item/mocks"
	itemModel "pos/internal/domains/item/model"
	kotMocks "pos/internal/domains/kot/mocks"
	kotModel "pos/internal/domains/kot/model"
	nocMocks "pos/internal/domains/noc/mocks"
	nocModel "pos/internal/domains/noc/model"
	occupancyMocks "pos/internal/domains/occupancy/mocks"
	orderMocks "pos/internal/domains/order/mocks"
	"pos/internal/domains/order/model"
	"pos/internal/domains/order/model/dto"
	"pos/internal/domains/order/service"
	"pos/shared"
	cacheMocks "pos/shared/cache/mocks"
	"pos/shared/constant"
	"pos/shared/event"
	eventMocks "pos/shared/event/mocks"
	"pos/shared/failure"
	gModel "pos/shared/model"
	repoMocks "pos/shared/repository/mocks"
)

type deps struct {
	repo       *orderMocks.MockOrder
	kots       *kotMocks.MockKOT
	bills      *billMocks.MockBill
	items      *itemMocks.MockItem
	nocs       *nocMocks.MockNOC
	tx         *repoMocks.MockTransactor
	propagator *occupancyMocks.MockPropagator
	emitter    *eventMocks.MockEmitter
	svc        service.Order
}

func newDeps(t *testing.T) deps {
	ctrl := gomock.NewController(t)

	d := deps{
		repo:       orderMocks.NewMockOrder(ctrl),
		kots:       kotMocks.NewMockKOT(ctrl),
		bills:      billMocks.NewMockBill(ctrl),
		items:      itemMocks.NewMockItem(ctrl),
		nocs:       nocMocks.NewMockNOC(ctrl),
		tx:         repoMocks.NewMockTransactor(ctrl),
		propagator: occupancyMocks.NewMockPropagator(ctrl),
		emitter:    eventMocks.NewMockEmitter(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	d.svc = service.New(d.repo, d.kots, d.bills, d.items, d.nocs, d.tx, d.propagator, d.emitter, cfg, mockCache, mocks.NewOtel())

	return d
}

func (d deps) runTx() {
	d.tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

func itemFilter(id string) any {
	return shared.FilterByID(id, itemModel.FieldID, itemModel.TableName)
}

func orderFilter(id string) any {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestOrderService_Create(t *testing.T) {
	req := dto.CreateOrderRequest{
		StaffName: "anna",
		TableNo:   "T3",
		Items: []dto.OrderLineRequest{
			{ItemID: "item-1", Quantity: 2},
			{ItemID: "item-2"},
		},
	}

	t.Run("creates order, ticket and occupies table", func(t *testing.T) {
		d := newDeps(t)

		d.items.EXPECT().Get(gomock.Any(), itemFilter("item-1")).
			Return(itemModel.Item{ID: "item-1", Name: "Paneer Tikka", Price: dec("250"), TimeToPrepare: 15}, nil)
		d.items.EXPECT().Get(gomock.Any(), itemFilter("item-2")).
			Return(itemModel.Item{ID: "item-2", Name: "Lime Soda", Price: dec("80"), TimeToPrepare: 5}, nil)
		d.kots.EXPECT().Count(gomock.Any(), gomock.Any()).Return(6, nil)
		d.runTx()

		var inserted model.Order
		d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, order model.Order) error {
				inserted = order

				return nil
			})

		var ticket kotModel.KOT
		d.kots.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, kot kotModel.KOT) error {
				ticket = kot

				return nil
			})

		d.propagator.EXPECT().Occupy(gomock.Any(), "T3").Return(nil)

		var emitted []string
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, evt event.Event) { emitted = append(emitted, evt.Type) }).
			Times(2)

		res, err := d.svc.Create(context.Background(), req)
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.True(t, dec("580").Equal(res.Amount))
		assert.True(t, dec("580").Equal(inserted.Amount))
		assert.Equal(t, model.StatusPending, inserted.Status)

		assert.Equal(t, inserted.ID, ticket.OrderID)
		assert.Equal(t, "T3", ticket.TableNo)
		assert.Len(t, ticket.Items, 2)
		assert.Equal(t, kotModel.StatusPending, ticket.Status)
		assert.Equal(t, kotModel.PriorityNormal, ticket.Priority)
		assert.Equal(t, 15, ticket.EstimatedTime)
		assert.Regexp(t, `^KOT\d{8}007$`, ticket.KOTNumber)
		assert.True(t, dec("500").Equal(ticket.Items[0].Amount))
		assert.True(t, dec("250").Equal(ticket.Items[0].Rate))

		assert.Equal(t, []string{event.TypeNewOrder, event.TypeNewRestaurantOrder}, emitted)
	})

	t.Run("unknown item becomes zero priced placeholder", func(t *testing.T) {
		d := newDeps(t)

		d.items.EXPECT().Get(gomock.Any(), itemFilter("item-1")).Return(itemModel.Item{}, nil)
		d.items.EXPECT().Get(gomock.Any(), itemFilter("item-2")).
			Return(itemModel.Item{ID: "item-2", Name: "Lime Soda", Price: dec("80")}, nil)
		d.kots.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		d.runTx()
		d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.kots.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.propagator.EXPECT().Occupy(gomock.Any(), "T3").Return(nil)
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)

		res, err := d.svc.Create(context.Background(), req)
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, model.UnknownItemName, res.Items[0].ItemName)
		assert.True(t, res.Items[0].Price.IsZero())
		assert.True(t, dec("80").Equal(res.Amount))
	})

	t.Run("free line with unknown noc", func(t *testing.T) {
		d := newDeps(t)

		free := dto.CreateOrderRequest{
			StaffName: "anna",
			TableNo:   "T3",
			Items:     []dto.OrderLineRequest{{ItemID: "item-1", IsFree: true, NocID: "noc-9"}},
		}

		d.items.EXPECT().Get(gomock.Any(), itemFilter("item-1")).
			Return(itemModel.Item{ID: "item-1", Name: "Paneer Tikka", Price: dec("250")}, nil)
		d.nocs.EXPECT().Get(gomock.Any(), shared.FilterByID("noc-9", nocModel.FieldID, nocModel.TableName)).
			Return(nocModel.NOC{}, nil)

		_, err := d.svc.Create(context.Background(), free)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("free line is not charged", func(t *testing.T) {
		d := newDeps(t)

		free := dto.CreateOrderRequest{
			StaffName: "anna",
			TableNo:   "T3",
			Items: []dto.OrderLineRequest{
				{ItemID: "item-1", IsFree: true, NocID: "noc-1"},
				{ItemID: "item-2", Quantity: 3},
			},
		}

		d.items.EXPECT().Get(gomock.Any(), itemFilter("item-1")).
			Return(itemModel.Item{ID: "item-1", Name: "Paneer Tikka", Price: dec("250")}, nil)
		d.items.EXPECT().Get(gomock.Any(), itemFilter("item-2")).
			Return(itemModel.Item{ID: "item-2", Name: "Lime Soda", Price: dec("80")}, nil)
		d.nocs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nocModel.NOC{ID: "noc-1", Name: "GM"}, nil)
		d.kots.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		d.runTx()
		d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.kots.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.propagator.EXPECT().Occupy(gomock.Any(), "T3").Return(nil)
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)

		res, err := d.svc.Create(context.Background(), free)
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.True(t, res.Items[0].Price.IsZero())
		assert.True(t, dec("240").Equal(res.Amount))
	})

	t.Run("transaction failure", func(t *testing.T) {
		d := newDeps(t)

		d.items.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(itemModel.Item{ID: "item-1", Name: "Paneer Tikka", Price: dec("250")}, nil).
			Times(2)
		d.kots.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		d.tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := d.svc.Create(context.Background(), req)

		assert.Error(t, err)
	})

	t.Run("table propagation failure does not fail the order", func(t *testing.T) {
		d := newDeps(t)

		d.items.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(itemModel.Item{ID: "item-1", Name: "Paneer Tikka", Price: dec("250")}, nil).
			Times(2)
		d.kots.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		d.runTx()
		d.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.kots.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.propagator.EXPECT().Occupy(gomock.Any(), "T3").Return(failure.NotFound("table not found"))
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)

		_, err := d.svc.Create(context.Background(), req)
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}

func TestOrderService_AddItems(t *testing.T) {
	existing := model.Order{
		ID:      "order-1",
		TableNo: "T3",
		Status:  model.StatusRunning,
		Items: gModel.JSONList[model.Line]{
			{ItemID: "item-1", ItemName: "Paneer Tikka", Quantity: 2, Price: dec("250")},
		},
		Amount: dec("500"),
	}

	t.Run("merges lines and keeps bill in lockstep", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), orderFilter("order-1")).Return(existing, nil)
		d.items.EXPECT().Get(gomock.Any(), itemFilter("item-1")).
			Return(itemModel.Item{ID: "item-1", Name: "Paneer Tikka", Price: dec("250")}, nil)
		d.items.EXPECT().Get(gomock.Any(), itemFilter("item-2")).
			Return(itemModel.Item{ID: "item-2", Name: "Lime Soda", Price: dec("80")}, nil).
			Times(2)
		d.bills.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(billModel.Bill{ID: "bill-1", Discount: dec("50"), Tax: dec("20"), AdvancePayment: dec("100")}, nil)
		d.kots.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]kotModel.KOT{{ID: "kot-1", KOTNumber: "KOT20251113001", Items: gModel.JSONList[kotModel.Line]{{ItemID: "item-1", Quantity: 2}}}}, nil)
		d.runTx()

		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), orderFilter("order-1")).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				items, _ := fields[model.FieldItems].(gModel.JSONList[model.Line])
				assert.Len(t, items, 2)
				assert.Equal(t, 3, items[0].Quantity)

				amount, _ := fields[model.FieldAmount].(decimal.Decimal)
				assert.True(t, dec("910").Equal(amount))
				assert.True(t, model.Amount(items).Equal(amount))

				return nil
			})

		d.bills.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				subtotal, _ := fields[billModel.FieldSubtotal].(decimal.Decimal)
				total, _ := fields[billModel.FieldTotalAmount].(decimal.Decimal)
				remaining, _ := fields[billModel.FieldRemainingAmount].(decimal.Decimal)

				assert.True(t, dec("910").Equal(subtotal))
				assert.True(t, dec("880").Equal(total))
				assert.True(t, dec("780").Equal(remaining))

				return nil
			})

		d.kots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				items, _ := fields[kotModel.FieldItems].(gModel.JSONList[kotModel.Line])
				assert.Len(t, items, 4)

				return nil
			})

		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)

		res, err := d.svc.AddItems(context.Background(), dto.AddItemsRequest{
			Items: []dto.OrderLineRequest{
				{ItemID: "item-1"},
				{ItemID: "item-2"},
				{ItemID: "item-2", Quantity: 0},
			},
		}, "order-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 2, res.Items[1].Quantity)
		assert.True(t, dec("910").Equal(res.Amount))
	})

	t.Run("creates a ticket when the order has none", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		d.items.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(itemModel.Item{ID: "item-2", Name: "Lime Soda", Price: dec("80")}, nil)
		d.bills.EXPECT().Get(gomock.Any(), gomock.Any()).Return(billModel.Bill{}, nil)
		d.kots.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		d.kots.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		d.runTx()
		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.kots.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, kot kotModel.KOT) error {
				assert.Len(t, kot.Items, 1)
				assert.Equal(t, "order-1", kot.OrderID)

				return nil
			})
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)

		_, err := d.svc.AddItems(context.Background(), dto.AddItemsRequest{
			Items: []dto.OrderLineRequest{{ItemID: "item-2"}},
		}, "order-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("order not found", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Order{}, nil)

		_, err := d.svc.AddItems(context.Background(), dto.AddItemsRequest{
			Items: []dto.OrderLineRequest{{ItemID: "item-2"}},
		}, "order-1")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("unknown item is rejected", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		d.items.EXPECT().Get(gomock.Any(), gomock.Any()).Return(itemModel.Item{}, nil)

		_, err := d.svc.AddItems(context.Background(), dto.AddItemsRequest{
			Items: []dto.OrderLineRequest{{ItemID: "missing"}},
		}, "order-1")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestOrderService_TransferTable(t *testing.T) {
	existing := model.Order{ID: "order-1", TableNo: "T3", Status: model.StatusRunning}

	tests := []struct {
		name      string
		req       dto.TransferTableRequest
		setupMock func(d deps)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "moves order, tickets and bills",
			req:  dto.TransferTableRequest{NewTableNo: "T7"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				d.runTx()
				d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						history, _ := fields[model.FieldTransferHistory].(gModel.JSONList[model.Transfer])
						assert.Len(t, history, 1)
						assert.Equal(t, "T3", history[0].FromTable)
						assert.Equal(t, "T7", history[0].ToTable)
						assert.Equal(t, model.DefaultTransferReason, history[0].Reason)
						assert.Equal(t, constant.SystemUser, history[0].TransferredBy)

						return nil
					})
				d.kots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.bills.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.propagator.EXPECT().SetStatus(gomock.Any(), "T3", "available").Return(nil)
				d.propagator.EXPECT().Occupy(gomock.Any(), "T7").Return(nil)
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)
			},
		},
		{
			name: "custom vacated status",
			req:  dto.TransferTableRequest{NewTableNo: "T7", Reason: "AC broken", OldTableStatus: "maintenance"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				d.runTx()
				d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.kots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.bills.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.propagator.EXPECT().SetStatus(gomock.Any(), "T3", "maintenance").Return(nil)
				d.propagator.EXPECT().Occupy(gomock.Any(), "T7").Return(nil)
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)
			},
		},
		{
			name: "same table",
			req:  dto.TransferTableRequest{NewTableNo: "T3"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "cascade failure rolls back",
			req:  dto.TransferTableRequest{NewTableNo: "T7"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				d.runTx()
				d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				d.kots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			tt.setupMock(d)

			res, err := d.svc.TransferTable(context.Background(), tt.req, "order-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "T7", res.TableNo)
			assert.Len(t, res.TransferHistory, 1)
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	existing := model.Order{ID: "order-1", TableNo: "T5", Status: model.StatusRunning}

	t.Run("served evaluates release", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		d.runTx()
		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.propagator.EXPECT().EvaluateRelease(gomock.Any(), "T5").Return(true, nil)
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)

		res, err := d.svc.UpdateStatus(context.Background(), dto.UpdateOrderStatusRequest{Status: model.StatusServed}, "order-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusServed, res.Status)
	})

	t.Run("cancelled cascades to tickets", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		d.runTx()
		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.kots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, kotModel.StatusCancelled, fields[kotModel.FieldStatus])

				return nil
			})
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)

		_, err := d.svc.UpdateStatus(context.Background(), dto.UpdateOrderStatusRequest{Status: model.StatusCancelled}, "order-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("running does not touch the table", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		d.runTx()
		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)

		_, err := d.svc.UpdateStatus(context.Background(), dto.UpdateOrderStatusRequest{Status: model.StatusRunning}, "order-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("moving backward is rejected", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Order{ID: "order-1", TableNo: "T5", Status: model.StatusPaid}, nil)

		_, err := d.svc.UpdateStatus(context.Background(), dto.UpdateOrderStatusRequest{Status: model.StatusPending}, "order-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("cancelled order stays cancelled", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Order{ID: "order-1", TableNo: "T5", Status: model.StatusCancelled}, nil)

		_, err := d.svc.UpdateStatus(context.Background(), dto.UpdateOrderStatusRequest{Status: model.StatusServed}, "order-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("re-issuing served succeeds", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Order{ID: "order-1", TableNo: "T5", Status: model.StatusServed}, nil)
		d.runTx()
		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.propagator.EXPECT().EvaluateRelease(gomock.Any(), "T5").Return(false, nil)
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)

		res, err := d.svc.UpdateStatus(context.Background(), dto.UpdateOrderStatusRequest{Status: model.StatusServed}, "order-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusServed, res.Status)
	})

	t.Run("release failure is not surfaced", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		d.runTx()
		d.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.propagator.EXPECT().EvaluateRelease(gomock.Any(), "T5").Return(false, errors.New("db down"))
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2)

		_, err := d.svc.UpdateStatus(context.Background(), dto.UpdateOrderStatusRequest{Status: model.StatusPaid}, "order-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}

func TestOrderService_RecordTransaction(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(model.Order{ID: "order-1", Status: model.StatusServed, Amount: dec("500")}, nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.NotContains(t, fields, model.FieldStatus)
			assert.NotContains(t, fields, model.FieldAmount)

			return nil
		})
	d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())

	res, err := d.svc.RecordTransaction(context.Background(), dto.AddTransactionRequest{Amount: 200, Method: "upi", BillID: "bill-1"}, "order-1")
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusServed, res.Status)
	assert.Len(t, res.TransactionHistory, 1)
	assert.Equal(t, constant.SystemUser, res.TransactionHistory[0].ProcessedBy)
	assert.True(t, dec("200").Equal(res.TransactionHistory[0].Amount))
}

func TestOrderService_GetDetails(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Order{
		ID:    "order-1",
		Items: gModel.JSONList[model.Line]{{ItemID: "item-1", ItemName: "Paneer Tikka", Quantity: 3, Price: dec("250")}},
	}, nil)
	d.kots.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]kotModel.KOT{
		{KOTNumber: "KOT20251113001", Items: gModel.JSONList[kotModel.Line]{{ItemName: "Paneer Tikka", Quantity: 2, Rate: dec("250"), Amount: dec("500")}}},
		{KOTNumber: "KOT20251113002", Items: gModel.JSONList[kotModel.Line]{{ItemName: "Paneer Tikka", Quantity: 1, Rate: dec("250"), Amount: dec("250")}}},
	}, nil)

	res, err := d.svc.GetDetails(context.Background(), "order-1")

	assert.NoError(t, err)
	assert.Equal(t, 2, res.KOTCount)
	assert.Len(t, res.AllKOTItems, 2)
	assert.Equal(t, "KOT20251113002", res.AllKOTItems[1].KOTNumber)
	assert.True(t, dec("750").Equal(res.Items[0].Total))
}

func TestOrderService_GenerateInvoice(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Order{
		ID:       "order-1",
		TableNo:  "T3",
		Discount: dec("10"),
	}, nil)
	d.kots.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]kotModel.KOT{
		{
			KOTNumber: "KOT20251113001",
			Items: gModel.JSONList[kotModel.Line]{
				{ItemID: "item-1", ItemName: "Paneer Tikka", Quantity: 2, Rate: dec("200")},
				{ItemID: "item-2", ItemName: "Lime Soda", Quantity: 1, Rate: dec("0"), IsFree: true},
			},
		},
	}, nil)
	d.items.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), itemModel.FieldID, itemModel.FieldDiscount).
		Return([]itemModel.Item{{ID: "item-1", Discount: dec("5")}}, nil)

	res, err := d.svc.GenerateInvoice(context.Background(), "order-1")

	assert.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.True(t, dec("190").Equal(res.Items[0].FinalPrice))
	assert.True(t, dec("380").Equal(res.Items[0].Total))
	assert.True(t, res.Items[1].Total.IsZero())
	assert.True(t, dec("380").Equal(res.Subtotal))
	assert.True(t, dec("38").Equal(res.OrderDiscountAmount))
	assert.True(t, dec("342").Equal(res.FinalAmount))
	assert.Equal(t, 1, res.KOTCount)
}
