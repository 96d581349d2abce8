package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pos/infras/otel/mocks"
	notificationMocks "pos/internal/domains/notification/mocks"
	"pos/internal/domains/notification/model"
	"pos/internal/domains/notification/model/dto"
	"pos/internal/domains/notification/service"
	orderMocks "pos/internal/domains/order/mocks"
	orderModel "pos/internal/domains/order/model"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/event"
	eventMocks "pos/shared/event/mocks"
	"pos/shared/failure"
	gModel "pos/shared/model"
)

type deps struct {
	repo    *notificationMocks.MockNotification
	orders  *orderMocks.MockOrder
	emitter *eventMocks.MockEmitter
	svc     service.Notification
}

func newDeps(t *testing.T) deps {
	ctrl := gomock.NewController(t)

	d := deps{
		repo:    notificationMocks.NewMockNotification(ctrl),
		orders:  orderMocks.NewMockOrder(ctrl),
		emitter: eventMocks.NewMockEmitter(ctrl),
	}

	d.svc = service.New(d.repo, d.orders, d.emitter, mocks.NewOtel())

	return d
}

func asWaiter(user string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, user)
}

func TestNotificationService_OrderReady(t *testing.T) {
	tests := []struct {
		name        string
		req         dto.OrderReadyRequest
		setupMock   func(d deps)
		wantMessage string
		wantCode    int
	}{
		{
			name: "default message to order creator",
			req:  dto.OrderReadyRequest{OrderID: "order-1", KOTID: "kot-1", TableNo: "T3"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(orderModel.Order{ID: "order-1", Metadata: gModel.Metadata{CreatedBy: "waiter-7"}}, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, notice model.Notification) error {
						assert.Equal(t, "waiter-7", notice.Recipient)
						assert.Equal(t, model.TypeOrderReady, notice.Type)

						return nil
					})
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, evt event.Event) { assert.Equal(t, event.TypeNotificationCreated, evt.Type) })
			},
			wantMessage: "Order for Table T3 is ready for serving",
		},
		{
			name: "custom message",
			req:  dto.OrderReadyRequest{OrderID: "order-1", TableNo: "T3", Message: "Pick up at the pass"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(orderModel.Order{ID: "order-1", Metadata: gModel.Metadata{CreatedBy: "waiter-7"}}, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())
			},
			wantMessage: "Pick up at the pass",
		},
		{
			name: "order not found",
			req:  dto.OrderReadyRequest{OrderID: "order-9", TableNo: "T3"},
			setupMock: func(d deps) {
				d.orders.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(orderModel.Order{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			tt.setupMock(d)

			res, err := d.svc.OrderReady(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantMessage, res.Message)
		})
	}
}

func TestNotificationService_Mine(t *testing.T) {
	t.Run("latest for caller", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Notification, error) {
				assert.Equal(t, model.MyNotificationsLimit, params.Limit)
				assert.Equal(t, gDto.SortDirDesc, params.SortDir)

				_, args := filter.GetWhereClause()
				assert.Equal(t, "waiter-7", args[model.FieldRecipient])

				return []model.Notification{{ID: "n-1", Recipient: "waiter-7"}}, nil
			})

		res, err := d.svc.Mine(asWaiter("waiter-7"))

		assert.NoError(t, err)
		assert.Len(t, res, 1)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		d := newDeps(t)

		_, err := d.svc.Mine(context.Background())

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Run("scoped to recipient", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
				assert.Equal(t, true, fields[model.FieldIsRead])

				_, args := filter.GetWhereClause()
				assert.Equal(t, "n-1", args[model.FieldID])
				assert.Equal(t, "waiter-7", args[model.FieldRecipient])

				return nil
			})

		assert.NoError(t, d.svc.MarkRead(asWaiter("waiter-7"), "n-1"))
	})

	t.Run("store failure", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		err := d.svc.MarkRead(asWaiter("waiter-7"), "n-1")

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}
