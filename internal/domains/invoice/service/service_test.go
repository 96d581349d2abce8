package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pos/infras/otel/mocks"
	invoiceMocks "pos/internal/domains/invoice/mocks"
	"pos/internal/domains/invoice/model"
	"pos/internal/domains/invoice/model/dto"
	"pos/internal/domains/invoice/service"
	orderMocks "pos/internal/domains/order/mocks"
	"pos/shared/failure"
)

func TestInvoiceService_Save(t *testing.T) {
	req := dto.SaveInvoiceRequest{
		OrderID: "order-1",
		ClientDetails: dto.ClientDetails{
			Name:  " Acme Foods ",
			GSTIN: "27aapfu0939f1zv",
		},
	}

	tests := []struct {
		name      string
		setupMock func(repo *invoiceMocks.MockInvoice, orders *orderMocks.MockOrder)
		wantCode  int
	}{
		{
			name: "upserts with normalised client",
			setupMock: func(repo *invoiceMocks.MockInvoice, orders *orderMocks.MockOrder) {
				orders.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, invoice model.Invoice) error {
						assert.Equal(t, "Acme Foods", invoice.ClientName)
						assert.Equal(t, "27AAPFU0939F1ZV", invoice.ClientGSTIN)

						return nil
					})
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Invoice{ID: "inv-1", OrderID: "order-1", ClientName: "Acme Foods", ClientGSTIN: "27AAPFU0939F1ZV"}, nil)
			},
		},
		{
			name: "unknown order",
			setupMock: func(_ *invoiceMocks.MockInvoice, orders *orderMocks.MockOrder) {
				orders.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := invoiceMocks.NewMockInvoice(ctrl)
			orders := orderMocks.NewMockOrder(ctrl)
			tt.setupMock(repo, orders)

			res, err := service.New(repo, orders, mocks.NewOtel()).Save(context.Background(), req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "inv-1", res.ID)
			assert.Equal(t, "27AAPFU0939F1ZV", res.ClientDetails.GSTIN)
		})
	}
}

func TestInvoiceService_GetByOrder_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := invoiceMocks.NewMockInvoice(ctrl)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invoice{}, nil)

	_, err := service.New(repo, orderMocks.NewMockOrder(ctrl), mocks.NewOtel()).GetByOrder(context.Background(), "order-9")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
