package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pos/internal/domains/order/model"
)

func TestPriceLine(t *testing.T) {
	tests := []struct {
		name      string
		rate      int64
		discount  int64
		quantity  int
		isFree    bool
		wantPrice int64
		wantTotal int64
	}{
		{name: "discounted line", rate: 200, discount: 5, quantity: 2, wantPrice: 190, wantTotal: 380},
		{name: "no discount", rate: 120, quantity: 3, wantPrice: 120, wantTotal: 360},
		{name: "free line keeps its price but totals zero", rate: 80, discount: 10, quantity: 1, isFree: true, wantPrice: 72, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, total := model.PriceLine(decimal.NewFromInt(tt.rate), decimal.NewFromInt(tt.discount), tt.quantity, tt.isFree)

			assert.True(t, decimal.NewFromInt(tt.wantPrice).Equal(price), price.String())
			assert.True(t, decimal.NewFromInt(tt.wantTotal).Equal(total), total.String())
		})
	}
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{name: "forward", from: model.StatusPending, to: model.StatusRunning},
		{name: "skip ahead", from: model.StatusRunning, to: model.StatusPaid},
		{name: "same status again", from: model.StatusServed, to: model.StatusServed},
		{name: "cancel running order", from: model.StatusRunning, to: model.StatusCancelled},
		{name: "paid back to pending", from: model.StatusPaid, to: model.StatusPending, wantErr: true},
		{name: "served back to running", from: model.StatusServed, to: model.StatusRunning, wantErr: true},
		{name: "cancelled is final", from: model.StatusCancelled, to: model.StatusPaid, wantErr: true},
		{name: "completed is final", from: model.StatusCompleted, to: model.StatusCancelled, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := model.ValidateTransition(tt.from, tt.to)

			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidTransition)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestPayableFrom(t *testing.T) {
	payable := model.PayableFrom()

	assert.Contains(t, payable, model.StatusServed)
	assert.Contains(t, payable, model.StatusPaid)
	assert.NotContains(t, payable, model.StatusCancelled)
	assert.NotContains(t, payable, model.StatusCompleted)
}
