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
	wastageMocks "pos/internal/domains/wastage/mocks"
	"pos/internal/domains/wastage/model"
	"pos/internal/domains/wastage/model/dto"
	"pos/internal/domains/wastage/service"
	cacheMocks "pos/shared/cache/mocks"
	gDto "pos/shared/dto"
	"pos/shared/failure"
)

func newService(t *testing.T) (*wastageMocks.MockWastage, service.Wastage) {
	ctrl := gomock.NewController(t)
	repo := wastageMocks.NewMockWastage(ctrl)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

	return repo, service.New(repo, &config.Config{}, mockCache, mocks.NewOtel())
}

func TestWastageService_Create(t *testing.T) {
	req := dto.CreateWastageRequest{
		ItemName:      "Paneer",
		Category:      "Food",
		Department:    "Kitchen",
		Quantity:      1.5,
		Unit:          "kg",
		Reason:        "Spoiled",
		EstimatedCost: 420,
		ReportedBy:    "Chef Anil",
	}

	t.Run("defaults date to now", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, w model.Wastage) error {
				assert.False(t, w.Date.IsZero())
				assert.True(t, decimal.NewFromFloat(1.5).Equal(w.Quantity))

				return nil
			})

		res, err := svc.Create(context.Background(), req)
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, "Paneer", res.ItemName)
	})

	t.Run("bad date", func(t *testing.T) {
		_, svc := newService(t)

		bad := req
		bad.Date = "15/10/2026"

		_, err := svc.Create(context.Background(), bad)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestWastageService_Stats(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantWhere bool
		wantCode  int
	}{
		{name: "whole table", wantWhere: false},
		{name: "bounded range", start: "2026-10-01", end: "2026-10-15", wantWhere: true},
		{name: "one bound only", start: "2026-10-01", wantWhere: false},
		{name: "malformed", start: "2026-10-01", end: "15-10-2026", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := newService(t)

			if tt.wantCode == 0 {
				repo.EXPECT().Stats(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) ([]model.Bucket, error) {
						where, _ := filter.GetWhereClause()
						assert.Equal(t, tt.wantWhere, where != "")

						return []model.Bucket{{Department: "Kitchen", Category: "Food", Quantity: decimal.NewFromInt(2), Cost: decimal.NewFromInt(300), Records: 2}}, nil
					})
			}

			stats, err := svc.Stats(context.Background(), tt.start, tt.end)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, 2, stats.TotalRecords)
			assert.True(t, decimal.NewFromInt(300).Equal(stats.TotalCost))
		})
	}
}

func TestWastageService_Delete_NotFound(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Wastage{}, nil)

	err := svc.Delete(context.Background(), "w-9")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
