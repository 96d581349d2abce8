package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pos/config"
	"pos/infras/otel/mocks"
	occupancyMocks "pos/internal/domains/occupancy/mocks"
	tableMocks "pos/internal/domains/table/mocks"
	"pos/internal/domains/table/model"
	"pos/internal/domains/table/model/dto"
	"pos/internal/domains/table/service"
	cacheMocks "pos/shared/cache/mocks"
	gDto "pos/shared/dto"
	"pos/shared/event"
	eventMocks "pos/shared/event/mocks"
	"pos/shared/failure"
)

type deps struct {
	repo       *tableMocks.MockTable
	propagator *occupancyMocks.MockPropagator
	emitter    *eventMocks.MockEmitter
	svc        service.Table
}

func newDeps(t *testing.T) deps {
	ctrl := gomock.NewController(t)

	d := deps{
		repo:       tableMocks.NewMockTable(ctrl),
		propagator: occupancyMocks.NewMockPropagator(ctrl),
		emitter:    eventMocks.NewMockEmitter(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	d.svc = service.New(d.repo, d.propagator, d.emitter, cfg, mockCache, mocks.NewOtel())

	return d
}

func table5() model.Table {
	return model.Table{
		ID:          "table-5",
		TableNumber: "T5",
		Capacity:    4,
		Location:    model.LocationDining,
		Status:      model.StatusAvailable,
		IsActive:    true,
	}
}

func TestTableService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateTableRequest
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name: "success with defaults",
			req:  dto.CreateTableRequest{TableNumber: "T9", Capacity: 2},
			setupMock: func(d deps) {
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, table model.Table) error {
						assert.Equal(t, model.LocationDining, table.Location)
						assert.Equal(t, model.StatusAvailable, table.Status)
						assert.True(t, table.IsActive)

						return nil
					})
				d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, evt event.Event) { assert.Equal(t, event.TypeTableCreated, evt.Type) })
			},
		},
		{
			name:      "capacity above four",
			req:       dto.CreateTableRequest{TableNumber: "T9", Capacity: 6},
			setupMock: func(_ deps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "capacity below one",
			req:       dto.CreateTableRequest{TableNumber: "T9", Capacity: 0},
			setupMock: func(_ deps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "duplicate number",
			req:  dto.CreateTableRequest{TableNumber: "T5", Capacity: 4},
			setupMock: func(d deps) {
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
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

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.req.TableNumber, res.TableNumber)
		})
	}
}

func TestTableService_Update(t *testing.T) {
	five := 5
	three := 3

	t.Run("rejects capacity", func(t *testing.T) {
		d := newDeps(t)

		_, err := d.svc.Update(context.Background(), dto.UpdateTableRequest{Capacity: &five}, "table-5")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects renaming onto an existing number", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(table5(), nil)
		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := d.svc.Update(context.Background(), dto.UpdateTableRequest{TableNumber: "T6"}, "table-5")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("updates capacity", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(table5(), nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, &three, fields[model.FieldCapacity])
				assert.NotContains(t, fields, model.FieldStatus)

				return nil
			})
		d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any())

		res, err := d.svc.Update(context.Background(), dto.UpdateTableRequest{Capacity: &three}, "table-5")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, 3, res.Capacity)
		assert.Equal(t, "T5", res.TableNumber)
	})
}

func TestTableService_UpdateStatus(t *testing.T) {
	t.Run("by id goes through propagator", func(t *testing.T) {
		d := newDeps(t)

		occupied := table5()
		occupied.Status = model.StatusOccupied

		d.propagator.EXPECT().SetStatusByID(gomock.Any(), "table-5", model.StatusOccupied).Return(nil)
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(occupied, nil)

		res, err := d.svc.UpdateStatus(context.Background(), dto.UpdateTableStatusRequest{Status: model.StatusOccupied}, "table-5")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusOccupied, res.Status)
	})

	t.Run("by number unknown table", func(t *testing.T) {
		d := newDeps(t)

		d.propagator.EXPECT().SetStatus(gomock.Any(), "T99", model.StatusReserved).Return(failure.NotFound("table not found"))

		_, err := d.svc.UpdateStatusByNumber(context.Background(), dto.UpdateTableStatusByNumberRequest{
			TableNumber: "T99",
			Status:      model.StatusReserved,
		})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestTableService_Delete(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(table5(), nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, false, fields[model.FieldIsActive])

			return nil
		})
	d.emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, evt event.Event) { assert.Equal(t, event.TypeTableDeleted, evt.Type) })

	err := d.svc.Delete(context.Background(), "table-5")
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
}

func TestTableService_GetAll(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			where, _ := filter.GetWhereClause()
			assert.Contains(t, where, "restaurant_tables.is_active")
			assert.Contains(t, where, "restaurant_tables.location")

			return 1, nil
		})
	d.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Table, error) {
			assert.Equal(t, model.FieldTableNumber, params.SortBy)

			return []model.Table{table5()}, nil
		})

	filter := gDto.FilterGroup{Filters: []any{gDto.Filter{
		Field:    model.FieldLocation,
		Value:    model.LocationDining,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	}}}

	res, err := d.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, filter)
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, "T5", res.Tables[0].TableNumber)
}
