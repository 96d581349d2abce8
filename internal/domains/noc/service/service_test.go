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
	nocMocks "pos/internal/domains/noc/mocks"
	"pos/internal/domains/noc/model"
	"pos/internal/domains/noc/model/dto"
	"pos/internal/domains/noc/service"
	cacheMocks "pos/shared/cache/mocks"
	"pos/shared/failure"
)

func newService(t *testing.T) (*nocMocks.MockNOC, service.NOC) {
	ctrl := gomock.NewController(t)
	repo := nocMocks.NewMockNOC(ctrl)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

	return repo, service.New(repo, &config.Config{}, mockCache, mocks.NewOtel())
}

func TestNOCService_Create(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, noc model.NOC) error {
			assert.True(t, noc.IsCompletelyFree)

			return nil
		})

	res, err := svc.Create(context.Background(), dto.CreateNOCRequest{Name: "Owner guest", AuthorityType: model.AuthorityGM})
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, model.AuthorityGM, res.AuthorityType)
}

func TestNOCService_Update(t *testing.T) {
	no := false

	tests := []struct {
		name     string
		current  model.NOC
		wantCode int
	}{
		{name: "partial waiver", current: model.NOC{ID: "noc-1", Name: "Owner guest", AuthorityType: model.AuthorityGM, IsCompletelyFree: true}},
		{name: "not found", current: model.NOC{}, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := newService(t)

			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)

			if tt.wantCode == 0 {
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := svc.Update(context.Background(), dto.UpdateNOCRequest{IsCompletelyFree: &no}, "noc-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.False(t, res.IsCompletelyFree)
			assert.Equal(t, "Owner guest", res.Name)
		})
	}
}

func TestNOCService_GetAll(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.NOC{{ID: "noc-1"}, {ID: "noc-2"}}, nil)

	res, err := svc.GetAll(context.Background())
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Len(t, res, 2)
}
