package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pos/config"
	"pos/infras/otel/mocks"
	s3Mocks "pos/infras/s3/mocks"
	itemMocks "pos/internal/domains/item/mocks"
	"pos/internal/domains/item/model"
	"pos/internal/domains/item/model/dto"
	"pos/internal/domains/item/service"
	cacheMocks "pos/shared/cache/mocks"
	"pos/shared/failure"
)

const bucket = "menu"

type deps struct {
	repo *itemMocks.MockItem
	s3   *s3Mocks.MockS3
	svc  service.Item
}

func newDeps(t *testing.T) deps {
	ctrl := gomock.NewController(t)

	d := deps{
		repo: itemMocks.NewMockItem(ctrl),
		s3:   s3Mocks.NewMockS3(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = bucket

	d.svc = service.New(d.repo, cfg, mockCache, mocks.NewOtel(), d.s3)

	return d
}

func naan() model.Item {
	return model.Item{
		ID:            "item-2",
		Name:          "Butter Naan",
		Price:         decimal.NewFromInt(60),
		Status:        model.StatusAvailable,
		InStock:       true,
		Image:         "https://cdn.example.com/menu/item/old.png",
		TimeToPrepare: 8,
	}
}

func TestItemService_Create(t *testing.T) {
	image := &multipart.FileHeader{Filename: "naan.png"}

	tests := []struct {
		name      string
		req       dto.CreateItemRequest
		setupMock func(d deps)
		wantImage string
		wantCode  int
	}{
		{
			name: "without image",
			req:  dto.CreateItemRequest{Name: "Butter Naan", Price: 60},
			setupMock: func(d deps) {
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item model.Item) error {
						assert.Equal(t, model.StatusAvailable, item.Status)
						assert.True(t, item.InStock)
						assert.True(t, decimal.NewFromInt(60).Equal(item.Price))

						return nil
					})
			},
		},
		{
			name: "with image",
			req:  dto.CreateItemRequest{Name: "Butter Naan", Price: 60, Image: image},
			setupMock: func(d deps) {
				d.s3.EXPECT().UploadFile(gomock.Any(), bucket, model.EntityName, gomock.Any(), image, gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ string, _ multipart.File, _ *multipart.FileHeader, name string) (string, error) {
						assert.Contains(t, name, ".png")

						return "https://cdn.example.com/menu/item/new.png", nil
					})
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantImage: "https://cdn.example.com/menu/item/new.png",
		},
		{
			name: "insert failure removes upload",
			req:  dto.CreateItemRequest{Name: "Butter Naan", Price: 60, Image: image},
			setupMock: func(d deps) {
				d.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/menu/item/new.png", nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
				d.s3.EXPECT().DeleteFile(gomock.Any(), bucket, model.EntityName, gomock.Any()).Return(nil)
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

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantImage, res.Image)
		})
	}
}

func TestItemService_Update(t *testing.T) {
	t.Run("replaces image", func(t *testing.T) {
		d := newDeps(t)
		image := &multipart.FileHeader{Filename: "naan.jpg"}

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(naan(), nil)
		d.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://cdn.example.com/menu/item/new.jpg", nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "https://cdn.example.com/menu/item/new.jpg", fields[model.FieldImage])

				return nil
			})
		d.s3.EXPECT().GetObjectNameFromURL(bucket, naan().Image).Return("item/old.png")
		d.s3.EXPECT().DeleteFile(gomock.Any(), bucket, model.EntityName, "old.png").Return(nil)

		err := d.svc.Update(context.Background(), dto.UpdateItemRequest{Image: image}, "item-2")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		d := newDeps(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Item{}, nil)

		err := d.svc.Update(context.Background(), dto.UpdateItemRequest{Name: "Garlic Naan"}, "item-9")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestItemService_Delete(t *testing.T) {
	d := newDeps(t)

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(naan(), nil)
	d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	d.s3.EXPECT().GetObjectNameFromURL(bucket, naan().Image).Return("")

	err := d.svc.Delete(context.Background(), "item-2")
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
}
