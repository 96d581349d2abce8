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
	staffMocks "pos/internal/domains/staff/mocks"
	"pos/internal/domains/staff/model"
	"pos/internal/domains/staff/model/dto"
	"pos/internal/domains/staff/service"
	cacheMocks "pos/shared/cache/mocks"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/failure"
	"pos/shared/password"
)

func newService(t *testing.T) (*staffMocks.MockStaff, service.Staff) {
	ctrl := gomock.NewController(t)
	repo := staffMocks.NewMockStaff(ctrl)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

	return repo, service.New(repo, &config.Config{}, mockCache, mocks.NewOtel())
}

func asAdmin(id string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, id)
}

func TestStaffService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *staffMocks.MockStaff)
		wantCode  int
	}{
		{
			name: "hashes password and lower-cases email",
			setupMock: func(repo *staffMocks.MockStaff) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, staff model.Staff) error {
						assert.Equal(t, "asha@resto.in", staff.Email)
						assert.Equal(t, constant.RoleWaiter, staff.Role)
						assert.True(t, staff.Active)
						assert.NoError(t, password.Verify("secret123", staff.Password))
						assert.Equal(t, "admin-1", staff.CreatedBy)

						return nil
					})
			},
		},
		{
			name: "email taken",
			setupMock: func(repo *staffMocks.MockStaff) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := newService(t)
			tt.setupMock(repo)

			req := dto.CreateStaffRequest{Email: " Asha@Resto.in", Password: "secret123", FullName: "Asha", Role: constant.RoleWaiter}

			res, err := svc.Create(asAdmin("admin-1"), req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "asha@resto.in", res.Email)
		})
	}
}

func TestStaffService_Update(t *testing.T) {
	t.Run("email check excludes self", func(t *testing.T) {
		repo, svc := newService(t)

		gomock.InOrder(
			repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
			repo.EXPECT().Exist(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
					where, _ := filter.GetWhereClause()
					assert.Contains(t, where, "staff.id != :id")

					return false, nil
				}),
		)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "new@resto.in", fields[model.FieldEmail])

				return nil
			})

		err := svc.Update(asAdmin("admin-1"), dto.UpdateStaffRequest{Email: "New@resto.in"}, "staff-2")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("empty request", func(t *testing.T) {
		_, svc := newService(t)

		err := svc.Update(asAdmin("admin-1"), dto.UpdateStaffRequest{}, "staff-2")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Update(asAdmin("admin-1"), dto.UpdateStaffRequest{Role: constant.RoleChef}, "staff-9")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestStaffService_Delete(t *testing.T) {
	t.Run("own account", func(t *testing.T) {
		_, svc := newService(t)

		err := svc.Delete(asAdmin("admin-1"), "admin-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("deletes", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Delete(asAdmin("admin-1"), "staff-2")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}

func TestStaffService_Me(t *testing.T) {
	t.Run("current staff", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Staff{ID: "staff-2", Role: constant.RoleCashier}, nil)

		res, err := svc.Me(asAdmin("staff-2"))
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, constant.RoleCashier, res.Role)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, svc := newService(t)

		_, err := svc.Me(context.Background())

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}
