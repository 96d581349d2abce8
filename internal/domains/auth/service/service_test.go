package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"pos/config"
	"pos/infras/jwt"
	jwtMocks "pos/infras/jwt/mocks"
	"pos/infras/otel/mocks"
	"pos/internal/domains/auth/model/dto"
	"pos/internal/domains/auth/service"
	staffMocks "pos/internal/domains/staff/mocks"
	staffModel "pos/internal/domains/staff/model"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/failure"
	"pos/shared/password"
)

type deps struct {
	repo *staffMocks.MockStaff
	jwt  *jwtMocks.MockJWT
	svc  service.Auth
}

func newDeps(t *testing.T) deps {
	ctrl := gomock.NewController(t)

	d := deps{
		repo: staffMocks.NewMockStaff(ctrl),
		jwt:  jwtMocks.NewMockJWT(ctrl),
	}

	d.svc = service.New(d.repo, &config.Config{}, mocks.NewOtel(), d.jwt)

	return d
}

func cashier(t *testing.T, active bool) staffModel.Staff {
	hashed, err := password.Hash("password")
	assert.NoError(t, err)

	return staffModel.Staff{
		ID:       "staff-1",
		Email:    "asha@resto.in",
		Password: hashed,
		Role:     constant.RoleCashier,
		FullName: "Asha",
		Active:   active,
	}
}

func TestAuthService_Login(t *testing.T) {
	tokens := &jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer"}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "Asha@resto.in", Password: "password"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cashier(t, true), nil)
				d.jwt.EXPECT().GenerateTokenPair("staff-1", "asha@resto.in", constant.RoleCashier).Return(tokens, nil)
				d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "last login failure does not block",
			req:  dto.LoginRequest{Email: "asha@resto.in", Password: "password"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cashier(t, true), nil)
				d.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(tokens, nil)
				d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@resto.in", Password: "password"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staffModel.Staff{}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "asha@resto.in", Password: "wrong"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cashier(t, true), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "deactivated",
			req:  dto.LoginRequest{Email: "asha@resto.in", Password: "password"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cashier(t, false), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "store failure",
			req:  dto.LoginRequest{Email: "asha@resto.in", Password: "password"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staffModel.Staff{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			tt.setupMock(d)

			res, err := d.svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, constant.RoleCashier, res.Staff.Role)
		})
	}
}

func TestAuthService_Login_UpgradesLegacyHash(t *testing.T) {
	tokens := &jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer"}

	for _, legacy := range []bool{true, false} {
		d := newDeps(t)
		staff := cashier(t, true)

		if legacy {
			weak, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
			assert.NoError(t, err)

			staff.Password = string(weak)
		}

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
		d.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(tokens, nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				upgraded, ok := fields[staffModel.FieldPassword].(string)

				assert.Equal(t, legacy, ok)

				if legacy {
					assert.False(t, password.NeedsRehash(upgraded))
					assert.NoError(t, password.Verify("password", upgraded))
				}

				return nil
			})

		_, err := d.svc.Login(context.Background(), dto.LoginRequest{Email: "asha@resto.in", Password: "password"})
		assert.NoError(t, err)
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d := newDeps(t)

		d.jwt.EXPECT().RefreshTokens("valid-refresh-token").
			Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		res, err := d.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "valid-refresh-token"})

		assert.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)
	})

	t.Run("invalid", func(t *testing.T) {
		d := newDeps(t)

		d.jwt.EXPECT().RefreshTokens("bad").Return(nil, errors.New("invalid token"))

		_, err := d.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "bad"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	asStaff := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.ChangePasswordRequest
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name: "changes password",
			ctx:  asStaff,
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cashier(t, true), nil)
				d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						hashed, _ := fields[staffModel.FieldPassword].(string)
						assert.NoError(t, password.Verify("newpassword123", hashed))

						return nil
					})
			},
		},
		{
			name:      "anonymous",
			ctx:       context.Background(),
			req:       dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(d deps) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name: "not found",
			ctx:  asStaff,
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staffModel.Staff{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "wrong current password",
			ctx:  asStaff,
			req:  dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword123"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cashier(t, true), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "update failure",
			ctx:  asStaff,
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cashier(t, true), nil)
				d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			tt.setupMock(d)

			err := d.svc.ChangePassword(tt.ctx, tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
