package service

import (
	"context"
	"fmt"
	"strings"

	"pos/config"
	"pos/infras/jwt"
	"pos/infras/otel"
	"pos/internal/domains/auth/model/dto"
	staffModel "pos/internal/domains/staff/model"
	staffRepo "pos/internal/domains/staff/repository"
	"pos/shared"
	"pos/shared/constant"
	"pos/shared/failure"
	"pos/shared/password"
	"pos/shared/timezone"

	"github.com/rs/zerolog/log"
)

const msgInvalidCredentials = "invalid email or password"

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
}

type serviceImpl struct {
	staffRepo  staffRepo.Staff
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(staffRepo staffRepo.Staff, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		staffRepo:  staffRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	filter := shared.FilterBy(staffModel.FieldEmail, email, staffModel.TableName)

	staff, err := s.staffRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == constant.Empty {
		log.Warn().Str("email", email).Msg("login attempt with unknown email")

		return res, failure.BadRequestFromString(msgInvalidCredentials)
	}

	if err = password.Verify(req.Password, staff.Password); err != nil {
		log.Warn().Str("email", email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString(msgInvalidCredentials)
	}

	if !staff.Active {
		return res, failure.Forbidden("staff account is deactivated")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(staff.ID, staff.Email, staff.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := timezone.Now()
	fields := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: now, Password: rehash(req.Password, staff.Password)}, staff.ID)

	if err := s.staffRepo.Update(ctx, fields, shared.FilterByID(staff.ID, staffModel.FieldID, staffModel.TableName)); err != nil {
		log.Warn().Err(err).Str("staff", staff.ID).Msg("failed to update last login")
	} else {
		staff.LastLogin = &now
	}

	res.FromTokenPair(tokenPair)
	res.Staff.FromModel(staff)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token")
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

// ChangePassword acts on the authenticated staff member only.
func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	staffID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if staffID == constant.Empty {
		return failure.Unauthorized("user not authenticated")
	}

	filter := shared.FilterByID(staffID, staffModel.FieldID, staffModel.TableName)

	staff, err := s.staffRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == constant.Empty {
		return failure.NotFound("staff not found")
	}

	if err = password.Verify(req.CurrentPassword, staff.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err = s.staffRepo.Update(ctx, shared.TransformFields(dto.UpdatePasswordRequest{Password: hashed}, staffID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// rehash returns a fresh hash when the stored one uses an outdated cost, or "" to leave it alone.
func rehash(plain, hashed string) string {
	if !password.NeedsRehash(hashed) {
		return constant.Empty
	}

	upgraded, err := password.Hash(plain)
	if err != nil {
		log.Warn().Err(err).Msg("failed to upgrade password hash")

		return constant.Empty
	}

	return upgraded
}
