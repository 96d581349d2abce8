package dto

import (
	"strings"
	"time"

	"pos/internal/domains/staff/model"
	"pos/shared"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"

	"github.com/google/uuid"
)

type CreateStaffRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Role     string `json:"role"      validate:"required,oneof=admin manager waiter chef cashier sales"`
}

func (r *CreateStaffRequest) ToModel(user, hashedPassword string) model.Staff {
	now := timezone.Now()

	return model.Staff{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Password: hashedPassword,
		Role:     r.Role,
		FullName: r.FullName,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateStaffRequest is used by admins; email changes go through a uniqueness check.
type UpdateStaffRequest struct {
	Email    string `db:"email"     json:"email"     validate:"omitempty,email"`
	FullName string `db:"full_name" json:"full_name" validate:"omitempty,min=2,max=100"`
	Role     string `db:"role"      json:"role"      validate:"omitempty,oneof=admin manager waiter chef cashier sales"`
	Active   *bool  `db:"active"    json:"active"`
}

type StaffResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
	LastLogin *string `json:"last_login"`
	gDto.Metadata
}

func (r *StaffResponse) FromModel(staff model.Staff) {
	r.ID = staff.ID
	r.Email = staff.Email
	r.FullName = staff.FullName
	r.Role = staff.Role
	r.Active = staff.Active
	r.Metadata.FromModel(staff.Metadata)

	if staff.LastLogin != nil {
		lastLogin := timezone.Format(*staff.LastLogin, time.RFC3339)
		r.LastLogin = &lastLogin
	}
}

type GetStaffResponse struct {
	Staff     []StaffResponse `json:"staff"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetStaffResponse) FromModels(models []model.Staff, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Staff = make([]StaffResponse, len(models))
	for i, staff := range models {
		r.Staff[i].FromModel(staff)
	}
}
