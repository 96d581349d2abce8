package dto

import (
	"pos/internal/domains/noc/model"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"

	"github.com/google/uuid"
)

type CreateNOCRequest struct {
	Name          string `json:"name"           validate:"required,max=100"`
	AuthorityType string `json:"authority_type" validate:"required,oneof=gm manager other"`
}

// ToModel always grants a full waiver.
func (c *CreateNOCRequest) ToModel(user string) model.NOC {
	now := timezone.Now()

	return model.NOC{
		ID:               uuid.NewString(),
		Name:             c.Name,
		AuthorityType:    c.AuthorityType,
		IsCompletelyFree: true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateNOCRequest struct {
	Name             string `db:"name"               json:"name"               validate:"omitempty,max=100"`
	AuthorityType    string `db:"authority_type"     json:"authority_type"     validate:"omitempty,oneof=gm manager other"`
	IsCompletelyFree *bool  `db:"is_completely_free" json:"is_completely_free" validate:"omitempty"`
}

type NOCResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AuthorityType    string `json:"authority_type"`
	IsCompletelyFree bool   `json:"is_completely_free"`
	gDto.Metadata
}

func (r *NOCResponse) FromModel(mod model.NOC) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.AuthorityType = mod.AuthorityType
	r.IsCompletelyFree = mod.IsCompletelyFree
	r.Metadata.FromModel(mod.Metadata)
}

func FromModels(models []model.NOC) []NOCResponse {
	res := make([]NOCResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
