package dto

import (
	"strings"

	"pos/internal/domains/invoice/model"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"

	"github.com/google/uuid"
)

type ClientDetails struct {
	Name     string `json:"name"      validate:"omitempty,max=100"`
	Address  string `json:"address"   validate:"omitempty,max=255"`
	City     string `json:"city"      validate:"omitempty,max=100"`
	Company  string `json:"company"   validate:"omitempty,max=100"`
	MobileNo string `json:"mobile_no" validate:"omitempty,max=20"`
	GSTIN    string `json:"gstin"     validate:"omitempty,max=15"`
}

type SaveInvoiceRequest struct {
	OrderID       string        `json:"order_id"       validate:"required"`
	ClientDetails ClientDetails `json:"client_details"`
}

// ToModel trims every client field and upper-cases the GSTIN.
func (s *SaveInvoiceRequest) ToModel(user string) model.Invoice {
	now := timezone.Now()
	client := s.ClientDetails

	return model.Invoice{
		ID:            uuid.NewString(),
		OrderID:       s.OrderID,
		ClientName:    strings.TrimSpace(client.Name),
		ClientAddress: strings.TrimSpace(client.Address),
		ClientCity:    strings.TrimSpace(client.City),
		ClientCompany: strings.TrimSpace(client.Company),
		ClientMobile:  strings.TrimSpace(client.MobileNo),
		ClientGSTIN:   strings.ToUpper(strings.TrimSpace(client.GSTIN)),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type InvoiceResponse struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"order_id"`
	ClientDetails ClientDetails `json:"client_details"`
	gDto.Metadata
}

func (r *InvoiceResponse) FromModel(mod model.Invoice) {
	r.ID = mod.ID
	r.OrderID = mod.OrderID
	r.ClientDetails = ClientDetails{
		Name:     mod.ClientName,
		Address:  mod.ClientAddress,
		City:     mod.ClientCity,
		Company:  mod.ClientCompany,
		MobileNo: mod.ClientMobile,
		GSTIN:    mod.ClientGSTIN,
	}
	r.Metadata.FromModel(mod.Metadata)
}
