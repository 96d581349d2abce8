package dto

import (
	"mime/multipart"

	"pos/internal/domains/item/model"
	"pos/shared"
	gDto "pos/shared/dto"
	gModel "pos/shared/model"
	"pos/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateItemRequest struct {
	Name          string                `json:"name"            validate:"required,max=100"`
	Price         float64               `json:"price"           validate:"gte=0"`
	Category      string                `json:"category"        validate:"omitempty,max=100"`
	Discount      float64               `json:"discount"        validate:"gte=0,lte=100"`
	Status        string                `json:"status"          validate:"omitempty,oneof=available unavailable"`
	InStock       *bool                 `json:"in_stock"        validate:"omitempty"`
	Description   string                `json:"description"     validate:"omitempty,max=500"`
	TimeToPrepare int                   `json:"time_to_prepare" validate:"gte=0"`
	Image         *multipart.FileHeader `json:"image"           validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
}

func (c *CreateItemRequest) ToModel(user, imageURL string) model.Item {
	inStock := true
	if c.InStock != nil {
		inStock = *c.InStock
	}

	status := c.Status
	if status == "" {
		status = model.StatusAvailable
	}

	now := timezone.Now()

	return model.Item{
		ID:            uuid.NewString(),
		Name:          c.Name,
		Price:         decimal.NewFromFloat(c.Price),
		Category:      c.Category,
		Discount:      decimal.NewFromFloat(c.Discount),
		Status:        status,
		InStock:       inStock,
		Image:         imageURL,
		Description:   c.Description,
		TimeToPrepare: c.TimeToPrepare,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateItemRequest struct {
	Name          string                `db:"name"            json:"name"            validate:"omitempty,max=100"`
	Price         *float64              `db:"price"           json:"price"           validate:"omitempty,gte=0"`
	Category      string                `db:"category"        json:"category"        validate:"omitempty,max=100"`
	Discount      *float64              `db:"discount"        json:"discount"        validate:"omitempty,gte=0,lte=100"`
	Status        string                `db:"status"          json:"status"          validate:"omitempty,oneof=available unavailable"`
	InStock       *bool                 `db:"in_stock"        json:"in_stock"        validate:"omitempty"`
	Description   string                `db:"description"     json:"description"     validate:"omitempty,max=500"`
	TimeToPrepare *int                  `db:"time_to_prepare" json:"time_to_prepare" validate:"omitempty,gte=0"`
	Image         *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
}

type ItemResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	Discount      decimal.Decimal `json:"discount"`
	Status        string          `json:"status"`
	InStock       bool            `json:"in_stock"`
	Image         string          `json:"image"`
	Description   string          `json:"description"`
	TimeToPrepare int             `json:"time_to_prepare"`
	gDto.Metadata
}

func (r *ItemResponse) FromModel(mod model.Item) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Price = mod.Price
	r.Category = mod.Category
	r.Discount = mod.Discount
	r.Status = mod.Status
	r.InStock = mod.InStock
	r.Image = mod.Image
	r.Description = mod.Description
	r.TimeToPrepare = mod.TimeToPrepare
	r.Metadata.FromModel(mod.Metadata)
}

type GetItemsResponse struct {
	Items     []ItemResponse `json:"items"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetItemsResponse) FromModels(models []model.Item, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Items = make([]ItemResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}
