package validator_test

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pos/shared/failure"
	"pos/shared/validator"
)

type orderLine struct {
	ItemID   string `json:"item_id"  validate:"required"`
	Quantity int    `json:"quantity" validate:"omitempty,gte=1"`
}

type orderRequest struct {
	StaffName string      `json:"staff_name" validate:"required,max=100"`
	TableNo   string      `json:"table_no"   validate:"required,max=20"`
	Items     []orderLine `json:"items"      validate:"required,min=1,dive"`
	Discount  float64     `json:"discount"   validate:"omitempty,gte=0,lte=100"`
	Status    string      `json:"status"     validate:"omitempty,oneof=pending running served"`
	Internal  string      `json:"-"`
}

type slotRequest struct {
	TimeIn string `json:"time_in" validate:"required,clock"`
}

type imageRequest struct {
	Image *multipart.FileHeader `json:"image" validate:"omitempty,mimetypes=image/png image/jpeg,maxfilesize=1"`
}

func header(contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)

	return &multipart.FileHeader{Filename: "paneer.png", Header: h, Size: size}
}

func TestValidateStruct(t *testing.T) {
	valid := orderRequest{StaffName: "Ravi", TableNo: "T3", Items: []orderLine{{ItemID: "item-1", Quantity: 2}}}

	tests := []struct {
		name    string
		mutate  func(r *orderRequest)
		wantMsg string
	}{
		{name: "valid", mutate: func(_ *orderRequest) {}},
		{name: "missing staff", mutate: func(r *orderRequest) { r.StaffName = "" }, wantMsg: "staff_name is required"},
		{name: "missing table", mutate: func(r *orderRequest) { r.TableNo = "" }, wantMsg: "table_no is required"},
		{name: "no lines", mutate: func(r *orderRequest) { r.Items = []orderLine{} }, wantMsg: "items must be at least 1"},
		{name: "line without item", mutate: func(r *orderRequest) { r.Items = []orderLine{{Quantity: 1}} }, wantMsg: "item_id is required"},
		{name: "discount above 100", mutate: func(r *orderRequest) { r.Discount = 120 }, wantMsg: "discount must be less than or equal to 100"},
		{name: "unknown status", mutate: func(r *orderRequest) { r.Status = "eaten" }, wantMsg: "status must be one of pending running served"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"time_in":"19:30"}`},
		{name: "bad clock", body: `{"time_in":"7.30pm"}`, wantErr: true},
		{name: "unpadded hour", body: `{"time_in":"9:00"}`, wantErr: true},
		{name: "hour out of range", body: `{"time_in":"24:00"}`, wantErr: true},
		{name: "missing field", body: `{}`, wantErr: true},
		{name: "malformed json", body: `{"time_in":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req slotRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "19:30", req.TimeIn)
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2025-11-13", "required,datetime=2006-01-02"))

	err := validator.ValidateVar("13/11/2025", "required,datetime=2006-01-02")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	err = validator.ValidateVar("", "required")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestImageValidation(t *testing.T) {
	tests := []struct {
		name    string
		image   *multipart.FileHeader
		wantErr bool
	}{
		{name: "no image", image: nil},
		{name: "small png", image: header("image/png", 200*1024)},
		{name: "gif rejected", image: header("image/gif", 1024), wantErr: true},
		{name: "too large", image: header("image/jpeg", 2*1024*1024), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&imageRequest{Image: tt.image})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "image")

				return
			}

			assert.NoError(t, err)
		})
	}
}
