package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"pos/shared/constant"
	"pos/shared/failure"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMB = 1024 * 1024

// clockPattern only takes zero-padded HH:MM, so stored times order correctly as strings.
var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var validate *val.Validate

// fieldName reports errors with the wire name, so clients see table_no rather than TableNo.
func fieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return constant.Empty
	case constant.Empty:
		return field.Name
	}

	return name
}

// mimetypes=image/png image/jpeg checks the part header of an uploaded menu image.
func mimetypes(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	contentType := file.Header.Get(constant.RequestHeaderContentType)

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

// maxfilesize=1 limits an upload to the given number of megabytes.
func maxFileSize(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(file.Size) <= maxSizeMB*bytesPerMB
}

// clock accepts a zero-padded 24-hour time. The datetime=15:04 rule also lets "9:00" through.
func clock(field val.FieldLevel) bool {
	return clockPattern.MatchString(field.Field().String())
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)

	if err := validate.RegisterValidation("mimetypes", mimetypes); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation("maxfilesize", maxFileSize); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation("clock", clock); err != nil {
		panic(err)
	}
}

// Validate decodes a JSON body into data and validates it. Both failures are 400s.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
