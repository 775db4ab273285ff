package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxJSONBody = 1 << 20

// MaxPrice is the largest value a decimal(10,2) price column holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

var fieldLabels = map[string]string{
	"categoryId": "Category",
	"ebayUrl":    "eBay URL",
	"imageIds":   "Image IDs",
	"imageId":    "Image ID",
	"productId":  "Product ID",
}

// NewValidator reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return capitalizeFirstLetter(field)
}

func FormatValidationErrors(errs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		label := fieldLabel(err.Field())
		unit := ""
		switch err.Kind() {
		case reflect.String:
			unit = " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			unit = " item(s)"
		}

		switch err.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", label))
		case "email":
			messages = append(messages, "Must be a valid email address")
		case "url", "http_url":
			messages = append(messages, "Must be a valid URL")
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s%s", label, err.Param(), unit))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s%s", label, err.Param(), unit))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", label, err.Param()))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be %s or more", label, err.Param()))
		case "lte":
			messages = append(messages, fmt.Sprintf("%s must be %s or less", label, err.Param()))
		case "unique":
			messages = append(messages, fmt.Sprintf("%s must not contain duplicates", label))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", label))
		}
	}
	return messages
}

// ValidateStruct runs v against s and converts failures into a ValidationError.
func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(FormatValidationErrors(verrs)...)
	}
	return NewInternal(err)
}

// ValidatePrice enforces a positive amount with at most two decimal places
// that fits the price column.
func ValidatePrice(price *decimal.Decimal, required bool) []string {
	if price == nil {
		if required {
			return []string{"Price is required"}
		}
		return nil
	}
	var msgs []string
	if !price.IsPositive() {
		msgs = append(msgs, "Price must be positive")
	}
	if price.GreaterThan(MaxPrice) {
		msgs = append(msgs, "Price must be at most "+MaxPrice.StringFixed(2))
	}
	if !price.Equal(price.Round(2)) {
		msgs = append(msgs, "Price must have at most 2 decimal places")
	}
	return msgs
}

func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return NewBadRequest("Request body is required")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return NewValidationError(fmt.Sprintf("%s has the wrong type", fieldLabel(typeErr.Field)))
		}
		return NewBadRequest("Invalid request body")
	}
	return nil
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
