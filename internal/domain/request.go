package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidLookup wraps every request validation failure.
var ErrInvalidLookup = errors.New("invalid lookup request")

// PropertyLookupRequest is the inbound shape for a property enrichment, used
// by both the HTTP API and the bulk pipeline.
type PropertyLookupRequest struct {
	RequestID string `json:"request_id,omitempty" validate:"omitempty,max=64"`
	Address   string `json:"address" validate:"required,max=200"`
	City      string `json:"city" validate:"omitempty,max=100"`
	State     string `json:"state" validate:"omitempty,len=2,alpha"`
	Zip       string `json:"zip" validate:"omitempty,zipcode"`
}

// ClimateLookupRequest is the inbound shape for a ZIP climate lookup.
type ClimateLookupRequest struct {
	Zip string `json:"zip" validate:"required,zipcode"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Accept ZIP or ZIP+4; normalization strips the suffix later.
		_ = validate.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
			zip := strings.TrimSpace(fl.Field().String())
			return len(NormalizeZip(zip)) == 5 && (len(zip) == 5 || (len(zip) == 10 && zip[5] == '-' && len(NormalizeZip(zip[6:])) == 4))
		})
	})
	return validate
}

// Validate checks a property lookup request.
func (r PropertyLookupRequest) Validate() error {
	return validateStruct(r)
}

// Validate checks a climate lookup request.
func (r ClimateLookupRequest) Validate() error {
	return validateStruct(r)
}

func validateStruct(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return fmt.Errorf("%w: field %s failed %q", ErrInvalidLookup, strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidLookup, err)
}
