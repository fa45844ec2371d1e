// Package validator checks outgoing request payloads before they are sent,
// so obvious mistakes fail locally with per-field reasons instead of a
// backend round trip.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "fintrack/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("payment_mode", validatePaymentMode)
	return v
}

func validatePaymentMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Cash", "CreditCard", "DebitCard", "BankTransfer", "UPI", "Other":
		return true
	}
	return false
}

// Validate checks a request struct and returns an INVALID_INPUT AppError
// carrying one reason per failed field, or nil when the payload is valid.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = reason(fe)
	}
	return apperrors.WithFields(apperrors.ErrInvalidInput, fields)
}

// reason renders a short human-readable reason for one failed rule.
func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	case "payment_mode":
		return "must be one of Cash, CreditCard, DebitCard, BankTransfer, UPI, Other"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
