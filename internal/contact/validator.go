// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/platform/phone"
)

// TagKenyanPhone is the struct tag of the phone rule.
const TagKenyanPhone = "kephone"

// Validator checks contact payloads with struct tags.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the contact rules and reports field names by their JSON tag.
func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = validate.RegisterValidation(TagKenyanPhone, func(field validator.FieldLevel) bool {
		return phone.IsValid(field.Field().String())
	})

	return &Validator{v: validate}
}

// Struct validates s and converts failures into a VALIDATION_ERROR.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return apperr.Internal(err)
	}

	details := make([]apperr.FieldError, 0, len(failures))
	for _, failure := range failures {
		details = append(details, apperr.FieldError{
			Field:   fieldPath(failure),
			Message: message(failure),
		})
	}
	return apperr.ValidationError("Validation failed", details...)
}

// fieldPath drops the struct name from the namespace: "Form.attachments[0].name" -> "attachments[0].name".
func fieldPath(failure validator.FieldError) string {
	namespace := failure.Namespace()
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return failure.Field()
}

func message(failure validator.FieldError) string {
	switch failure.Tag() {
	case "required":
		if failure.Kind() == reflect.Bool {
			return "Please agree to the privacy policy and terms of service"
		}
		return "This field is required"
	case "email":
		return "Please enter a valid email address"
	case TagKenyanPhone:
		return "Please enter a valid Kenyan phone number"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(failure.Param(), " ", ", ")
	case "min":
		return fmt.Sprintf("Minimum %s characters", failure.Param())
	case "max":
		if failure.Kind() == reflect.Slice {
			return fmt.Sprintf("Maximum %s items", failure.Param())
		}
		return fmt.Sprintf("Maximum %s characters", failure.Param())
	case "gte":
		return "Must not be negative"
	}
	return "Invalid value"
}
