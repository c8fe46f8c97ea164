// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// structValidator is safe for concurrent use and caches struct metadata.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so details match the request payload.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})

	return v
}

// Struct checks the `validate:` tags of a request DTO.
//
//	type signupRequest struct {
//		Username string `json:"username" validate:"required,max=150"`
//		Email    string `json:"email" validate:"required,email,max=254"`
//	}
func Struct(ctx context.Context, payload any) error {
	err := structValidator.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(fmt.Errorf("validate: %w", err))
	}

	details := make([]apperr.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apperr.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return apperr.ValidationError("Validation failed", details...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return "Maximum " + fe.Param() + " characters"
	case "min":
		return "Minimum " + fe.Param() + " characters"
	case "email":
		return "Must be a valid email address"
	case "gte", "lte":
		return "Out of range (" + fe.Tag() + " " + fe.Param() + ")"
	case "slug":
		return "Must be a valid slug (letters, digits, hyphens, underscores)"
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value (" + fe.Tag() + ")"
	}
}
