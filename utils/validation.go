package utils

import (
	"regexp"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/go-playground/validator/v10"
)

var pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// Validator adapts go-playground/validator to echo's Validator interface
// and translates the first failure into a field-level validation error.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodeRegex.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return apperr.Validation(fe.Field(), validationMessage(fe))
	}
	return apperr.Validation("", "invalid request body")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "cannot be more than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "cannot exceed " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "pincode":
		return "must be a valid pincode"
	default:
		return "is invalid"
	}
}
