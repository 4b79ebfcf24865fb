package ordering

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/guttosm/print-order-service/internal/domain/model"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	phoneSeparators = regexp.MustCompile(`[\s-]`)
)

// CustomerValidator checks customer details before they enter a draft.
type CustomerValidator struct {
	validate *validator.Validate
}

// NewCustomerValidator builds a validator with the phone and basic_email rules.
func NewCustomerValidator() *CustomerValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(phoneSeparators.ReplaceAllString(fl.Field().String(), ""))
	})
	return &CustomerValidator{validate: v}
}

// Validate trims every field and checks it. On failure it returns
// model.FieldErrors naming only the offending fields.
func (cv *CustomerValidator) Validate(info model.CustomerInfo) (model.CustomerInfo, error) {
	info = model.CustomerInfo{
		Name:   strings.TrimSpace(info.Name),
		Email:  strings.TrimSpace(info.Email),
		Phone:  strings.TrimSpace(info.Phone),
		Course: strings.TrimSpace(info.Course),
		Class:  strings.TrimSpace(info.Class),
	}

	err := cv.validate.Struct(info)
	if err == nil {
		return info, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return info, fmt.Errorf("validate customer: %w", err)
	}
	return info, formatValidationErrors(verrs)
}

func formatValidationErrors(verrs validator.ValidationErrors) model.FieldErrors {
	out := make(model.FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			out[field] = field + " is required"
		case "basic_email":
			out[field] = "enter a valid email address"
		case "phone":
			out[field] = "enter a valid phone number (10-15 digits)"
		default:
			out[field] = field + " is invalid"
		}
	}
	return out
}
