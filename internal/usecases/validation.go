package usecases

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	domainerrors "agrimarket.backend/internal/domain/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,18}[0-9]$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("wallet", func(fl validator.FieldLevel) bool {
		return common.IsHexAddress(fl.Field().String())
	})
	return v
}

// isStrongPassword requires at least 8 characters with upper and lower case
// letters, a digit and a symbol
func isStrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// validateInput runs struct validation and converts failures into a
// ValidationError listing every rejected field
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domainerrors.ErrInvalidInput, err)
	}

	out := domainerrors.NewValidationError()
	for _, fe := range fieldErrs {
		code, msg := describeFieldError(fe)
		out.Add(fe.Field(), code, msg)
	}
	return out
}

func describeFieldError(fe validator.FieldError) (string, string) {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return domainerrors.FieldRequired, fmt.Sprintf("the %s field is required", field)
	case "min":
		return domainerrors.FieldTooShort, fmt.Sprintf("the %s must be at least %s", field, fe.Param())
	case "max":
		return domainerrors.FieldTooLong, fmt.Sprintf("the %s may not be greater than %s", field, fe.Param())
	case "email":
		return domainerrors.FieldInvalid, fmt.Sprintf("the %s must be a valid email address", field)
	case "eqfield":
		return domainerrors.FieldMismatch, "the password confirmation does not match"
	case "strongpassword":
		return domainerrors.FieldWeakPassword, "the password must contain upper and lower case letters, a number and a symbol"
	case "phone":
		return domainerrors.FieldInvalid, fmt.Sprintf("the %s must be a valid phone number", field)
	case "wallet":
		return domainerrors.FieldInvalid, fmt.Sprintf("the %s must be a 0x prefixed hex address", field)
	case "oneof":
		return domainerrors.FieldInvalid, fmt.Sprintf("the %s must be one of: %s", field, fe.Param())
	}
	return domainerrors.FieldInvalid, fmt.Sprintf("the %s is invalid", field)
}

// requireReason rejects blank rejection or suspension reasons
func requireReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", domainerrors.NewValidationError(
			domainerrors.Field("reason", domainerrors.FieldRequired, "a reason is required"),
		)
	}
	if len(reason) > 1000 {
		return "", domainerrors.NewValidationError(
			domainerrors.Field("reason", domainerrors.FieldTooLong, "the reason may not be greater than 1000"),
		)
	}
	return reason, nil
}
