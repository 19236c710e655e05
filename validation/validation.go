package validation

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already failed.
func (v Violations) Add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func NonNegativeDecimal(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v.Add(field, "must_not_be_negative")
	}
}

// Pattern records code when value does not match re. Empty values are left
// to Required.
func Pattern(field, value string, re *regexp.Regexp, code string, v Violations) {
	if value != "" && !re.MatchString(value) {
		v.Add(field, code)
	}
}

func Email(field, value string, v Violations) {
	Pattern(field, strings.TrimSpace(value), emailPattern, "invalid_email", v)
}

// OneOf flags values that are not accepted by valid.
func OneOf(field string, ok bool, v Violations) {
	if !ok {
		v.Add(field, "invalid_value")
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared struct validator. Field names are taken from
// the json tag so violations line up with request payloads.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
	})
	return validate
}

// Struct validates s with its `validate` tags and folds failures into v.
// Each failing tag maps to a stable code; tags without a mapping become
// "invalid_value".
func Struct(s any, codes map[string]string, v Violations) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		code, ok := codes[fe.Tag()]
		if !ok {
			code = defaultCode(fe.Tag())
		}
		v.Add(fe.Field(), code)
	}
	return nil
}

func defaultCode(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "email":
		return "invalid_email"
	case "gte":
		return "must_not_be_negative"
	case "gt":
		return "must_be_positive"
	default:
		return "invalid_value"
	}
}
