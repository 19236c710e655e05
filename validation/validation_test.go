package validation

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicValidators(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	Email("email", "not-an-email", v)
	NonNegativeDecimal("amount", decimal.NewFromInt(-1), v)
	Pattern("bin", "12a", regexp.MustCompile(`^\d{3}$`), "must_be_3_digits", v)
	OneOf("status", false, v)

	assert.Equal(t, Violations{
		"name":   "required",
		"email":  "invalid_email",
		"amount": "must_not_be_negative",
		"bin":    "must_be_3_digits",
		"status": "invalid_value",
	}, v)
}

func TestFirstViolationWins(t *testing.T) {
	v := Violations{}
	Required("bin", "", v)
	Pattern("bin", "", regexp.MustCompile(`^\d{3}$`), "must_be_3_digits", v)
	assert.Equal(t, "required", v["bin"])
}

func TestEmailAccepts(t *testing.T) {
	v := Violations{}
	Email("email", "shop@example.it", v)
	NonNegativeDecimal("amount", decimal.Zero, v)
	assert.True(t, v.Empty())
}

type sample struct {
	Bin    string `json:"binReference" validate:"required,len=3,numeric"`
	Number string `json:"orderNumber" validate:"required,len=5,numeric"`
	Hidden string `json:"-"`
}

func TestStructUsesJSONNames(t *testing.T) {
	v := Violations{}
	err := Struct(sample{Bin: "1234", Number: ""}, map[string]string{"len": "bad_length"}, v)
	require.NoError(t, err)
	assert.Equal(t, "bad_length", v["binReference"])
	assert.Equal(t, "required", v["orderNumber"])
}
