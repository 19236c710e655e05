package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchTheirSentinel(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{FieldError("binReference", "pattern"), ErrValidation},
		{&DuplicateError{Entity: "order", Field: "orderNumber", Value: "12345"}, ErrDuplicate},
		{&NotFoundError{Entity: "order", Key: "042"}, ErrNotFound},
		{&DependencyError{Dependency: "pdf renderer"}, ErrDependencyUnavailable},
		{&StoreError{Op: "list orders", Err: errors.New("boom")}, ErrStore},
		{&ImportError{Reason: "marker row not found"}, ErrImport},
	}
	for _, c := range cases {
		wrapped := fmt.Errorf("outer: %w", c.err)
		assert.ErrorIs(t, wrapped, c.sentinel, c.err.Error())
		assert.NotErrorIs(t, wrapped, ErrConfirmationRequired)
	}
}

func TestStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := &StoreError{Op: "ping", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store ping: connection reset", err.Error())
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError(map[string]string{"seller": "required", "amount": "must_be_positive"})
	assert.Equal(t, "validation failed: amount=must_be_positive, seller=required", err.Error())
	assert.Equal(t, "validation failed", NewValidationError(nil).Error())
}
