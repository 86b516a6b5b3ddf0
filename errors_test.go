package fungible_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xraph/fungible"
)

func TestMultiErrorMessage(t *testing.T) {
	var errs fungible.MultiError
	assert.NoError(t, errs.ErrorOrNil())

	errs.Add(fungible.ValidationError{Field: "name", Message: "must not be empty"})
	assert.Equal(t, "fungible: validation failed for name: must not be empty", errs.Error())

	errs.Add(fungible.ValidationError{Field: "symbol", Message: "must not be empty"})
	errs.Add(errors.New("boom"))

	msg := errs.ErrorOrNil().Error()
	assert.Contains(t, msg, "3 errors occurred")
	assert.Contains(t, msg, "name")
	assert.Contains(t, msg, "symbol")
	assert.Contains(t, msg, "boom")
	assert.ErrorIs(t, errs, fungible.ErrInvalidInput)
}
