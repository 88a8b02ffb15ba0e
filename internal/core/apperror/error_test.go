package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorString(t *testing.T) {
	err := NewValidation("name is required")
	assert.Equal(t, "VALIDATION_ERROR: name is required", err.Error())

	cause := errors.New("connection refused")
	wrapped := NewInternal(cause)
	assert.Contains(t, wrapped.Error(), "caused by: connection refused")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewStoreUnavailable(cause)

	assert.True(t, errors.Is(err, cause))
}

func TestAsAppError_WrappedChain(t *testing.T) {
	inner := NewNotFound("product", "SKU-1")
	wrapped := fmt.Errorf("load product: %w", inner)

	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.True(t, IsNotFound(wrapped))
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(NewValidation("bad")))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(NewNotFound("order", "x")))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(NewDuplicate("product", "sku", "A1")))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(NewInsufficientStock("p1", 40, 30)))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("unknown")))
}

func TestNewMissingFields(t *testing.T) {
	err := NewMissingFields("customer", "lines")

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, []string{"customer", "lines"}, err.Details["missing"])
}

func TestNewInsufficientStock_Details(t *testing.T) {
	err := NewInsufficientStock("prod-1", 40, 30)

	assert.True(t, IsInsufficientStock(err))
	assert.Equal(t, int64(40), err.Details["requested"])
	assert.Equal(t, int64(30), err.Details["available"])
}

func TestWithDetail(t *testing.T) {
	err := NewValidation("invalid quantity").WithDetail("field", "quantity")
	assert.Equal(t, "quantity", err.Details["field"])
}
