package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unauthorized", err: NewBusiness("nope", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "duplicate", err: NewBusiness("taken", CodeDuplicate), want: http.StatusBadRequest},
		{name: "delivery", err: NewServerCode("mail down", CodeDelivery), want: http.StatusInternalServerError},
		{name: "forbidden", err: NewBusiness("not verified", CodeForbidden), want: http.StatusForbidden},
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "throttled", err: NewBusiness("slow down", CodeTooManyRequest), want: http.StatusTooManyRequests},
		{name: "conflict", err: NewBusiness("conflict", CodeConflict), want: http.StatusConflict},
		{name: "invalid input", err: NewInvalidInput(errors.New("bad")), want: http.StatusUnprocessableEntity},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "server", err: NewServer(errors.New("db down")), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gerr *Error
			require.True(t, errors.As(tt.err, &gerr))
			assert.Equal(t, tt.want, gerr.StatusCode())
		})
	}
}

func TestError_Messages(t *testing.T) {
	t.Parallel()

	cause := errors.New("db down")
	err := NewServer(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "db down", err.Error())

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "Internal server error", gerr.Msg())
	assert.Equal(t, TypeServer, gerr.Type())
	assert.Contains(t, gerr.String(), "ERROR_CODE_INTERNAL")

	assert.Equal(t, "mail down", NewServerCode("mail down", CodeDelivery).Error())
	assert.Equal(t, "Invalid request body", NewInvalidFormat().Error())
	assert.Equal(t, "custom", NewInvalidFormat("custom").Error())
}

func TestNewInvalidInput_Fields(t *testing.T) {
	t.Parallel()

	var gerr *Error
	require.True(t, errors.As(NewInvalidInput(nil, "username", "required"), &gerr))
	assert.Equal(t, map[string]string{"username": "required"}, gerr.Fields())
	assert.Equal(t, CodeInvalidInput, gerr.Code())

	require.True(t, errors.As(NewInvalidInput(nil, "odd"), &gerr))
	assert.Equal(t, CodeInvalidFormat, gerr.Code())
}

func TestCode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ERROR_CODE_DUPLICATE", CodeDuplicate.String())
	assert.Equal(t, "ERROR_CODE_DELIVERY", CodeDelivery.String())
	assert.Equal(t, "ERROR_TYPE_BUSINESS", TypeBusiness.String())
}

func TestError_UnknownCode(t *testing.T) {
	t.Parallel()

	err := &Error{code: Code(99), errType: Type(7)}
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
	assert.Equal(t, "ERROR_CODE_INTERNAL", Code(99).String())
	assert.Equal(t, "ERROR_TYPE_UNKNOWN", Type(7).String())
	assert.Equal(t, "Internal error", err.Error())
}
