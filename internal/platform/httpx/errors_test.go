package httpx

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/shared"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{shared.ErrInvalidCredentials, 401},
		{shared.ErrUnauthenticated, 401},
		{shared.ErrForbidden, 403},
		{shared.ErrNotFound, 404},
		{shared.ErrDuplicateEmail, 409},
		{errors.New("pq: connection reset"), 500},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		require.Equal(t, tc.status, rec.Code, tc.err.Error())

		var envelope Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		require.False(t, envelope.Success)
		require.NotEmpty(t, envelope.Message)
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "Server error", envelope.Message)
}

func TestFirstValidationMessage(t *testing.T) {
	type payload struct {
		Name  string `validate:"required,min=2"`
		Email string `validate:"required,email"`
	}

	err := validator.New().Struct(payload{Name: "x", Email: "nope"})
	require.Error(t, err)
	require.Equal(t, "Name failed on the 'min' rule", FirstValidationMessage(err))

	require.Equal(t, "Validation failed", FirstValidationMessage(errors.New("other")))
}
