package jsonutil_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/Adedunmol/stresspulse/api/jsonutil"
)

type body struct {
	Email string `json:"email" validate:"required,email"`
	Kind  string `json:"kind" validate:"omitempty,oneof=text radio"`
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{custom_errors.NewValidationError("validation failed", "a is required"), http.StatusBadRequest},
		{custom_errors.ErrSurveyUnavailable, http.StatusBadRequest},
		{fmt.Errorf("question: %w", custom_errors.ErrNotFound), http.StatusNotFound},
		{custom_errors.ErrUnauthorized, http.StatusUnauthorized},
		{custom_errors.ErrRateLimited, http.StatusTooManyRequests},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		jsonutil.WriteError(rec, tc.err)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}

	rec := httptest.NewRecorder()
	jsonutil.WriteError(rec, custom_errors.NewValidationError("validation failed", "a is required", "b is required"))

	var got jsonutil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "error", got.Status)
	assert.Equal(t, "validation failed", got.Message)
	assert.Equal(t, []string{"a is required", "b is required"}, got.Errors)
}

func TestUnmarshalJsonResponse(t *testing.T) {
	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","kind":"radio"}`))

		got, err := jsonutil.UnmarshalJsonResponse[body](req)
		require.NoError(t, err)
		assert.Equal(t, "a@b.co", got.Email)
	})

	t.Run("collects tag failures", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","kind":"slider"}`))

		_, err := jsonutil.UnmarshalJsonResponse[body](req)

		var verr *custom_errors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"email must be a valid email address", "kind must be one of [text radio]"}, verr.Errors)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))

		_, err := jsonutil.UnmarshalJsonResponse[body](req)
		assert.Equal(t, http.StatusBadRequest, jsonutil.StatusFor(err))
	})
}
