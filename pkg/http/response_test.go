package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "stayhub/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid input", apperrors.InvalidInput("Invalid Property ID"), http.StatusBadRequest, apperrors.CodeInvalidInput, "Invalid Property ID"},
		{"unauthorized", apperrors.Unauthorized("authentication required"), http.StatusUnauthorized, apperrors.CodeUnauthorized, "authentication required"},
		{"forbidden", apperrors.Forbidden("You cannot book your own property"), http.StatusForbidden, apperrors.CodeForbidden, "You cannot book your own property"},
		{"not found", apperrors.NotFoundWithID("Property", "x"), http.StatusNotFound, apperrors.CodeNotFound, "Property not found"},
		{"conflict", apperrors.Conflict("busy"), http.StatusConflict, apperrors.CodeConflict, "busy"},
		{"internal hides cause", apperrors.Internal("mongo exploded at host 10.0.0.1", errors.New("x")), http.StatusInternalServerError, apperrors.CodeInternal, "Internal server error"},
		{"plain error", errors.New("secret stack"), http.StatusInternalServerError, apperrors.CodeInternal, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, WriteError(rec, tt.err))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestWriteMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteMessage(rec, http.StatusOK, "Booking cancelled successfully"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Booking cancelled successfully"}`, rec.Body.String())
}

func TestExtractLimitOffset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?limit=5&offset=3", nil)
	limit, offset, err := ExtractLimitOffset(req)
	require.NoError(t, err)
	assert.Equal(t, 5, limit)
	assert.Equal(t, int64(3), offset)

	req = httptest.NewRequest(http.MethodGet, "/x?limit=abc", nil)
	_, _, err = ExtractLimitOffset(req)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}
