package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intralink/intralink/internal/shared"
	_ "github.com/intralink/intralink/testing"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestOKEnvelopeShape(t *testing.T) {
	rr := httptest.NewRecorder()
	OK(rr, "Saved", map[string]any{"id": 1})

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	body := decode(t, rr)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Saved", body["message"])
	require.Equal(t, map[string]any{"id": float64(1)}, body["data"])
	_, hasErrors := body["errors"]
	require.False(t, hasErrors, "success envelope must omit errors")
}

func TestOKOmitsEmptyMessageAndData(t *testing.T) {
	rr := httptest.NewRecorder()
	OK(rr, "", nil)

	body := decode(t, rr)
	require.Equal(t, true, body["success"])
	_, hasMessage := body["message"]
	require.False(t, hasMessage)
	_, hasData := body["data"]
	require.False(t, hasData)
}

func TestPaginatedEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	Paginated(rr, "posts", []string{"a", "b"}, shared.NewPagination(2, 20, 45))

	body := decode(t, rr)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	require.Len(t, data["posts"], 2)

	pagination, ok := data["pagination"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(2), pagination["page"])
	require.Equal(t, float64(20), pagination["limit"])
	require.Equal(t, float64(45), pagination["total"])
	require.Equal(t, float64(3), pagination["totalPages"])
}

func TestRespondErrorTypedError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil, NotFound("Post not found"))

	require.Equal(t, http.StatusNotFound, rr.Code)
	body := decode(t, rr)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Post not found", body["message"])
}

func TestRespondErrorValidationCarriesFields(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil, ValidationFailed([]FieldError{{Param: "email", Msg: "email is required"}}))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode(t, rr)
	require.Equal(t, "Validation failed", body["message"])
	fields, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 1)
	first := fields[0].(map[string]any)
	require.Equal(t, "email", first["param"])
	require.Equal(t, "email is required", first["msg"])
}

func TestRespondErrorUnknownErrorIsGeneric(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil, errors.New("pq: connection reset by peer"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decode(t, rr)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Internal server error", body["message"])
	require.NotContains(t, rr.Body.String(), "connection reset")
}

func TestKindStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Unauthenticated("Authentication required"), http.StatusUnauthorized},
		{AccountDisabled(), http.StatusForbidden},
		{Forbidden("Insufficient permissions"), http.StatusForbidden},
		{NotFound("x"), http.StatusNotFound},
		{Conflict("x"), http.StatusConflict},
		{Infrastructure("Authorization check failed", errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.status, tc.err.StatusCode(), tc.err.Message)
	}
}
