// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/relic/internal/platform/apperr"
	"github.com/taibuivan/relic/internal/platform/respond"
	"github.com/taibuivan/relic/pkg/pagination"
)

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []int{1, 2}, pagination.NewMeta(1, 2, 5))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	body := decodeBody(t, recorder)
	assert.Equal(t, []any{1.0, 2.0}, body["data"])
	assert.Equal(t, 3.0, body["meta"].(map[string]any)["total_pages"])
}

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error", apperr.NotFound("Batch"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", apperr.ValidationError("bad", apperr.FieldError{Field: "records", Message: "x"}), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"plain error is hidden", errors.New("pq: password=secret"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			body := decodeBody(t, recorder)
			assert.Equal(t, tt.code, body["code"])
			assert.NotContains(t, recorder.Body.String(), "secret")
		})
	}
}
