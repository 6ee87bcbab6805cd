// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/relic/internal/core/ingest"
	"github.com/taibuivan/relic/internal/platform/respond"
)

func newRouter(t *testing.T) http.Handler {
	fx := newFixture(t, nil)
	handler := ingest.NewHandler(fx.service)

	router := chi.NewRouter()
	router.Get("/classifications", handler.ListClassifications)
	router.Route("/harvests", handler.RegisterRoutes)
	return router
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

func TestHandler_HarvestPreviewPersist(t *testing.T) {
	router := newRouter(t)

	created := do(router, http.MethodPost, "/harvests", `{"classification": "coins", "records": 3}`)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	var envelope struct {
		Data ingest.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &envelope))
	id := envelope.Data.ID
	require.NotEmpty(t, id)

	preview := do(router, http.MethodGet, "/harvests/"+id+"/preview?limit=2", "")
	require.Equal(t, http.StatusOK, preview.Code)
	assert.Contains(t, preview.Body.String(), `"Denarius"`)

	persisted := do(router, http.MethodPost, "/harvests/"+id+"/persist", "")
	require.Equal(t, http.StatusOK, persisted.Code)
	assert.Contains(t, persisted.Body.String(), `"persisted":true`)

	got := do(router, http.MethodGet, "/harvests/"+id, "")
	require.Equal(t, http.StatusOK, got.Code)
}

func TestHandler_Errors(t *testing.T) {
	router := newRouter(t)

	cases := []struct {
		name, method, target, body string
		status                     int
	}{
		{"bad json", http.MethodPost, "/harvests", `{`, http.StatusBadRequest},
		{"unknown classification", http.MethodPost, "/harvests", `{"classification": "Rockets"}`, http.StatusBadRequest},
		{"unknown batch", http.MethodGet, "/harvests/nope", "", http.StatusNotFound},
		{"replay without key", http.MethodPost, "/harvests/replay", `{}`, http.StatusBadRequest},
		{"replay with archive disabled", http.MethodPost, "/harvests/replay", `{"archive_key": "harvests/coins/x.json"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, do(router, tc.method, tc.target, tc.body).Code)
		})
	}
}

func TestHandler_ListClassifications(t *testing.T) {
	recorder := do(newRouter(t), http.MethodGet, "/classifications", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"Arms and Armor"`)
}

func TestHandler_HarvestPersistFailureNamesBatch(t *testing.T) {
	fx := newFixture(t, nil)
	service := ingest.NewService(fx.fetcher, failingPersister{}, ingest.NewMemoryStore(time.Hour), nil, discard)
	router := chi.NewRouter()
	router.Route("/harvests", ingest.NewHandler(service).RegisterRoutes)

	failed := do(router, http.MethodPost, "/harvests", `{"classification": "coins", "records": 3, "persist": true}`)
	require.Equal(t, http.StatusServiceUnavailable, failed.Code, failed.Body.String())

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(failed.Body.Bytes(), &envelope))
	require.Len(t, envelope.Details, 1)
	assert.Equal(t, "batch_id", envelope.Details[0].Field)

	got := do(router, http.MethodGet, "/harvests/"+envelope.Details[0].Message, "")
	assert.Equal(t, http.StatusOK, got.Code)
}
