// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/relic/internal/core/harvest"
	requestutil "github.com/taibuivan/relic/internal/platform/request"
	"github.com/taibuivan/relic/internal/platform/respond"
	"github.com/taibuivan/relic/internal/platform/validate"
)

// Handler exposes harvest orchestration over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the harvest endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.harvest)
	router.Post("/replay", handler.replay)
	router.Get("/{batchID}", handler.getBatch)
	router.Get("/{batchID}/preview", handler.preview)
	router.Post("/{batchID}/persist", handler.persist)
}

// ListClassifications returns the classification choices.
func (handler *Handler) ListClassifications(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, harvest.Classifications)
}

func (handler *Handler) harvest(writer http.ResponseWriter, request *http.Request) {
	var input Request
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.service.Harvest(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, summary)
}

func (handler *Handler) getBatch(writer http.ResponseWriter, request *http.Request) {
	summary, err := handler.service.Get(request.Context(), requestutil.Param(request, "batchID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}

func (handler *Handler) preview(writer http.ResponseWriter, request *http.Request) {
	limit := requestutil.QueryInt(request, "limit", 0)

	preview, err := handler.service.Preview(request.Context(), requestutil.Param(request, "batchID"), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, preview)
}

func (handler *Handler) persist(writer http.ResponseWriter, request *http.Request) {
	summary, err := handler.service.Persist(request.Context(), requestutil.Param(request, "batchID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}

type replayInput struct {
	ArchiveKey string `json:"archive_key"`
}

func (handler *Handler) replay(writer http.ResponseWriter, request *http.Request) {
	var input replayInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.ArchiveKey == "" {
		respond.Error(writer, request, validate.Field("archive_key", "This field is required"))
		return
	}

	summary, err := handler.service.Replay(request.Context(), input.ArchiveKey)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}
