// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artifact

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/relic/internal/core/harvest"
	requestutil "github.com/taibuivan/relic/internal/platform/request"
	"github.com/taibuivan/relic/internal/platform/respond"
	"github.com/taibuivan/relic/pkg/pagination"
	"github.com/taibuivan/relic/pkg/query"
	"github.com/taibuivan/relic/pkg/slice"
)

// Handler exposes the stored artifacts over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the browse endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listArtifacts)
	router.Get("/{id}", handler.getArtifact)
}

func (handler *Handler) listArtifacts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	// ?classification=coins,prints matches canonical names case-insensitively
	filter := Filter{
		Classifications: slice.Map(query.StringSlice(request.URL.Query().Get("classification")), canonicalClassification),
	}

	artifacts, total, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, artifacts, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getArtifact(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func canonicalClassification(name string) string {
	if canonical, ok := harvest.ResolveClassification(name); ok {
		return canonical
	}
	return name
}
