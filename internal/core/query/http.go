// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/relic/internal/platform/request"
	"github.com/taibuivan/relic/internal/platform/respond"
)

// Handler exposes the query surface over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalog endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listQueries)
	router.Get("/{slug}", handler.runQuery)
}

func (handler *Handler) listQueries(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, handler.service.Catalog())
}

func (handler *Handler) runQuery(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.RunNamed(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

type executeInput struct {
	Statement string `json:"statement"`
}

// ExecuteSQL runs an ad hoc statement from a JSON body {"statement": "..."}.
func (handler *Handler) ExecuteSQL(writer http.ResponseWriter, request *http.Request) {
	var input executeInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	table, err := handler.service.Execute(request.Context(), input.Statement)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, table)
}
