// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes the JSON envelopes of the Relic API.

	{"data": ...}                      single resource, harvest summary, query table
	{"data": [...], "meta": {...}}     artifact listings
	{"error": "...", "code": "..."}    failures, with optional "details"
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/relic/internal/platform/apperr"
	"github.com/taibuivan/relic/internal/platform/ctxutil"
	"github.com/taibuivan/relic/pkg/pagination"
)

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON encodes payload with statusCode. Encoding errors are dropped; the
// status line is already on the wire.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

func OK(writer http.ResponseWriter, data any) {
	Status(writer, http.StatusOK, data)
}

// Created is used for newly staged harvest batches.
func Created(writer http.ResponseWriter, data any) {
	Status(writer, http.StatusCreated, data)
}

// Status wraps data in the success envelope with an explicit code (the health check uses 503).
func Status(writer http.ResponseWriter, statusCode int, data any) {
	JSON(writer, statusCode, SuccessEnvelope{Data: data})
}

func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

/*
Error writes err as an error envelope.

Errors outside the [apperr] vocabulary become a 500 with a generic message.
Every 5xx is logged with its cause on the request logger.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()

	appErr := apperr.As(err)
	if appErr == nil {
		appErr = apperr.Internal(err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "api_server_error",
			slog.String("code", appErr.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", appErr.Cause),
		)
	}

	JSON(writer, appErr.HTTPStatus, ErrorEnvelope{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}
