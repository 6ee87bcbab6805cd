// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/relic/internal/platform/validate"
	"github.com/taibuivan/relic/pkg/convert"
)

// maxBodyBytes bounds JSON request bodies (harvest options, ad hoc statements).
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to bound the body size)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param parses a named URL parameter as a base-10 integer.

Returns:
  - int64: Parsed value
  - error: apperr.ValidationError if the parameter is not an integer
*/
func Int64Param(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, validate.Field(name, "Must be an integer")
	}
	return value, nil
}

/*
QueryInt reads an integer query parameter, falling back to def when absent or malformed.
*/
func QueryInt(request *http.Request, name string, def int) int {
	return convert.ToIntD(request.URL.Query().Get(name), def)
}
