// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction so handlers
stay independent of chi.
*/
package requestutil

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Query returns the trimmed value of a query-string parameter.

Parameters:
  - request: *http.Request
  - name: string (Parameter name)

Returns:
  - string: The value, or "" when absent
*/
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

/*
Header returns the trimmed value of a request header.
*/
func Header(request *http.Request, name string) string {
	return strings.TrimSpace(request.Header.Get(name))
}
