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

	"github.com/go-chi/chi/v5"
	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/platform/ctxutil"
	"github.com/yomira/booru/internal/platform/sec"
	"github.com/yomira/booru/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Principal extracts the authenticated caller from the request context.

Returns nil if the request is anonymous.
*/
func Principal(request *http.Request) *sec.Principal {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredPrincipal ensures the request is authenticated and returns the caller.

Returns:
  - *sec.Principal: The authenticated caller
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {

	principal := ctxutil.GetAuthUser(request.Context())

	if principal == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return principal, nil
}

/*
RequiredUserID returns the user ID of the currently logged-in user.

Returns:
  - int: User ID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (int, error) {

	principal, err := RequiredPrincipal(request)

	if err != nil {
		return 0, err
	}

	return principal.UserID, nil
}
