// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/platform/ctxutil"
	"github.com/yomira/booru/internal/platform/respond"
	"github.com/yomira/booru/internal/platform/sec"
)

// TokenVerifier resolves the credentials carried by an Authorization header
// into the [*sec.Principal] they belong to. Implementations live in
// internal/core/user, where the password hash and token-hash lookups happen.
type TokenVerifier interface {
	// VerifyPassword checks a username/password pair (the "Basic" scheme).
	VerifyPassword(ctx context.Context, username, password string) (*sec.Principal, error)

	// VerifyOpaqueToken checks a username/token pair against the user_token
	// table (the "Token" scheme). It rejects disabled or expired tokens.
	VerifyOpaqueToken(ctx context.Context, username, token string) (*sec.Principal, error)

	// VerifySession checks a signed session JWT (the "Bearer" scheme) — the
	// stateless fast path described in SessionClaims.
	VerifySession(ctx context.Context, sessionToken string) (*sec.Principal, error)
}

// Authenticate resolves the Authorization header, per spec §6:
//
//	Authorization: Basic <base64(user:pass)>
//	Authorization: Token <base64(user:token)>
//	Authorization: Bearer <session-jwt>
//
// An absent header proceeds as anonymous. A malformed or rejected header
// fails the request outright rather than silently downgrading to anonymous,
// so a client never mistakes a bad credential for a successful anonymous
// request.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, payload, ok := strings.Cut(authHeader, " ")
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			var principal *sec.Principal
			var err error

			switch {
			case strings.EqualFold(scheme, "basic"):
				username, password, decodeErr := decodeUserPair(payload)
				if decodeErr != nil {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}
				principal, err = verifier.VerifyPassword(request.Context(), username, password)

			case strings.EqualFold(scheme, "token"):
				username, token, decodeErr := decodeUserPair(payload)
				if decodeErr != nil {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}
				principal, err = verifier.VerifyOpaqueToken(request.Context(), username, token)

			case strings.EqualFold(scheme, "bearer"):
				principal, err = verifier.VerifySession(request.Context(), payload)

			default:
				respond.Error(writer, request, apperr.Unauthorized("Unsupported authorization scheme"))
				return
			}

			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// decodeUserPair decodes a base64 "user:secret" payload as used by the Basic
// and Token authorization schemes.
func decodeUserPair(payload string) (user, secret string, err error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", err
	}
	user, secret, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", apperr.Unauthorized("Invalid authorization format")
	}
	return user, secret, nil
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRank blocks requests whose principal's rank is below target.
// Anonymous callers are rejected the same as any under-ranked principal.
//
// Must be registered in the router AFTER [Authenticate].
func RequireRank(target sec.Rank) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetAuthUser(request.Context())
			if !principal.IsAtLeast(target) {
				if principal == nil {
					respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				} else {
					respond.Error(writer, request, apperr.Forbidden("Insufficient privileges"))
				}
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
