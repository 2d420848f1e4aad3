// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/platform/authz"
	requestutil "github.com/yomira/booru/internal/platform/request"
	"github.com/yomira/booru/internal/platform/respond"
	"github.com/yomira/booru/internal/platform/sec"
	"github.com/yomira/booru/internal/platform/validate"
	"github.com/yomira/booru/pkg/pagination"
	"github.com/yomira/booru/pkg/pointer"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/users", h.register)
	router.Get("/users", h.list)
	router.Get("/user/{name}", h.getByName)
	router.Put("/user/{name}", h.update)
	router.Delete("/user/{name}", h.delete)

	router.Get("/user/{name}/tokens", h.listTokens)
	router.Post("/user/{name}/tokens", h.issueToken)
	router.Delete("/user/{name}/tokens/{id}", h.revokeToken)
}

type registerRequest struct {
	Name     string  `json:"name"`
	Password string  `json:"password"`
	Email    *string `json:"email,omitempty"`
}

// actorUserID returns the calling principal's user id for attributing a
// snapshot row, or nil for an anonymous/system-driven caller.
func actorUserID(r *http.Request) *int {
	caller := requestutil.Principal(r)
	if caller == nil {
		return nil
	}
	return &caller.UserID
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	v := &validate.Validator{}
	v.Required("name", req.Name).MinLen("name", req.Name, 1).MaxLen("name", req.Name, 32)
	v.Required("password", req.Password).MinLen("password", req.Password, 5)
	if req.Email != nil && *req.Email != "" {
		v.Email("email", *req.Email)
	}
	if err := v.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	u, err := h.service.Register(r.Context(), req.Name, req.Password, req.Email)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, u)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromOffsetRequest(r)
	namePattern := r.URL.Query().Get("query")

	users, total, err := h.service.ListUsers(r.Context(), params.Offset, params.Limit, namePattern)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Paginated(w, users, pagination.NewOffsetMeta(params.Offset, params.Limit, total))
}

func (h *Handler) getByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	u, err := h.service.GetUserByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, u)
}

type updateRequest struct {
	Version          time.Time    `json:"version"`
	Email            *string      `json:"email,omitempty"`
	AvatarStyle      *AvatarStyle `json:"avatarStyle,omitempty"`
	CustomAvatarSize *int         `json:"customAvatarSize,omitempty"`
	Rank             *sec.Rank    `json:"rank,omitempty"`
	Password         *string      `json:"password,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	caller := requestutil.Principal(r)

	target, err := h.service.GetUserByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	isSelf := caller != nil && caller.UserID == target.ID
	priv := "user_edit_any"
	if isSelf {
		priv = "user_edit_self"
	}
	if !authz.Allow(caller, priv) {
		respond.Error(w, r, apperr.Forbidden("Insufficient privileges to edit this user"))
		return
	}

	if req.Rank != nil {
		if !authz.Allow(caller, "user_edit_rank") {
			respond.Error(w, r, apperr.Forbidden("Insufficient privileges to change rank"))
			return
		}
		target.Rank = *req.Rank
	}
	if req.Email != nil {
		target.Email = req.Email
	}
	target.AvatarStyle = pointer.Fallback(req.AvatarStyle, target.AvatarStyle)
	if req.CustomAvatarSize != nil {
		target.CustomAvatarSize = req.CustomAvatarSize
	}

	if err := h.service.UpdateProfile(r.Context(), actorUserID(r), target, req.Version); err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.Password != nil && *req.Password != "" {
		if err := h.service.ChangePassword(r.Context(), actorUserID(r), target.ID, *req.Password, target.LastEditTime); err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	respond.OK(w, target)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	caller := requestutil.Principal(r)

	target, err := h.service.GetUserByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	isSelf := caller != nil && caller.UserID == target.ID
	priv := "user_delete_any"
	if isSelf {
		priv = "user_delete_self"
	}
	if !authz.Allow(caller, priv) {
		respond.Error(w, r, apperr.Forbidden("Insufficient privileges to delete this user"))
		return
	}

	if err := h.service.DeleteUser(r.Context(), actorUserID(r), target.ID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

type issueTokenRequest struct {
	Note       *string    `json:"note,omitempty"`
	Expiration *time.Time `json:"expirationTime,omitempty"`
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	caller := requestutil.Principal(r)

	target, err := h.service.GetUserByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if caller == nil || caller.UserID != target.ID {
		if !authz.Allow(caller, "user_edit_any") {
			respond.Error(w, r, apperr.Forbidden("Cannot issue tokens for another user"))
			return
		}
	}

	var req issueTokenRequest
	_ = requestutil.DecodeJSON(r, &req)

	rawToken, token, sessionJWT, err := h.service.IssueToken(r.Context(), target.ID, req.Note, req.Expiration)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Created(w, map[string]any{
		"token":     rawToken,
		"session":   sessionJWT,
		"tokenInfo": token,
	})
}

func (h *Handler) listTokens(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	caller := requestutil.Principal(r)

	target, err := h.service.GetUserByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if caller == nil || (caller.UserID != target.ID && !authz.Allow(caller, "user_edit_any")) {
		respond.Error(w, r, apperr.Forbidden("Cannot view another user's tokens"))
		return
	}

	tokens, err := h.service.ListTokens(r.Context(), target.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, tokens)
}

func (h *Handler) revokeToken(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	idStr := chi.URLParam(r, "id")
	caller := requestutil.Principal(r)

	target, err := h.service.GetUserByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if caller == nil || (caller.UserID != target.ID && !authz.Allow(caller, "user_edit_any")) {
		respond.Error(w, r, apperr.Forbidden("Cannot revoke another user's token"))
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		respond.Error(w, r, apperr.ValidationError("Invalid token id"))
		return
	}

	if err := h.service.RevokeToken(r.Context(), id, time.Time{}); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}
