// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/platform/authz"
	requestutil "github.com/yomira/booru/internal/platform/request"
	"github.com/yomira/booru/internal/platform/respond"
	"github.com/yomira/booru/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/comments", h.list)
	router.Post("/comments", h.create)
	router.Get("/comment/{id}", h.get)
	router.Put("/comment/{id}", h.update)
	router.Delete("/comment/{id}", h.delete)
	router.Put("/comment/{id}/score", h.setScore)
}

func requirePrivilege(w http.ResponseWriter, r *http.Request, privilege string) bool {
	caller := requestutil.Principal(r)
	if !authz.Allow(caller, privilege) {
		respond.Error(w, r, apperr.Forbidden("Insufficient privileges"))
		return false
	}
	return true
}

func idParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, apperr.ValidationError("Invalid id")
	}
	return id, nil
}

type createRequest struct {
	PostID int    `json:"postId"`
	Text   string `json:"text"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "comment_create") {
		return
	}
	userID, err := requestutil.RequiredUserID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req createRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	c, err := h.service.Create(r.Context(), req.PostID, &userID, req.Text)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(r.URL.Query().Get("post"))
	if err != nil {
		respond.Error(w, r, apperr.ValidationError("post query parameter is required"))
		return
	}
	params := pagination.FromOffsetRequest(r)
	comments, total, err := h.service.ListByPost(r.Context(), postID, params.Offset, params.Limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Paginated(w, comments, pagination.NewOffsetMeta(params.Offset, params.Limit, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, c)
}

type updateRequest struct {
	Version time.Time `json:"version"`
	Text    string    `json:"text"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	caller := requestutil.Principal(r)
	isSelf := caller != nil && c.UserID != nil && caller.UserID == *c.UserID
	if !requirePrivilegeOwned(w, r, "comment_edit", isSelf) {
		return
	}

	var req updateRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.Update(r.Context(), c, req.Text, req.Version); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, c)
}

func requirePrivilegeOwned(w http.ResponseWriter, r *http.Request, basePrivilege string, isSelf bool) bool {
	suffix := "_any"
	if isSelf {
		suffix = "_self"
	}
	caller := requestutil.Principal(r)
	if authz.Allow(caller, basePrivilege+suffix) {
		return true
	}
	respond.Error(w, r, apperr.Forbidden("Insufficient privileges"))
	return false
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	caller := requestutil.Principal(r)
	isSelf := caller != nil && c.UserID != nil && caller.UserID == *c.UserID
	if !requirePrivilegeOwned(w, r, "comment_delete", isSelf) {
		return
	}
	if err := h.service.Delete(r.Context(), c); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

type setScoreRequest struct {
	Score int `json:"score"`
}

func (h *Handler) setScore(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "comment_score") {
		return
	}
	userID, err := requestutil.RequiredUserID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req setScoreRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.SetScore(r.Context(), id, userID, req.Score); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}
