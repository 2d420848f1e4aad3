// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/platform/authz"
	requestutil "github.com/yomira/booru/internal/platform/request"
	"github.com/yomira/booru/internal/platform/respond"
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
	router.Get("/tag-categories", h.listCategories)
	router.Post("/tag-categories", h.createCategory)
	router.Put("/tag-category/{name}", h.updateCategory)
	router.Delete("/tag-category/{name}", h.deleteCategory)

	router.Get("/tags", h.list)
	router.Post("/tags", h.create)
	router.Get("/tag/{name}", h.getByName)
	router.Put("/tag/{name}", h.update)
	router.Delete("/tag/{name}", h.delete)
	router.Post("/tag-merge", h.merge)

	router.Post("/tag/{name}/implications", h.addImplication)
	router.Delete("/tag/{name}/implications/{child}", h.removeImplication)
	router.Post("/tag/{name}/suggestions", h.addSuggestion)
	router.Delete("/tag/{name}/suggestions/{child}", h.removeSuggestion)
}

func requirePrivilege(w http.ResponseWriter, r *http.Request, privilege string) bool {
	caller := requestutil.Principal(r)
	if !authz.Allow(caller, privilege) {
		respond.Error(w, r, apperr.Forbidden("Insufficient privileges"))
		return false
	}
	return true
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

// # Categories

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "tag_category_edit") {
		return
	}
	var req categoryRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	c, err := h.service.CreateCategory(r.Context(), actorUserID(r), req.Name, req.Color, req.Order)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, c)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, categories)
}

type categoryUpdateRequest struct {
	Version time.Time `json:"version"`
	Name    *string   `json:"name,omitempty"`
	Color   *string   `json:"color,omitempty"`
	Order   *int      `json:"order,omitempty"`
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "tag_category_edit") {
		return
	}
	name := chi.URLParam(r, "name")
	c, err := h.service.GetCategoryByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req categoryUpdateRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	c.Name = pointer.Fallback(req.Name, c.Name)
	c.Color = pointer.Fallback(req.Color, c.Color)
	c.Order = pointer.Fallback(req.Order, c.Order)

	if err := h.service.UpdateCategory(r.Context(), actorUserID(r), c, req.Version); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, c)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "tag_category_edit") {
		return
	}
	name := chi.URLParam(r, "name")
	c, err := h.service.GetCategoryByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.DeleteCategory(r.Context(), actorUserID(r), c.ID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

// # Tags

type tagRequest struct {
	Category     int      `json:"category"`
	Description  string   `json:"description"`
	Names        []string `json:"names"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "tag_create") {
		return
	}
	var req tagRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	t, err := h.service.CreateTag(r.Context(), actorUserID(r), req.Category, req.Description, req.Names)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, t)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromOffsetRequest(r)
	namePattern := r.URL.Query().Get("query")

	tags, total, err := h.service.ListTags(r.Context(), params.Offset, params.Limit, namePattern)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Paginated(w, tags, pagination.NewOffsetMeta(params.Offset, params.Limit, total))
}

func (h *Handler) getByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	t, err := h.service.GetTagByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, t)
}

type tagUpdateRequest struct {
	Version     time.Time `json:"version"`
	Category    *int      `json:"category,omitempty"`
	Description *string   `json:"description,omitempty"`
	Names       []string  `json:"names,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	t, err := h.service.GetTagByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req tagUpdateRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.Category != nil {
		if !requirePrivilege(w, r, "tag_edit_category") {
			return
		}
		t.CategoryID = *req.Category
	}
	if req.Names != nil {
		if !requirePrivilege(w, r, "tag_edit_name") {
			return
		}
	}
	if req.Description != nil {
		if !requirePrivilege(w, r, "tag_edit_name") {
			return
		}
		t.Description = *req.Description
	}

	if err := h.service.UpdateTag(r.Context(), actorUserID(r), t, req.Names, req.Version); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, t)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "tag_delete") {
		return
	}
	name := chi.URLParam(r, "name")
	t, err := h.service.GetTagByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.DeleteTag(r.Context(), actorUserID(r), t.ID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

type edgeRequest struct {
	Child string `json:"child"`
}

// resolveEdge resolves the {name} path parameter (the parent) and a child
// tag name, either from the request body (for additions) or the {child}
// path parameter (for removals), into their ids.
func (h *Handler) resolveEdge(r *http.Request, childName string) (parentID, childID int, err error) {
	parent, err := h.service.GetTagByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		return 0, 0, err
	}
	child, err := h.service.GetTagByName(r.Context(), childName)
	if err != nil {
		return 0, 0, err
	}
	return parent.ID, child.ID, nil
}

func (h *Handler) addImplication(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "tag_edit_implication") {
		return
	}
	var req edgeRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	parentID, childID, err := h.resolveEdge(r, req.Child)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.AddImplication(r.Context(), parentID, childID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) removeImplication(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "tag_edit_implication") {
		return
	}
	parentID, childID, err := h.resolveEdge(r, chi.URLParam(r, "child"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.RemoveImplication(r.Context(), parentID, childID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) addSuggestion(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "tag_edit_suggestion") {
		return
	}
	var req edgeRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	parentID, childID, err := h.resolveEdge(r, req.Child)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.AddSuggestion(r.Context(), parentID, childID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) removeSuggestion(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "tag_edit_suggestion") {
		return
	}
	parentID, childID, err := h.resolveEdge(r, chi.URLParam(r, "child"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.RemoveSuggestion(r.Context(), parentID, childID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

type mergeRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (h *Handler) merge(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "tag_merge") {
		return
	}
	var req mergeRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	source, err := h.service.GetTagByName(r.Context(), req.Source)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	target, err := h.service.GetTagByName(r.Context(), req.Target)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.Merge(r.Context(), actorUserID(r), source.ID, target.ID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, target)
}
