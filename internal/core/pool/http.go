// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pool

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
	"github.com/yomira/booru/pkg/pointer"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/pool-categories", h.listCategories)
	router.Post("/pool-categories", h.createCategory)
	router.Put("/pool-category/{name}", h.updateCategory)
	router.Delete("/pool-category/{name}", h.deleteCategory)

	router.Get("/pools", h.list)
	router.Post("/pools", h.create)
	router.Get("/pool/{name}", h.getByName)
	router.Put("/pool/{name}", h.update)
	router.Delete("/pool/{name}", h.delete)
	router.Post("/pool-merge", h.merge)

	router.Get("/pool/{name}/posts", h.listPosts)
	router.Put("/pool/{name}/posts", h.reorder)
	router.Post("/pool/{name}/posts/{postId}", h.addPost)
	router.Delete("/pool/{name}/posts/{postId}", h.removePost)
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
	if !requirePrivilege(w, r, "pool_category_edit") {
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
	if !requirePrivilege(w, r, "pool_category_edit") {
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
	if !requirePrivilege(w, r, "pool_category_edit") {
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

// # Pools

type poolRequest struct {
	Category    int      `json:"category"`
	Description string   `json:"description"`
	Names       []string `json:"names"`
	Posts       []int    `json:"posts,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "pool_create") {
		return
	}
	var req poolRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	p, err := h.service.CreatePool(r.Context(), actorUserID(r), req.Category, req.Description, req.Names, req.Posts)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromOffsetRequest(r)
	namePattern := r.URL.Query().Get("query")

	pools, total, err := h.service.ListPools(r.Context(), params.Offset, params.Limit, namePattern)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Paginated(w, pools, pagination.NewOffsetMeta(params.Offset, params.Limit, total))
}

func (h *Handler) getByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := h.service.GetPoolByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, p)
}

type poolUpdateRequest struct {
	Version     time.Time `json:"version"`
	Category    *int      `json:"category,omitempty"`
	Description *string   `json:"description,omitempty"`
	Names       []string  `json:"names,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "pool_edit") {
		return
	}
	name := chi.URLParam(r, "name")
	p, err := h.service.GetPoolByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req poolUpdateRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	p.CategoryID = pointer.Fallback(req.Category, p.CategoryID)
	p.Description = pointer.Fallback(req.Description, p.Description)

	if err := h.service.UpdatePool(r.Context(), actorUserID(r), p, req.Names, req.Version); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "pool_delete") {
		return
	}
	name := chi.URLParam(r, "name")
	p, err := h.service.GetPoolByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.DeletePool(r.Context(), actorUserID(r), p.ID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

// # Post membership

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := h.service.GetPoolByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	ids, err := h.service.ListPosts(r.Context(), p.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, ids)
}

type reorderRequest struct {
	Posts []int `json:"posts"`
}

func (h *Handler) reorder(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "pool_edit") {
		return
	}
	name := chi.URLParam(r, "name")
	p, err := h.service.GetPoolByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req reorderRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.Reorder(r.Context(), p.ID, req.Posts); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) addPost(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "pool_edit") {
		return
	}
	name := chi.URLParam(r, "name")
	p, err := h.service.GetPoolByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	postID, err := strconv.Atoi(chi.URLParam(r, "postId"))
	if err != nil {
		respond.Error(w, r, apperr.ValidationError("Invalid post id"))
		return
	}
	if err := h.service.AddPost(r.Context(), p.ID, postID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) removePost(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "pool_edit") {
		return
	}
	name := chi.URLParam(r, "name")
	p, err := h.service.GetPoolByName(r.Context(), name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	postID, err := strconv.Atoi(chi.URLParam(r, "postId"))
	if err != nil {
		respond.Error(w, r, apperr.ValidationError("Invalid post id"))
		return
	}
	if err := h.service.RemovePost(r.Context(), p.ID, postID); err != nil {
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
	if !requirePrivilege(w, r, "pool_merge") {
		return
	}
	var req mergeRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	source, err := h.service.GetPoolByName(r.Context(), req.Source)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	target, err := h.service.GetPoolByName(r.Context(), req.Target)
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
