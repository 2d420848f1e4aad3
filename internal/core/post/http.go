// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/platform/authz"
	requestutil "github.com/yomira/booru/internal/platform/request"
	"github.com/yomira/booru/internal/platform/respond"
	"github.com/yomira/booru/internal/query/compile"
	"github.com/yomira/booru/internal/query/lang"
	"github.com/yomira/booru/internal/query/search"
	"github.com/yomira/booru/pkg/pagination"
)

type Handler struct {
	service *Service
	db      *pgxpool.Pool
}

// db backs the browse/search endpoint only: per the query compiler's
// design, listing talks to the pool directly rather than through
// Repository, since it must freely choose which statistics joins to run.
func NewHandler(service *Service, db *pgxpool.Pool) *Handler {
	return &Handler{service: service, db: db}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/posts", h.list)
	router.Get("/post/{id}", h.get)
	router.Put("/post/{id}", h.update)
	router.Delete("/post/{id}", h.delete)
	router.Post("/posts", h.create)

	router.Post("/post/{id}/favorite", h.addFavorite)
	router.Delete("/post/{id}/favorite", h.removeFavorite)
	router.Get("/post/{id}/favorites", h.listFavorites)

	router.Post("/post/{id}/feature", h.feature)
	router.Get("/featured-post", h.currentFeature)

	router.Get("/post/{id}/notes", h.listNotes)
	router.Put("/post/{id}/notes", h.setNotes)

	router.Put("/post/{id}/score", h.setScore)
	router.Get("/post/{id}/score", h.getScore)

	router.Post("/posts/reverse-search", h.reverseSearch)
}

func requirePrivilege(w http.ResponseWriter, r *http.Request, privilege string) bool {
	caller := requestutil.Principal(r)
	if !authz.Allow(caller, privilege) {
		respond.Error(w, r, apperr.Forbidden("Insufficient privileges"))
		return false
	}
	return true
}

func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, apperr.ValidationError("Invalid post id")
	}
	return id, nil
}

// # Lifecycle

type createRequest struct {
	FileSize   int64    `json:"fileSize"`
	Width      int      `json:"canvasWidth"`
	Height     int      `json:"canvasHeight"`
	Safety     Safety   `json:"safety"`
	Type       Type     `json:"type"`
	MimeType   string   `json:"mimeType"`
	Checksum   string   `json:"checksum"`
	MD5        string   `json:"md5"`
	Flags      Flags    `json:"flags"`
	Source     string   `json:"source"`
	Tags       []string `json:"tags"`
	Relations  []int    `json:"relations"`
	Notes      []Note   `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_create") {
		return
	}
	caller := requestutil.Principal(r)
	var req createRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	var actorID *int
	if caller != nil {
		actorID = &caller.UserID
	}
	p := &Post{
		UploaderID: actorID,
		FileSize:   req.FileSize,
		Width:      req.Width,
		Height:     req.Height,
		Safety:     req.Safety,
		Type:       req.Type,
		MimeType:   req.MimeType,
		Checksum:   req.Checksum,
		MD5:        req.MD5,
		Flags:      req.Flags,
		Source:     req.Source,
	}

	created, err := h.service.Create(r.Context(), actorID, p, req.Tags, req.Relations, req.Notes)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, created)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_view") {
		return
	}
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, p)
}

type updateRequest struct {
	Version   time.Time `json:"version"`
	Safety    *Safety   `json:"safety,omitempty"`
	Source    *string   `json:"source,omitempty"`
	Flags     *Flags    `json:"flags,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Relations []int     `json:"relations,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	caller := requestutil.Principal(r)
	isSelf := caller != nil && p.UploaderID != nil && caller.UserID == *p.UploaderID

	if req.Safety != nil {
		if !requirePrivilege(w, r, "post_edit_safety") {
			return
		}
		p.Safety = *req.Safety
	}
	if req.Source != nil {
		if !requirePrivilegeOwned(w, r, "post_edit_source", isSelf) {
			return
		}
		p.Source = *req.Source
	}
	if req.Flags != nil {
		if !requirePrivilege(w, r, "post_edit_flag") {
			return
		}
		p.Flags = *req.Flags
	}
	if req.Tags != nil {
		if !requirePrivilegeOwned(w, r, "post_edit_tag", isSelf) {
			return
		}
	}
	if req.Relations != nil {
		if !requirePrivilegeOwned(w, r, "post_edit_relation", isSelf) {
			return
		}
	}

	var actorID *int
	if caller != nil {
		actorID = &caller.UserID
	}
	if err := h.service.Update(r.Context(), actorID, p, req.Version, req.Tags, req.Relations); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, p)
}

// requirePrivilegeOwned checks a "self" privilege variant when the caller
// owns the post, falling back to the "any" variant otherwise.
func requirePrivilegeOwned(w http.ResponseWriter, r *http.Request, basePrivilege string, isSelf bool) bool {
	suffix := "_any"
	if isSelf {
		suffix = "_self"
	}
	caller := requestutil.Principal(r)
	if authz.Allow(caller, basePrivilege+suffix) {
		return true
	}
	if authz.Allow(caller, basePrivilege) {
		return true
	}
	respond.Error(w, r, apperr.Forbidden("Insufficient privileges"))
	return false
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_delete") {
		return
	}
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	caller := requestutil.Principal(r)
	var actorID *int
	if caller != nil {
		actorID = &caller.UserID
	}
	if err := h.service.Delete(r.Context(), actorID, p); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

// # Favorites

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_favorite") {
		return
	}
	userID, err := requestutil.RequiredUserID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.AddFavorite(r.Context(), id, userID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_favorite") {
		return
	}
	userID, err := requestutil.RequiredUserID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.RemoveFavorite(r.Context(), id, userID); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	ids, err := h.service.ListFavoriteUserIDs(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, ids)
}

// # Feature

func (h *Handler) feature(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_feature") {
		return
	}
	userID, err := requestutil.RequiredUserID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	f, err := h.service.Feature(r.Context(), id, userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, f)
}

func (h *Handler) currentFeature(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_view_featured") {
		return
	}
	f, err := h.service.GetCurrentFeature(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, f)
}

// # Notes

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	notes, err := h.service.ListNotes(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, notes)
}

type setNotesRequest struct {
	Notes []Note `json:"notes"`
}

func (h *Handler) setNotes(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_edit_note") {
		return
	}
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req setNotesRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.SetNotes(r.Context(), id, req.Notes); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w)
}

// # Score

type setScoreRequest struct {
	Score int `json:"score"`
}

func (h *Handler) setScore(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_score") {
		return
	}
	userID, err := requestutil.RequiredUserID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	id, err := idParam(r)
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

func (h *Handler) getScore(w http.ResponseWriter, r *http.Request) {
	userID, err := requestutil.RequiredUserID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	score, err := h.service.GetScore(r.Context(), id, userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, map[string]int{"score": score})
}

// # Reverse search

// reverseSearchRequest looks a post up either by an existing post's id (its
// signature is already stored) or by raw decoded-image content: multipart
// upload handling is an external collaborator's job, but once content
// bytes reach this handler as a JSON byte string, decoding and signing them
// is in scope (§4.C).
type reverseSearchRequest struct {
	PostID  int    `json:"postId"`
	Content []byte `json:"content"`
	Limit   int    `json:"limit"`
}

func (h *Handler) reverseSearch(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_reverse_search") {
		return
	}
	var req reverseSearchRequest
	if err := requestutil.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	var sig *Signature
	var checksum string
	switch {
	case len(req.Content) > 0:
		img, _, err := image.Decode(bytes.NewReader(req.Content))
		if err != nil {
			respond.Error(w, r, apperr.ValidationError("Could not decode image content"))
			return
		}
		sig, err = ComputeSignature(img)
		if err != nil {
			respond.Error(w, r, apperr.Internal(err))
			return
		}
		sum := sha256.Sum256(req.Content)
		checksum = hex.EncodeToString(sum[:])
	case req.PostID != 0:
		var err error
		sig, err = h.service.GetSignature(r.Context(), req.PostID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
	default:
		respond.Error(w, r, apperr.ValidationError("Either postId or content is required"))
		return
	}

	matches, err := h.service.FindSimilar(r.Context(), sig, checksum, req.Limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, matches)
}

// # Browse

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if !requirePrivilege(w, r, "post_list") {
		return
	}

	q, err := lang.Parse(r.URL.Query().Get("query"))
	if err != nil {
		respond.Error(w, r, apperr.ValidationError(err.Error()))
		return
	}

	params := pagination.FromOffsetRequest(r)
	caller := requestutil.Principal(r)
	seed := r.URL.Query().Get("seed")

	compiled, err := compile.Compile(compile.Post, q, caller, nil, params.Offset, params.Limit, seed)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	page, err := search.Run(r.Context(), h.db, compiled)
	if err != nil {
		respond.Error(w, r, apperr.Internal(err))
		return
	}
	defer page.Rows.Close()

	var posts []*Post
	for page.Rows.Next() {
		p, err := ScanRow(page.Rows)
		if err != nil {
			respond.Error(w, r, apperr.Internal(err))
			return
		}
		posts = append(posts, p)
	}
	if err := page.Rows.Err(); err != nil {
		respond.Error(w, r, apperr.Internal(err))
		return
	}

	respond.Paginated(w, posts, pagination.NewOffsetMeta(params.Offset, params.Limit, page.Total))
}
