// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"time"
)

// Repository is the persistence boundary for posts and every sub-entity
// hanging off them. List/search by query string is handled separately by
// the query compiler (internal/query/compile), which talks to the
// database directly so it can freely choose which statistics joins to
// include based on field projection (§4.E) — that decision doesn't belong
// behind a fixed repository method signature.
type Repository interface {
	// Create, Update, and Delete each emit their own snapshot row (§4.G) in
	// the same transaction as the mutation; actorUserID attributes the
	// snapshot and may be nil for system-driven changes.
	Create(ctx context.Context, p *Post, tagIDs []int, actorUserID *int) error
	GetByID(ctx context.Context, id int) (*Post, error)
	GetByChecksum(ctx context.Context, checksum string) (*Post, error)
	Update(ctx context.Context, before, after *Post, expectedVersion time.Time, actorUserID *int) error
	Delete(ctx context.Context, p *Post, actorUserID *int) error

	GetTagIDs(ctx context.Context, postID int) ([]int, error)
	SetTags(ctx context.Context, postID int, tagIDs []int) error

	GetRelationIDs(ctx context.Context, postID int) ([]int, error)
	// WouldCycle reports whether adding edge (parentID -> childID) to the
	// post relation graph would create a cycle.
	WouldCycle(ctx context.Context, parentID, childID int) (bool, error)
	SetRelations(ctx context.Context, postID int, relatedIDs []int) error

	AddFavorite(ctx context.Context, postID, userID int) error
	RemoveFavorite(ctx context.Context, postID, userID int) error
	ListFavoriteUserIDs(ctx context.Context, postID int) ([]int, error)

	Feature(ctx context.Context, postID, userID int) (*Feature, error)
	GetCurrentFeature(ctx context.Context) (*Feature, error)

	ListNotes(ctx context.Context, postID int) ([]*Note, error)
	SetNotes(ctx context.Context, postID int, notes []Note) error

	SetScore(ctx context.Context, postID, userID, score int) error
	GetScore(ctx context.Context, postID, userID int) (int, error)

	SetSignature(ctx context.Context, sig *Signature) error
	GetSignature(ctx context.Context, postID int) (*Signature, error)
	// FindByWordOverlap returns every signature sharing at least one coarse
	// index word with words — the coarse stage of the two-tier reverse
	// search is deliberately not truncated to a handful of rows, since it
	// typically matches 5-20% of the corpus and the fine distance pass
	// that follows is what actually prunes the candidate set.
	FindByWordOverlap(ctx context.Context, words []int32) ([]*Signature, error)

	// ListPage returns posts ordered by id ascending, starting strictly
	// after afterID. Used by resumable admin jobs (internal/admin) to walk
	// the whole table in bounded batches without an offset, so rows
	// inserted or deleted mid-walk can't cause a post to be skipped or
	// revisited.
	ListPage(ctx context.Context, afterID, limit int) ([]*Post, error)
}
