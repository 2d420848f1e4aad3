// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"time"
)

// Repository is the persistence boundary for categories, tags, and the
// implication/suggestion graphs between them.
//
// CreateCategory, UpdateCategory, DeleteCategory, CreateTag, UpdateTag,
// DeleteTag, and Merge each emit their own snapshot row (§4.G) in the same
// transaction as the mutation; actorUserID attributes the snapshot and may
// be nil for system-driven changes (e.g. auto-created tags).
type Repository interface {
	CreateCategory(ctx context.Context, c *Category, actorUserID *int) error
	GetCategoryByID(ctx context.Context, id int) (*Category, error)
	GetCategoryByName(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, before, after *Category, expectedVersion time.Time, actorUserID *int) error
	DeleteCategory(ctx context.Context, c *Category, actorUserID *int) error

	CreateTag(ctx context.Context, t *Tag, names []string, actorUserID *int) error
	GetTagByID(ctx context.Context, id int) (*Tag, error)
	GetTagByName(ctx context.Context, name string) (*Tag, error)
	ListTags(ctx context.Context, offset, limit int, namePattern string) ([]*Tag, int, error)
	UpdateTag(ctx context.Context, before, after *Tag, names []string, expectedVersion time.Time, actorUserID *int) error
	DeleteTag(ctx context.Context, t *Tag, actorUserID *int) error

	// WouldCycle reports whether adding edge (parentID -> childID) to the
	// given relation ("implication" or "suggestion") would create a cycle,
	// i.e. whether childID can already reach parentID.
	WouldCycle(ctx context.Context, relation string, parentID, childID int) (bool, error)
	AddImplication(ctx context.Context, parentID, childID int) error
	RemoveImplication(ctx context.Context, parentID, childID int) error
	AddSuggestion(ctx context.Context, parentID, childID int) error
	RemoveSuggestion(ctx context.Context, parentID, childID int) error

	// Merge re-homes every row referencing sourceID (post_tag, implications,
	// suggestions) onto targetID, transfers sourceID's usage_count into
	// targetID's statistics row, and deletes the source tag.
	Merge(ctx context.Context, sourceID, targetID int, actorUserID *int) error
}
