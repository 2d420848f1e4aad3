// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pool

import (
	"context"
	"time"
)

// Repository is the persistence boundary for categories, pools, and their
// post membership.
//
// CreateCategory, UpdateCategory, DeleteCategory, CreatePool, UpdatePool,
// DeletePool, and Merge each emit their own snapshot row (§4.G) in the same
// transaction as the mutation; actorUserID attributes the snapshot and may
// be nil for system-driven changes.
type Repository interface {
	CreateCategory(ctx context.Context, c *Category, actorUserID *int) error
	GetCategoryByID(ctx context.Context, id int) (*Category, error)
	GetCategoryByName(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, before, after *Category, expectedVersion time.Time, actorUserID *int) error
	DeleteCategory(ctx context.Context, c *Category, actorUserID *int) error

	CreatePool(ctx context.Context, p *Pool, names []string, actorUserID *int) error
	GetPoolByID(ctx context.Context, id int) (*Pool, error)
	GetPoolByName(ctx context.Context, name string) (*Pool, error)
	ListPools(ctx context.Context, offset, limit int, namePattern string) ([]*Pool, int, error)
	UpdatePool(ctx context.Context, before, after *Pool, names []string, expectedVersion time.Time, actorUserID *int) error
	DeletePool(ctx context.Context, p *Pool, actorUserID *int) error

	// ListPosts returns a pool's post ids in order.
	ListPosts(ctx context.Context, poolID int) ([]int, error)
	// SetPosts replaces a pool's entire post membership with postIDs, in the
	// given order; order values are assigned 0..len(postIDs)-1.
	SetPosts(ctx context.Context, poolID int, postIDs []int) error
	// AppendPost adds postID to the end of poolID's ordering.
	AppendPost(ctx context.Context, poolID, postID int) error
	// RemovePost removes postID from poolID and re-compacts the remaining
	// order values so they stay a dense permutation of {0..n-1}.
	RemovePost(ctx context.Context, poolID, postID int) error

	// Merge re-homes sourceID's post membership onto targetID (skipping
	// posts targetID already has) and deletes the source pool. Source's
	// names are not moved; they are removed together with the source pool.
	Merge(ctx context.Context, sourceID, targetID int, actorUserID *int) error
}
