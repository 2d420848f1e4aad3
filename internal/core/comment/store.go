// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"time"
)

// Repository is the persistence boundary for comments and their scores.
// Create/Update/Delete each emit their own snapshot row in the same
// transaction as the mutation (§4.G).
type Repository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id int) (*Comment, error)
	ListByPost(ctx context.Context, postID int, offset, limit int) ([]*Comment, int, error)
	Update(ctx context.Context, before, after *Comment, expectedVersion time.Time) error
	Delete(ctx context.Context, c *Comment) error

	SetScore(ctx context.Context, commentID, userID, score int) error
	GetScore(ctx context.Context, commentID, userID int) (int, error)
}
