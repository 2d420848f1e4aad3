// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment implements post comments and their per-user scores,
// a smaller analogue of post: a user-authored text body plus a vote table.
package comment

import "time"

// Comment is a single user-authored remark attached to a post. UserID is
// nullable: a comment survives its author's account being deleted.
type Comment struct {
	ID           int       `json:"id"`
	PostID       int       `json:"postId"`
	UserID       *int      `json:"userId,omitempty"`
	Text         string    `json:"text"`
	CreationTime time.Time `json:"creationTime"`
	LastEditTime time.Time `json:"version"`

	Score int `json:"score"`
}
