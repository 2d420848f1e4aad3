// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"time"
)

// Repository is the persistence boundary for users and their tokens.
//
// Create, Update, and Delete each emit their own snapshot row (§4.G) in the
// same transaction as the mutation; actorUserID attributes the snapshot and
// is nil for self-registration (no authenticated caller exists yet).
type Repository interface {
	Create(ctx context.Context, u *User, actorUserID *int) error
	GetByID(ctx context.Context, id int) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
	List(ctx context.Context, offset, limit int, namePattern string) ([]*User, int, error)
	Update(ctx context.Context, before, after *User, expectedVersion time.Time, actorUserID *int) error
	Delete(ctx context.Context, u *User, actorUserID *int) error
	TouchLastLogin(ctx context.Context, id int, when time.Time) error

	CreateToken(ctx context.Context, t *Token) error
	GetTokenByHash(ctx context.Context, hash string) (*Token, error)
	ListTokens(ctx context.Context, userID int) ([]*Token, error)
	UpdateToken(ctx context.Context, t *Token, expectedVersion time.Time) error
	DeleteToken(ctx context.Context, id int) error
	TouchTokenUsage(ctx context.Context, id int, when time.Time) error
}
