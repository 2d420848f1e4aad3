// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package user implements account management: credentials, rank, and the
// opaque bearer tokens used for non-password authentication.
package user

import (
	"time"

	"github.com/yomira/booru/internal/platform/sec"
)

// AvatarStyle selects where a user's avatar image comes from.
type AvatarStyle string

const (
	AvatarStyleGravatar AvatarStyle = "gravatar"
	AvatarStyleManual   AvatarStyle = "manual"
)

// User is an account. Password fields are never serialised to JSON.
type User struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	Rank             sec.Rank    `json:"rank"`
	Email            *string     `json:"email,omitempty"`
	AvatarStyle      AvatarStyle `json:"avatarStyle"`
	PasswordHash     string      `json:"-"`
	PasswordSalt     string      `json:"-"`
	CustomAvatarSize *int        `json:"customAvatarSize,omitempty"`
	CreationTime     time.Time   `json:"creationTime"`
	LastLoginTime    *time.Time  `json:"lastLoginTime,omitempty"`
	LastEditTime     time.Time   `json:"version"`
}

// Token is an opaque 128-bit bearer credential tied to a user.
//
// The raw token value is handed to the client exactly once, at creation
// time; only its SHA-256 digest is persisted.
type Token struct {
	ID             int        `json:"id"`
	UserID         int        `json:"userId"`
	TokenHash      string     `json:"-"`
	Note           *string    `json:"note,omitempty"`
	Enabled        bool       `json:"enabled"`
	ExpirationTime *time.Time `json:"expirationTime,omitempty"`
	CreationTime   time.Time  `json:"creationTime"`
	LastEditTime   time.Time  `json:"version"`
	LastUsageTime  *time.Time `json:"lastUsageTime,omitempty"`
}

// IsExpired reports whether the token is past its expiration time.
func (t *Token) IsExpired(now time.Time) bool {
	return t.ExpirationTime != nil && now.After(*t.ExpirationTime)
}
