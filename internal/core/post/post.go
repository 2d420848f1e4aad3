// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package post implements the image-board's central aggregate: the Post
// itself plus its relations, tags, favorites, features, notes, scores, and
// perceptual signature.
package post

import "time"

type Safety string

const (
	SafetySafe    Safety = "safe"
	SafetySketchy Safety = "sketchy"
	SafetyUnsafe  Safety = "unsafe"
)

type Type string

const (
	TypeImage     Type = "image"
	TypeAnimation Type = "animation"
	TypeVideo     Type = "video"
	TypeFlash     Type = "flash"
)

// Flags is a bitmask of post content properties.
type Flags int

const (
	FlagLoop  Flags = 1 << 0
	FlagSound Flags = 1 << 1
)

// Post is the board's central aggregate. UploaderID is nullable: uploads
// survive the uploading user's account being deleted.
type Post struct {
	ID                     int        `json:"id"`
	UploaderID             *int       `json:"uploaderId,omitempty"`
	FileSize               int64      `json:"fileSize"`
	Width                  int        `json:"canvasWidth"`
	Height                 int        `json:"canvasHeight"`
	Safety                 Safety     `json:"safety"`
	Type                   Type       `json:"type"`
	MimeType               string     `json:"mimeType"`
	Checksum               string     `json:"checksum"`
	MD5                    string     `json:"md5"`
	Flags                  Flags      `json:"flags"`
	Source                 string     `json:"source,omitempty"`
	CreationTime           time.Time  `json:"creationTime"`
	LastEditTime           time.Time  `json:"version"`
	GeneratedThumbnailSize *int       `json:"-"`
	CustomThumbnailSize    *int       `json:"-"`

	// Aggregated sub-entities. Create and Update set them from the tags and
	// relations passed in; posts read through GetByID, GetByChecksum or a
	// search leave them nil.
	TagIDs   []int   `json:"tags,omitempty"`
	RelationIDs []int `json:"relations,omitempty"`

	Statistics *Statistics `json:"-"`
}

// HasFlag reports whether a bit of Flags is set.
func (p *Post) HasFlag(f Flags) bool { return p.Flags&f != 0 }

// Statistics mirrors schema.PostStatistics; always present once a post
// exists, populated by the deferred triggers described in §4.B.
type Statistics struct {
	TagCount         int        `json:"tagCount"`
	PoolCount        int        `json:"poolCount"`
	NoteCount        int        `json:"noteCount"`
	CommentCount     int        `json:"commentCount"`
	RelationCount    int        `json:"relationCount"`
	Score            int        `json:"score"`
	FavoriteCount    int        `json:"favoriteCount"`
	FeatureCount     int        `json:"featureCount"`
	LastCommentTime  *time.Time `json:"lastCommentTime,omitempty"`
	LastFavoriteTime *time.Time `json:"lastFavoriteTime,omitempty"`
	LastFeatureTime  *time.Time `json:"lastFeatureTime,omitempty"`
}

// Note is an image-region annotation: a polygon in normalized [0,1]^2
// coordinates plus free text.
type Note struct {
	ID      int     `json:"id"`
	PostID  int     `json:"postId"`
	Polygon []Point `json:"polygon"`
	Text    string  `json:"text"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Score is one user's vote on a post, in {-1, 0, +1}.
type Score struct {
	PostID int       `json:"postId"`
	UserID int       `json:"userId"`
	Score  int       `json:"score"`
	Time   time.Time `json:"time"`
}

// Feature records one historical "featured on main page" event.
type Feature struct {
	ID     int       `json:"id"`
	PostID int       `json:"postId"`
	UserID int       `json:"userId"`
	Time   time.Time `json:"time"`
}

// Signature is the perceptual hash used for reverse image search: a
// fixed-length difference vector (the fine filter, internal/signature's
// Vector) plus a coarse word index (Words). The vector and word index are
// internal representations, not API surface; PostID is what a reverse
// search's caller actually needs back.
type Signature struct {
	PostID    int     `json:"postId"`
	Signature []int8  `json:"-"`
	Words     []int32 `json:"-"`
}
