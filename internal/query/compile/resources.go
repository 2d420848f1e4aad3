// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package compile

import (
	"fmt"

	"github.com/yomira/booru/internal/platform/database/schema"
)

// Post is the richest resource: base fields, tag/pool/user name lookups,
// and every post_statistics counter gated behind field projection.
var Post = &Resource{
	Table:          schema.Post.Table,
	Alias:          "p",
	IDColumn:       "p." + schema.Post.ID,
	DefaultField:   "tag",
	DefaultSortCol: "p." + schema.Post.ID,
	// Column order matches post.ScanRow so a search result row can be
	// scanned with the exact same helper as a direct fetch.
	BaseColumns: []string{
		"p." + schema.Post.ID, "p." + schema.Post.UploaderID, "p." + schema.Post.FileSize,
		"p." + schema.Post.Width, "p." + schema.Post.Height, "p." + schema.Post.Safety,
		"p." + schema.Post.Type, "p." + schema.Post.MimeType, "p." + schema.Post.Checksum,
		"p." + schema.Post.MD5, "p." + schema.Post.Flags, "p." + schema.Post.Source,
		"p." + schema.Post.CreationTime, "p." + schema.Post.LastEditTime,
		"p." + schema.Post.GeneratedThumbnailSize,
	},
	SortColumns: map[string]string{
		"id":            "p." + schema.Post.ID,
		"creation-date": "p." + schema.Post.CreationTime,
		"last-edit-date": "p." + schema.Post.LastEditTime,
		"file-size":     "p." + schema.Post.FileSize,
		"image-width":   "p." + schema.Post.Width,
		"image-height":  "p." + schema.Post.Height,
		"tag-count":     "ps." + schema.PostStatistics.TagCount,
		"comment-count": "ps." + schema.PostStatistics.CommentCount,
		"favorite-count": "ps." + schema.PostStatistics.FavoriteCount,
		"score":         "ps." + schema.PostStatistics.Score,
		"random":        "", // resolved specially in compile.go (per-request hash)
	},
	Fields: map[string]*Field{
		"id":       {Column: "p." + schema.Post.ID, Kind: FieldNumber},
		"file-size": {Column: "p." + schema.Post.FileSize, Kind: FieldNumber},
		"image-width":  {Column: "p." + schema.Post.Width, Kind: FieldNumber},
		"image-height": {Column: "p." + schema.Post.Height, Kind: FieldNumber},
		"safety":   {Column: "p." + schema.Post.Safety, Kind: FieldEnum},
		"type":     {Column: "p." + schema.Post.Type, Kind: FieldEnum},
		"source":   {Column: "p." + schema.Post.Source, Kind: FieldText},
		"checksum": {Column: "p." + schema.Post.Checksum, Kind: FieldText},
		"md5":      {Column: "p." + schema.Post.MD5, Kind: FieldText},
		"creation-date": {Column: "p." + schema.Post.CreationTime, Kind: FieldDate},
		"uploader": {
			Column: "u." + schema.User.Name, Kind: FieldNameLookup,
			NameTable: schema.User.Table + " u", NameJoinColumn: "u." + schema.User.ID, OwnerColumn: "p." + schema.Post.UploaderID,
		},
		"tag": {
			Column: "tn." + schema.TagName.Name, Kind: FieldNameLookup,
			NameTable:      fmt.Sprintf("%s tn JOIN %s pt ON pt.%s = tn.%s", schema.TagName.Table, schema.PostTag.Table, schema.PostTag.TagID, schema.TagName.TagID),
			NameJoinColumn: "pt." + schema.PostTag.PostID, OwnerColumn: "p." + schema.Post.ID,
		},
		"pool": {
			Column: "pn." + schema.PoolName.Name, Kind: FieldNameLookup,
			NameTable:      fmt.Sprintf("%s pn JOIN %s pp ON pp.%s = pn.%s", schema.PoolName.Table, schema.PoolPost.Table, schema.PoolPost.PoolID, schema.PoolName.PoolID),
			NameJoinColumn: "pp." + schema.PoolPost.PostID, OwnerColumn: "p." + schema.Post.ID,
		},
		"tag-count":      {Column: "ps." + schema.PostStatistics.TagCount, Kind: FieldNumber, StatsJoin: postStatsJoin},
		"comment-count":  {Column: "ps." + schema.PostStatistics.CommentCount, Kind: FieldNumber, StatsJoin: postStatsJoin},
		"favorite-count": {Column: "ps." + schema.PostStatistics.FavoriteCount, Kind: FieldNumber, StatsJoin: postStatsJoin},
		"note-count":     {Column: "ps." + schema.PostStatistics.NoteCount, Kind: FieldNumber, StatsJoin: postStatsJoin},
		"relation-count": {Column: "ps." + schema.PostStatistics.RelationCount, Kind: FieldNumber, StatsJoin: postStatsJoin},
		"score":          {Column: "ps." + schema.PostStatistics.Score, Kind: FieldNumber, StatsJoin: postStatsJoin},
		"feature-count":  {Column: "ps." + schema.PostStatistics.FeatureCount, Kind: FieldNumber, StatsJoin: postStatsJoin},
	},
	PrivilegeFilter: func(rank string) string {
		if rank == "anonymous" {
			return "p." + schema.Post.Safety + " = 'safe'"
		}
		return ""
	},
	SpecialFilters: map[string]*SpecialFilter{
		"liked":      {Compile: postScoreFilter(1)},
		"disliked":   {Compile: postScoreFilter(-1)},
		"fav":        {Compile: postFavoriteFilter},
		"tumbleweed": {Join: postStatsJoin, Compile: postTumbleweedFilter},
	},
}

var postStatsJoin = fmt.Sprintf(
	"LEFT JOIN %s ps ON ps.%s = p.%s",
	schema.PostStatistics.Table, schema.PostStatistics.PostID, schema.Post.ID,
)

func postScoreFilter(score int) func(*int, func(interface{}) string) (string, error) {
	return func(callerUserID *int, bind func(interface{}) string) (string, error) {
		if callerUserID == nil {
			return "FALSE", nil
		}
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s WHERE %s = p.%s AND %s = %s AND %s = %s)",
			schema.PostScore.Table, schema.PostScore.PostID, schema.Post.ID,
			schema.PostScore.UserID, bind(*callerUserID),
			schema.PostScore.Score, bind(score),
		), nil
	}
}

func postFavoriteFilter(callerUserID *int, bind func(interface{}) string) (string, error) {
	if callerUserID == nil {
		return "FALSE", nil
	}
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM %s WHERE %s = p.%s AND %s = %s)",
		schema.PostFavorite.Table, schema.PostFavorite.PostID, schema.Post.ID,
		schema.PostFavorite.UserID, bind(*callerUserID),
	), nil
}

// postTumbleweedFilter matches posts nobody has engaged with: no comments,
// no favorites, and a net score of zero.
func postTumbleweedFilter(_ *int, _ func(interface{}) string) (string, error) {
	return fmt.Sprintf(
		"%s = 0 AND %s = 0 AND %s = 0",
		"ps."+schema.PostStatistics.CommentCount, "ps."+schema.PostStatistics.FavoriteCount, "ps."+schema.PostStatistics.Score,
	), nil
}

// Tag is a smaller resource: name lookup plus usage_count sort, per §9's
// Categorised family shared with Pool.
var Tag = &Resource{
	Table:          schema.Tag.Table,
	Alias:          "t",
	IDColumn:       "t." + schema.Tag.ID,
	DefaultField:   "name",
	DefaultSortCol: "ts." + schema.TagStatistics.UsageCount,
	BaseColumns:    []string{"t." + schema.Tag.ID, "t." + schema.Tag.CategoryID, "t." + schema.Tag.CreationTime, "t." + schema.Tag.LastEditTime},
	SortColumns: map[string]string{
		"id":          "t." + schema.Tag.ID,
		"usage-count": "ts." + schema.TagStatistics.UsageCount,
	},
	Fields: map[string]*Field{
		"name":     {Column: schema.TagName.Name, Kind: FieldNameLookup, NameTable: schema.TagName.Table, NameJoinColumn: schema.TagName.TagID, OwnerColumn: "t." + schema.Tag.ID},
		"category": {Column: "t." + schema.Tag.CategoryID, Kind: FieldNumber},
		"usage-count": {
			Column: "ts." + schema.TagStatistics.UsageCount, Kind: FieldNumber,
			StatsJoin: fmt.Sprintf("LEFT JOIN %s ts ON ts.%s = t.%s", schema.TagStatistics.Table, schema.TagStatistics.TagID, schema.Tag.ID),
		},
	},
}

// Pool mirrors Tag; pools have no per-pool usage counter, only a per-category one.
var Pool = &Resource{
	Table:          schema.Pool.Table,
	Alias:          "pl",
	IDColumn:       "pl." + schema.Pool.ID,
	DefaultField:   "name",
	DefaultSortCol: "pl." + schema.Pool.ID,
	BaseColumns:    []string{"pl." + schema.Pool.ID, "pl." + schema.Pool.CategoryID, "pl." + schema.Pool.CreationTime, "pl." + schema.Pool.LastEditTime},
	SortColumns:    map[string]string{"id": "pl." + schema.Pool.ID},
	Fields: map[string]*Field{
		"name":     {Column: schema.PoolName.Name, Kind: FieldNameLookup, NameTable: schema.PoolName.Table, NameJoinColumn: schema.PoolName.PoolID, OwnerColumn: "pl." + schema.Pool.ID},
		"category": {Column: "pl." + schema.Pool.CategoryID, Kind: FieldNumber},
	},
}

// Comment is the simplest resource: text and post-id search, sorted by id only.
var Comment = &Resource{
	Table:          schema.Comment.Table,
	Alias:          "c",
	IDColumn:       "c." + schema.Comment.ID,
	DefaultField:   "text",
	DefaultSortCol: "c." + schema.Comment.ID,
	BaseColumns:    []string{"c." + schema.Comment.ID, "c." + schema.Comment.PostID, "c." + schema.Comment.UserID, "c." + schema.Comment.Text, "c." + schema.Comment.CreationTime},
	SortColumns:    map[string]string{"id": "c." + schema.Comment.ID},
	Fields: map[string]*Field{
		"text": {Column: "c." + schema.Comment.Text, Kind: FieldText},
		"post": {Column: "c." + schema.Comment.PostID, Kind: FieldNumber},
	},
}

// User is queried by name and rank. It defines no statistics join, so the
// per-user counters in user_statistics are not queryable here.
var User = &Resource{
	Table:          schema.User.Table,
	Alias:          "u",
	IDColumn:       "u." + schema.User.ID,
	DefaultField:   "name",
	DefaultSortCol: "u." + schema.User.ID,
	BaseColumns:    []string{"u." + schema.User.ID, "u." + schema.User.Name, "u." + schema.User.Rank, "u." + schema.User.CreationTime},
	SortColumns:    map[string]string{"id": "u." + schema.User.ID},
	Fields: map[string]*Field{
		"name": {Column: "u." + schema.User.Name, Kind: FieldText},
		"rank": {Column: "u." + schema.User.Rank, Kind: FieldEnum},
	},
}
