package schema

// DatabaseStatisticsTable represents the singleton 'database_statistics' row.
type DatabaseStatisticsTable struct {
	Table        string
	ID           string
	DiskUsage    string
	CommentCount string
	PoolCount    string
	PostCount    string
	TagCount     string
	UserCount    string
}

var DatabaseStatistics = DatabaseStatisticsTable{
	Table:        "database_statistics",
	ID:           "id",
	DiskUsage:    "disk_usage",
	CommentCount: "comment_count",
	PoolCount:    "pool_count",
	PostCount:    "post_count",
	TagCount:     "tag_count",
	UserCount:    "user_count",
}

// PostStatisticsTable represents the 'post_statistics' table.
type PostStatisticsTable struct {
	Table             string
	PostID            string
	TagCount          string
	PoolCount         string
	NoteCount         string
	CommentCount      string
	RelationCount     string
	Score             string
	FavoriteCount     string
	FeatureCount      string
	LastCommentTime   string
	LastFavoriteTime  string
	LastFeatureTime   string
}

var PostStatistics = PostStatisticsTable{
	Table:            "post_statistics",
	PostID:           "post_id",
	TagCount:         "tag_count",
	PoolCount:        "pool_count",
	NoteCount:        "note_count",
	CommentCount:     "comment_count",
	RelationCount:    "relation_count",
	Score:            "score",
	FavoriteCount:    "favorite_count",
	FeatureCount:     "feature_count",
	LastCommentTime:  "last_comment_time",
	LastFavoriteTime: "last_favorite_time",
	LastFeatureTime:  "last_feature_time",
}

// TagStatisticsTable represents the 'tag_statistics' table.
type TagStatisticsTable struct {
	Table             string
	TagID             string
	UsageCount        string
	ImplicationCount  string
	SuggestionCount   string
}

var TagStatistics = TagStatisticsTable{
	Table:            "tag_statistics",
	TagID:            "tag_id",
	UsageCount:       "usage_count",
	ImplicationCount: "implication_count",
	SuggestionCount:  "suggestion_count",
}

// TagCategoryStatisticsTable represents the 'tag_category_statistics' table.
type TagCategoryStatisticsTable struct {
	Table      string
	CategoryID string
	UsageCount string
}

var TagCategoryStatistics = TagCategoryStatisticsTable{
	Table:      "tag_category_statistics",
	CategoryID: "category_id",
	UsageCount: "usage_count",
}

// PoolCategoryStatisticsTable represents the 'pool_category_statistics' table.
type PoolCategoryStatisticsTable struct {
	Table      string
	CategoryID string
	UsageCount string
}

var PoolCategoryStatistics = PoolCategoryStatisticsTable{
	Table:      "pool_category_statistics",
	CategoryID: "category_id",
	UsageCount: "usage_count",
}

// UserStatisticsTable represents the 'user_statistics' table.
type UserStatisticsTable struct {
	Table         string
	UserID        string
	CommentCount  string
	FavoriteCount string
	UploadCount   string
}

var UserStatistics = UserStatisticsTable{
	Table:         "user_statistics",
	UserID:        "user_id",
	CommentCount:  "comment_count",
	FavoriteCount: "favorite_count",
	UploadCount:   "upload_count",
}

// CommentStatisticsTable represents the 'comment_statistics' table.
type CommentStatisticsTable struct {
	Table     string
	CommentID string
	Score     string
}

var CommentStatistics = CommentStatisticsTable{
	Table:     "comment_statistics",
	CommentID: "comment_id",
	Score:     "score",
}
