package schema

// PostTable represents the 'post' table.
type PostTable struct {
	Table                  string
	ID                     string
	UploaderID             string
	FileSize               string
	Width                  string
	Height                 string
	Safety                 string
	Type                   string
	MimeType               string
	Checksum               string
	MD5                    string
	Flags                  string
	Source                 string
	CreationTime           string
	LastEditTime           string
	GeneratedThumbnailSize string
	CustomThumbnailSize    string
}

var Post = PostTable{
	Table:                  "post",
	ID:                     "id",
	UploaderID:             "uploader_id",
	FileSize:               "file_size",
	Width:                  "width",
	Height:                 "height",
	Safety:                 "safety",
	Type:                   "type",
	MimeType:               "mime_type",
	Checksum:               "checksum",
	MD5:                    "md5",
	Flags:                  "flags",
	Source:                 "source",
	CreationTime:           "creation_time",
	LastEditTime:           "last_edit_time",
	GeneratedThumbnailSize: "generated_thumbnail_size",
	CustomThumbnailSize:    "custom_thumbnail_size",
}

func (t PostTable) Columns() []string {
	return []string{t.ID, t.UploaderID, t.FileSize, t.Width, t.Height, t.Safety, t.Type, t.MimeType,
		t.Checksum, t.MD5, t.Flags, t.Source, t.CreationTime, t.LastEditTime,
		t.GeneratedThumbnailSize, t.CustomThumbnailSize}
}

// PostRelationTable represents the 'post_relation' table (one row per related pair, read in both directions).
type PostRelationTable struct {
	Table    string
	ParentID string
	ChildID  string
}

var PostRelation = PostRelationTable{Table: "post_relation", ParentID: "parent_id", ChildID: "child_id"}

func (t PostRelationTable) Columns() []string { return []string{t.ParentID, t.ChildID} }

// PostTagTable represents the 'post_tag' join table.
type PostTagTable struct {
	Table  string
	PostID string
	TagID  string
}

var PostTag = PostTagTable{Table: "post_tag", PostID: "post_id", TagID: "tag_id"}

func (t PostTagTable) Columns() []string { return []string{t.PostID, t.TagID} }

// PostFavoriteTable represents the 'post_favorite' join table.
type PostFavoriteTable struct {
	Table  string
	PostID string
	UserID string
	Time   string
}

var PostFavorite = PostFavoriteTable{Table: "post_favorite", PostID: "post_id", UserID: "user_id", Time: "time"}

func (t PostFavoriteTable) Columns() []string { return []string{t.PostID, t.UserID, t.Time} }

// PostFeatureTable represents the 'post_feature' table (historical featuring events).
type PostFeatureTable struct {
	Table  string
	ID     string
	PostID string
	UserID string
	Time   string
}

var PostFeature = PostFeatureTable{Table: "post_feature", ID: "id", PostID: "post_id", UserID: "user_id", Time: "time"}

func (t PostFeatureTable) Columns() []string { return []string{t.ID, t.PostID, t.UserID, t.Time} }

// PostNoteTable represents the 'post_note' table (image region annotations).
type PostNoteTable struct {
	Table   string
	ID      string
	PostID  string
	Polygon string
	Text    string
}

var PostNote = PostNoteTable{
	Table:   "post_note",
	ID:      "id",
	PostID:  "post_id",
	Polygon: "polygon",
	Text:    "text",
}

func (t PostNoteTable) Columns() []string { return []string{t.ID, t.PostID, t.Polygon, t.Text} }

// PostScoreTable represents the 'post_score' table.
type PostScoreTable struct {
	Table  string
	PostID string
	UserID string
	Score  string
	Time   string
}

var PostScore = PostScoreTable{Table: "post_score", PostID: "post_id", UserID: "user_id", Score: "score", Time: "time"}

func (t PostScoreTable) Columns() []string { return []string{t.PostID, t.UserID, t.Score, t.Time} }

// PostSignatureTable represents the 'post_signature' table: the perceptual hash.
type PostSignatureTable struct {
	Table     string
	PostID    string
	Signature string
	Words     string
}

var PostSignature = PostSignatureTable{
	Table:     "post_signature",
	PostID:    "post_id",
	Signature: "signature",
	Words:     "words",
}

func (t PostSignatureTable) Columns() []string { return []string{t.PostID, t.Signature, t.Words} }
