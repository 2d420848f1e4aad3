package schema

// CommentTable represents the 'comment' table.
type CommentTable struct {
	Table        string
	ID           string
	PostID       string
	UserID       string
	Text         string
	CreationTime string
	LastEditTime string
}

var Comment = CommentTable{
	Table:        "comment",
	ID:           "id",
	PostID:       "post_id",
	UserID:       "user_id",
	Text:         "text",
	CreationTime: "creation_time",
	LastEditTime: "last_edit_time",
}

func (t CommentTable) Columns() []string {
	return []string{t.ID, t.PostID, t.UserID, t.Text, t.CreationTime, t.LastEditTime}
}

// CommentScoreTable represents the 'comment_score' table.
type CommentScoreTable struct {
	Table     string
	CommentID string
	UserID    string
	Score     string
	Time      string
}

var CommentScore = CommentScoreTable{
	Table:     "comment_score",
	CommentID: "comment_id",
	UserID:    "user_id",
	Score:     "score",
	Time:      "time",
}

func (t CommentScoreTable) Columns() []string {
	return []string{t.CommentID, t.UserID, t.Score, t.Time}
}
