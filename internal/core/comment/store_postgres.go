// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/platform/database/schema"
	"github.com/yomira/booru/internal/platform/dberr"
	"github.com/yomira/booru/internal/platform/snapshot"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *Comment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_create_comment")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s, %s`,
		schema.Comment.Table, schema.Comment.PostID, schema.Comment.UserID, schema.Comment.Text,
		schema.Comment.ID, schema.Comment.CreationTime, schema.Comment.LastEditTime,
	)
	if err := tx.QueryRow(ctx, query, c.PostID, c.UserID, c.Text).Scan(&c.ID, &c.CreationTime, &c.LastEditTime); err != nil {
		return dberr.Wrap(err, "create_comment")
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Created(ctx, c.UserID, "comment", c.ID, c.Text, c); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_create_comment")
	}
	return nil
}

func (r *PostgresRepository) baseQuery(where string) string {
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
			COALESCE((SELECT sum(%s) FROM %s WHERE %s = c.%s), 0)
		FROM %s c
		WHERE %s`,
		schema.Comment.ID, schema.Comment.PostID, schema.Comment.UserID, schema.Comment.Text,
		schema.Comment.CreationTime, schema.Comment.LastEditTime,
		schema.CommentScore.Score, schema.CommentScore.Table, schema.CommentScore.CommentID, schema.Comment.ID,
		schema.Comment.Table,
		where,
	)
}

func (r *PostgresRepository) scan(row pgx.Row) (*Comment, error) {
	c := &Comment{}
	if err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreationTime, &c.LastEditTime, &c.Score); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Comment, error) {
	c, err := r.scan(r.db.QueryRow(ctx, r.baseQuery(fmt.Sprintf("c.%s = $1", schema.Comment.ID)), id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_comment_by_id")
	}
	return c, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID int, offset, limit int) ([]*Comment, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, schema.Comment.Table, schema.Comment.PostID)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, postID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	query := r.baseQuery(fmt.Sprintf("c.%s = $1", schema.Comment.PostID)) +
		fmt.Sprintf(" ORDER BY c.%s DESC OFFSET $2 LIMIT $3", schema.Comment.ID)
	rows, err := r.db.Query(ctx, query, postID, offset, limit)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, c)
	}
	return comments, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, before, after *Comment, expectedVersion time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_update_comment")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = now()
		WHERE %s = $2 AND %s = $3
		RETURNING %s`,
		schema.Comment.Table, schema.Comment.Text, schema.Comment.LastEditTime,
		schema.Comment.ID, schema.Comment.LastEditTime,
		schema.Comment.LastEditTime,
	)
	if err := tx.QueryRow(ctx, query, after.Text, after.ID, expectedVersion).Scan(&after.LastEditTime); err != nil {
		wrapped := dberr.Wrap(err, "update_comment")
		if ae := apperr.As(wrapped); ae != nil && ae.Code == "NOT_FOUND" {
			return apperr.ResourceModified("Comment")
		}
		return wrapped
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Modified(ctx, after.UserID, "comment", after.ID, after.Text, before, after); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_update_comment")
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, c *Comment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_comment")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec := snapshot.NewRecorder(tx)
	if err := rec.Deleted(ctx, c.UserID, "comment", c.ID, c.Text, c); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Comment.Table, schema.Comment.ID)
	tag, err := tx.Exec(ctx, query, c.ID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_delete_comment")
	}
	return nil
}

func (r *PostgresRepository) SetScore(ctx context.Context, commentID, userID, score int) error {
	if score == 0 {
		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
			schema.CommentScore.Table, schema.CommentScore.CommentID, schema.CommentScore.UserID)
		if _, err := r.db.Exec(ctx, query, commentID, userID); err != nil {
			return dberr.Wrap(err, "clear_comment_score")
		}
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, now())
		ON CONFLICT (%s, %s) DO UPDATE SET %s = excluded.%s, %s = now()`,
		schema.CommentScore.Table, schema.CommentScore.CommentID, schema.CommentScore.UserID,
		schema.CommentScore.Score, schema.CommentScore.Time,
		schema.CommentScore.CommentID, schema.CommentScore.UserID,
		schema.CommentScore.Score, schema.CommentScore.Score, schema.CommentScore.Time,
	)
	if _, err := r.db.Exec(ctx, query, commentID, userID, score); err != nil {
		return dberr.Wrap(err, "set_comment_score")
	}
	return nil
}

func (r *PostgresRepository) GetScore(ctx context.Context, commentID, userID int) (int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CommentScore.Score, schema.CommentScore.Table, schema.CommentScore.CommentID, schema.CommentScore.UserID)
	var score int
	err := r.db.QueryRow(ctx, query, commentID, userID).Scan(&score)
	if err != nil {
		wrapped := dberr.Wrap(err, "get_comment_score")
		if ae := apperr.As(wrapped); ae != nil && ae.Code == "NOT_FOUND" {
			return 0, nil
		}
		return 0, wrapped
	}
	return score, nil
}
