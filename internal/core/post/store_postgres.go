// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"encoding/json"
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

// # Post

func (r *PostgresRepository) Create(ctx context.Context, p *Post, tagIDs []int, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_create_post")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s, %s, %s`,
		schema.Post.Table,
		schema.Post.UploaderID, schema.Post.FileSize, schema.Post.Width, schema.Post.Height,
		schema.Post.Safety, schema.Post.Type, schema.Post.MimeType, schema.Post.Checksum,
		schema.Post.MD5, schema.Post.Flags, schema.Post.Source,
		schema.Post.ID, schema.Post.CreationTime, schema.Post.LastEditTime,
	)
	err = tx.QueryRow(ctx, query,
		p.UploaderID, p.FileSize, p.Width, p.Height, p.Safety, p.Type, p.MimeType,
		p.Checksum, p.MD5, p.Flags, p.Source,
	).Scan(&p.ID, &p.CreationTime, &p.LastEditTime)
	if err != nil {
		return dberr.Wrap(err, "create_post")
	}

	statsQuery := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1)`, schema.PostStatistics.Table, schema.PostStatistics.PostID)
	if _, err := tx.Exec(ctx, statsQuery, p.ID); err != nil {
		return dberr.Wrap(err, "init_post_statistics")
	}

	if len(tagIDs) > 0 {
		if err := r.setTagsTx(ctx, tx, p.ID, tagIDs); err != nil {
			return err
		}
	}
	p.TagIDs = tagIDs

	rec := snapshot.NewRecorder(tx)
	if err := rec.Created(ctx, actorUserID, "post", p.ID, p.Checksum, p); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_create_post")
	}
	return nil
}

func (r *PostgresRepository) baseQuery(where string) string {
	return fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s
		FROM %s p
		WHERE %s`,
		schema.Post.ID, schema.Post.UploaderID, schema.Post.FileSize, schema.Post.Width, schema.Post.Height,
		schema.Post.Safety, schema.Post.Type, schema.Post.MimeType, schema.Post.Checksum, schema.Post.MD5,
		schema.Post.Flags, schema.Post.Source, schema.Post.CreationTime, schema.Post.LastEditTime,
		schema.Post.GeneratedThumbnailSize,
		schema.Post.Table,
		where,
	)
}

// ScanRow reads one post row in the column order produced by baseQuery and
// by compile.Post.BaseColumns (internal/query/compile), so the search
// endpoint can scan a result page with the exact same helper as a direct
// fetch. row accepts both pgx.Row and pgx.Rows, since both satisfy the
// single-method Scan interface.
func ScanRow(row pgx.Row) (*Post, error) {
	p := &Post{}
	if err := row.Scan(&p.ID, &p.UploaderID, &p.FileSize, &p.Width, &p.Height, &p.Safety, &p.Type,
		&p.MimeType, &p.Checksum, &p.MD5, &p.Flags, &p.Source, &p.CreationTime, &p.LastEditTime,
		&p.GeneratedThumbnailSize); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Post, error) {
	p, err := ScanRow(r.db.QueryRow(ctx, r.baseQuery(fmt.Sprintf("p.%s = $1", schema.Post.ID)), id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_post_by_id")
	}
	return p, nil
}

func (r *PostgresRepository) GetByChecksum(ctx context.Context, checksum string) (*Post, error) {
	p, err := ScanRow(r.db.QueryRow(ctx, r.baseQuery(fmt.Sprintf("p.%s = $1", schema.Post.Checksum)), checksum))
	if err != nil {
		return nil, dberr.Wrap(err, "get_post_by_checksum")
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, before, after *Post, expectedVersion time.Time, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_update_post")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = now()
		WHERE %s = $6 AND %s = $7
		RETURNING %s`,
		schema.Post.Table,
		schema.Post.Safety, schema.Post.Source, schema.Post.Flags, schema.Post.CustomThumbnailSize,
		schema.Post.UploaderID, schema.Post.LastEditTime,
		schema.Post.ID, schema.Post.LastEditTime,
		schema.Post.LastEditTime,
	)
	err = tx.QueryRow(ctx, query, after.Safety, after.Source, after.Flags, after.CustomThumbnailSize, after.UploaderID,
		after.ID, expectedVersion).Scan(&after.LastEditTime)
	if err != nil {
		wrapped := dberr.Wrap(err, "update_post")
		if ae := apperr.As(wrapped); ae != nil && ae.Code == "NOT_FOUND" {
			return apperr.ResourceModified("Post")
		}
		return wrapped
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Modified(ctx, actorUserID, "post", after.ID, after.Checksum, before, after); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_update_post")
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, p *Post, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_post")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec := snapshot.NewRecorder(tx)
	if err := rec.Deleted(ctx, actorUserID, "post", p.ID, p.Checksum, p); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Post.Table, schema.Post.ID)
	tag, err := tx.Exec(ctx, query, p.ID)
	if err != nil {
		return dberr.Wrap(err, "delete_post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_delete_post")
	}
	return nil
}

// # Tags

func (r *PostgresRepository) GetTagIDs(ctx context.Context, postID int) ([]int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, schema.PostTag.TagID, schema.PostTag.Table, schema.PostTag.PostID)
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, dberr.Wrap(err, "get_post_tag_ids")
	}
	defer rows.Close()
	return scanInts(rows)
}

func (r *PostgresRepository) SetTags(ctx context.Context, postID int, tagIDs []int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_set_post_tags")
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := r.setTagsTx(ctx, tx, postID, tagIDs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_set_post_tags")
	}
	return nil
}

// setTagsTx applies the minimal added/removed diff against the current
// tag set so per-row deferred triggers fire once each, per §4.F.5.
func (r *PostgresRepository) setTagsTx(ctx context.Context, tx pgx.Tx, postID int, tagIDs []int) error {
	current := make(map[int]bool)
	selectQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, schema.PostTag.TagID, schema.PostTag.Table, schema.PostTag.PostID)
	rows, err := tx.Query(ctx, selectQuery, postID)
	if err != nil {
		return dberr.Wrap(err, "read_current_post_tags")
	}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return dberr.Wrap(err, "scan_current_post_tag")
		}
		current[id] = true
	}
	rows.Close()

	wanted := make(map[int]bool, len(tagIDs))
	for _, id := range tagIDs {
		wanted[id] = true
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`, schema.PostTag.Table, schema.PostTag.PostID, schema.PostTag.TagID)
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, schema.PostTag.Table, schema.PostTag.PostID, schema.PostTag.TagID)

	for id := range wanted {
		if !current[id] {
			if _, err := tx.Exec(ctx, insertQuery, postID, id); err != nil {
				return dberr.Wrap(err, "add_post_tag")
			}
		}
	}
	for id := range current {
		if !wanted[id] {
			if _, err := tx.Exec(ctx, deleteQuery, postID, id); err != nil {
				return dberr.Wrap(err, "remove_post_tag")
			}
		}
	}
	return nil
}

// # Relations

func (r *PostgresRepository) GetRelationIDs(ctx context.Context, postID int) ([]int, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1
		UNION
		SELECT %s FROM %s WHERE %s = $1`,
		schema.PostRelation.ChildID, schema.PostRelation.Table, schema.PostRelation.ParentID,
		schema.PostRelation.ParentID, schema.PostRelation.Table, schema.PostRelation.ChildID,
	)
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, dberr.Wrap(err, "get_post_relation_ids")
	}
	defer rows.Close()
	return scanInts(rows)
}

func (r *PostgresRepository) WouldCycle(ctx context.Context, parentID, childID int) (bool, error) {
	if parentID == childID {
		return true, nil
	}
	query := fmt.Sprintf(`
		WITH RECURSIVE reachable(id) AS (
			SELECT %s FROM %s WHERE %s = $1
			UNION
			SELECT e.%s FROM %s e JOIN reachable r ON e.%s = r.id
		)
		SELECT EXISTS (SELECT 1 FROM reachable WHERE id = $2)`,
		schema.PostRelation.ChildID, schema.PostRelation.Table, schema.PostRelation.ParentID,
		schema.PostRelation.ChildID, schema.PostRelation.Table, schema.PostRelation.ParentID,
	)
	var exists bool
	if err := r.db.QueryRow(ctx, query, childID, parentID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "post_relation_cycle_check")
	}
	return exists, nil
}

func (r *PostgresRepository) SetRelations(ctx context.Context, postID int, relatedIDs []int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_set_post_relations")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 OR %s = $1`,
		schema.PostRelation.Table, schema.PostRelation.ParentID, schema.PostRelation.ChildID)
	if _, err := tx.Exec(ctx, del, postID); err != nil {
		return dberr.Wrap(err, "clear_post_relations")
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.PostRelation.Table, schema.PostRelation.ParentID, schema.PostRelation.ChildID)
	for _, relatedID := range relatedIDs {
		if _, err := tx.Exec(ctx, insert, postID, relatedID); err != nil {
			return dberr.Wrap(err, "insert_post_relation")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_set_post_relations")
	}
	return nil
}

// # Favorites

func (r *PostgresRepository) AddFavorite(ctx context.Context, postID, userID int) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, now()) ON CONFLICT DO NOTHING`,
		schema.PostFavorite.Table, schema.PostFavorite.PostID, schema.PostFavorite.UserID, schema.PostFavorite.Time)
	if _, err := r.db.Exec(ctx, query, postID, userID); err != nil {
		return dberr.Wrap(err, "add_post_favorite")
	}
	return nil
}

func (r *PostgresRepository) RemoveFavorite(ctx context.Context, postID, userID int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.PostFavorite.Table, schema.PostFavorite.PostID, schema.PostFavorite.UserID)
	if _, err := r.db.Exec(ctx, query, postID, userID); err != nil {
		return dberr.Wrap(err, "remove_post_favorite")
	}
	return nil
}

func (r *PostgresRepository) ListFavoriteUserIDs(ctx context.Context, postID int) ([]int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		schema.PostFavorite.UserID, schema.PostFavorite.Table, schema.PostFavorite.PostID, schema.PostFavorite.Time)
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_post_favorites")
	}
	defer rows.Close()
	return scanInts(rows)
}

// # Features

func (r *PostgresRepository) Feature(ctx context.Context, postID, userID int) (*Feature, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, now())
		RETURNING %s, %s, %s, %s`,
		schema.PostFeature.Table, schema.PostFeature.PostID, schema.PostFeature.UserID,
		schema.PostFeature.ID, schema.PostFeature.PostID, schema.PostFeature.UserID, schema.PostFeature.Time,
	)
	f := &Feature{}
	if err := r.db.QueryRow(ctx, query, postID, userID).Scan(&f.ID, &f.PostID, &f.UserID, &f.Time); err != nil {
		return nil, dberr.Wrap(err, "feature_post")
	}
	return f, nil
}

func (r *PostgresRepository) GetCurrentFeature(ctx context.Context) (*Feature, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s ORDER BY %s DESC LIMIT 1`,
		schema.PostFeature.ID, schema.PostFeature.PostID, schema.PostFeature.UserID, schema.PostFeature.Time,
		schema.PostFeature.Table, schema.PostFeature.Time,
	)
	f := &Feature{}
	if err := r.db.QueryRow(ctx, query).Scan(&f.ID, &f.PostID, &f.UserID, &f.Time); err != nil {
		return nil, dberr.Wrap(err, "get_current_feature")
	}
	return f, nil
}

// # Notes

func (r *PostgresRepository) ListNotes(ctx context.Context, postID int) ([]*Note, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.PostNote.ID, schema.PostNote.Polygon, schema.PostNote.Text,
		schema.PostNote.Table, schema.PostNote.PostID, schema.PostNote.ID,
	)
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_post_notes")
	}
	defer rows.Close()

	notes := make([]*Note, 0)
	for rows.Next() {
		n := &Note{PostID: postID}
		var polygonJSON []byte
		if err := rows.Scan(&n.ID, &polygonJSON, &n.Text); err != nil {
			return nil, dberr.Wrap(err, "scan_post_note")
		}
		if err := json.Unmarshal(polygonJSON, &n.Polygon); err != nil {
			return nil, dberr.Wrap(err, "decode_post_note_polygon")
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func (r *PostgresRepository) SetNotes(ctx context.Context, postID int, notes []Note) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_set_post_notes")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.PostNote.Table, schema.PostNote.PostID)
	if _, err := tx.Exec(ctx, del, postID); err != nil {
		return dberr.Wrap(err, "clear_post_notes")
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.PostNote.Table, schema.PostNote.PostID, schema.PostNote.Polygon, schema.PostNote.Text)
	for _, n := range notes {
		polygonJSON, err := json.Marshal(n.Polygon)
		if err != nil {
			return dberr.Wrap(err, "encode_post_note_polygon")
		}
		if _, err := tx.Exec(ctx, insert, postID, polygonJSON, n.Text); err != nil {
			return dberr.Wrap(err, "insert_post_note")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_set_post_notes")
	}
	return nil
}

// # Score

func (r *PostgresRepository) SetScore(ctx context.Context, postID, userID, score int) error {
	if score == 0 {
		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
			schema.PostScore.Table, schema.PostScore.PostID, schema.PostScore.UserID)
		if _, err := r.db.Exec(ctx, query, postID, userID); err != nil {
			return dberr.Wrap(err, "clear_post_score")
		}
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, now())
		ON CONFLICT (%s, %s) DO UPDATE SET %s = excluded.%s, %s = now()`,
		schema.PostScore.Table, schema.PostScore.PostID, schema.PostScore.UserID, schema.PostScore.Score, schema.PostScore.Time,
		schema.PostScore.PostID, schema.PostScore.UserID, schema.PostScore.Score, schema.PostScore.Score, schema.PostScore.Time,
	)
	if _, err := r.db.Exec(ctx, query, postID, userID, score); err != nil {
		return dberr.Wrap(err, "set_post_score")
	}
	return nil
}

func (r *PostgresRepository) GetScore(ctx context.Context, postID, userID int) (int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.PostScore.Score, schema.PostScore.Table, schema.PostScore.PostID, schema.PostScore.UserID)
	var score int
	err := r.db.QueryRow(ctx, query, postID, userID).Scan(&score)
	if err != nil {
		wrapped := dberr.Wrap(err, "get_post_score")
		if ae := apperr.As(wrapped); ae != nil && ae.Code == "NOT_FOUND" {
			return 0, nil
		}
		return 0, wrapped
	}
	return score, nil
}

// # Signature

func (r *PostgresRepository) SetSignature(ctx context.Context, sig *Signature) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		ON CONFLICT (%s) DO UPDATE SET %s = excluded.%s, %s = excluded.%s`,
		schema.PostSignature.Table, schema.PostSignature.PostID, schema.PostSignature.Signature, schema.PostSignature.Words,
		schema.PostSignature.PostID,
		schema.PostSignature.Signature, schema.PostSignature.Signature,
		schema.PostSignature.Words, schema.PostSignature.Words,
	)
	if _, err := r.db.Exec(ctx, query, sig.PostID, signatureToBytes(sig.Signature), sig.Words); err != nil {
		return dberr.Wrap(err, "set_post_signature")
	}
	return nil
}

func (r *PostgresRepository) GetSignature(ctx context.Context, postID int) (*Signature, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		schema.PostSignature.Signature, schema.PostSignature.Words, schema.PostSignature.Table, schema.PostSignature.PostID)
	var raw []byte
	sig := &Signature{PostID: postID}
	if err := r.db.QueryRow(ctx, query, postID).Scan(&raw, &sig.Words); err != nil {
		return nil, dberr.Wrap(err, "get_post_signature")
	}
	sig.Signature = bytesToSignature(raw)
	return sig, nil
}

// wordOverlapSafetyCap bounds FindByWordOverlap against a pathological
// query (e.g. a near-blank image whose words match a large fraction of an
// enormous corpus) without turning into the per-request truncation the
// coarse filter must avoid: at this many rows something is already
// degenerate, and a bigger table deserves a real LIMIT/OFFSET admin query,
// not a silent cutoff baked into reverse search.
const wordOverlapSafetyCap = 50_000

// FindByWordOverlap returns signatures sharing at least one coarse index
// word with words, the coarse stage of the two-tier reverse search (§4.C).
// It is intentionally not truncated to the caller's result limit — the
// fine normalised-distance pass that follows is what prunes the candidate
// set, per §4.C's "typically 5-20% of the corpus, not truncated" rule.
func (r *PostgresRepository) FindByWordOverlap(ctx context.Context, words []int32) ([]*Signature, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s FROM %s
		WHERE %s && $1
		LIMIT $2`,
		schema.PostSignature.PostID, schema.PostSignature.Signature, schema.PostSignature.Words,
		schema.PostSignature.Table, schema.PostSignature.Words,
	)
	rows, err := r.db.Query(ctx, query, words, wordOverlapSafetyCap)
	if err != nil {
		return nil, dberr.Wrap(err, "find_signatures_by_word_overlap")
	}
	defer rows.Close()

	sigs := make([]*Signature, 0)
	for rows.Next() {
		var raw []byte
		sig := &Signature{}
		if err := rows.Scan(&sig.PostID, &raw, &sig.Words); err != nil {
			return nil, dberr.Wrap(err, "scan_signature")
		}
		sig.Signature = bytesToSignature(raw)
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// # Admin iteration

// ListPage returns up to limit posts with id > afterID, ordered by id
// ascending — the cursor resumable admin jobs (internal/admin) walk
// forward over.
func (r *PostgresRepository) ListPage(ctx context.Context, afterID, limit int) ([]*Post, error) {
	query := r.baseQuery(fmt.Sprintf("p.%s > $1", schema.Post.ID)) + fmt.Sprintf(" ORDER BY p.%s ASC LIMIT $2", schema.Post.ID)
	rows, err := r.db.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_posts_page")
	}
	defer rows.Close()

	posts := make([]*Post, 0, limit)
	for rows.Next() {
		p, err := ScanRow(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_post_page")
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func scanInts(rows pgx.Rows) ([]int, error) {
	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "scan_int")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
