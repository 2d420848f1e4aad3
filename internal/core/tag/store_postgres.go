// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

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

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting helpers
// like loadNames run against either a bare pool or an in-flight transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// defaultCategoryID is the reserved category tags reparent to when their
// category is deleted. It cannot itself be deleted.
const defaultCategoryID = 0

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Categories

func (r *PostgresRepository) CreateCategory(ctx context.Context, c *Category, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_create_tag_category")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.TagCategory.Table,
		schema.TagCategory.Name, schema.TagCategory.Color, schema.TagCategory.Order, schema.TagCategory.IsDefault,
		schema.TagCategory.ID, schema.TagCategory.LastEditTime,
	)
	if err := tx.QueryRow(ctx, query, c.Name, c.Color, c.Order, c.IsDefault).Scan(&c.ID, &c.LastEditTime); err != nil {
		return dberr.Wrap(err, "create_tag_category")
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Created(ctx, actorUserID, "tag_category", c.ID, c.Name, c); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_create_tag_category")
	}
	return nil
}

func (r *PostgresRepository) categoryQuery(where string) string {
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, coalesce(s.%s, 0), c.%s
		FROM %s c
		LEFT JOIN %s s ON s.%s = c.%s
		WHERE %s`,
		schema.TagCategory.ID, schema.TagCategory.Name, schema.TagCategory.Color, schema.TagCategory.Order,
		schema.TagCategory.IsDefault, schema.TagCategoryStatistics.UsageCount, schema.TagCategory.LastEditTime,
		schema.TagCategory.Table,
		schema.TagCategoryStatistics.Table, schema.TagCategoryStatistics.CategoryID, schema.TagCategory.ID,
		where,
	)
}

func (r *PostgresRepository) scanCategory(row pgx.Row) (*Category, error) {
	c := &Category{}
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Order, &c.IsDefault, &c.UsageCount, &c.LastEditTime); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) GetCategoryByID(ctx context.Context, id int) (*Category, error) {
	c, err := r.scanCategory(r.db.QueryRow(ctx, r.categoryQuery(fmt.Sprintf("c.%s = $1", schema.TagCategory.ID)), id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_tag_category_by_id")
	}
	return c, nil
}

func (r *PostgresRepository) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	c, err := r.scanCategory(r.db.QueryRow(ctx, r.categoryQuery(fmt.Sprintf("lower(c.%s) = lower($1)", schema.TagCategory.Name)), name))
	if err != nil {
		return nil, dberr.Wrap(err, "get_tag_category_by_name")
	}
	return c, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	query := r.categoryQuery("true") + fmt.Sprintf(" ORDER BY c.%s ASC", schema.TagCategory.Order)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tag_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c, err := r.scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_tag_category")
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, before, after *Category, expectedVersion time.Time, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_update_tag_category")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = now()
		WHERE %s = $5 AND %s = $6
		RETURNING %s`,
		schema.TagCategory.Table,
		schema.TagCategory.Name, schema.TagCategory.Color, schema.TagCategory.Order, schema.TagCategory.IsDefault,
		schema.TagCategory.LastEditTime,
		schema.TagCategory.ID, schema.TagCategory.LastEditTime,
		schema.TagCategory.LastEditTime,
	)
	if err := tx.QueryRow(ctx, query, after.Name, after.Color, after.Order, after.IsDefault, after.ID, expectedVersion).Scan(&after.LastEditTime); err != nil {
		wrapped := dberr.Wrap(err, "update_tag_category")
		if ae := apperr.As(wrapped); ae != nil && ae.Code == "NOT_FOUND" {
			return apperr.ResourceModified("TagCategory")
		}
		return wrapped
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Modified(ctx, actorUserID, "tag_category", after.ID, after.Name, before, after); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_update_tag_category")
	}
	return nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, c *Category, actorUserID *int) error {
	if c.ID == defaultCategoryID {
		return apperr.DeleteDefaultCategory()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_tag_category")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec := snapshot.NewRecorder(tx)
	if err := rec.Deleted(ctx, actorUserID, "tag_category", c.ID, c.Name, c); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.TagCategory.Table, schema.TagCategory.ID)
	tag, err := tx.Exec(ctx, query, c.ID)
	if err != nil {
		return dberr.Wrap(err, "delete_tag_category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("TagCategory")
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_delete_tag_category")
	}
	return nil
}

// # Tags

func (r *PostgresRepository) CreateTag(ctx context.Context, t *Tag, names []string, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_create_tag")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertTag := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s, %s, %s`,
		schema.Tag.Table, schema.Tag.CategoryID, schema.Tag.Description,
		schema.Tag.ID, schema.Tag.CreationTime, schema.Tag.LastEditTime,
	)
	if err := tx.QueryRow(ctx, insertTag, t.CategoryID, t.Description).
		Scan(&t.ID, &t.CreationTime, &t.LastEditTime); err != nil {
		return dberr.Wrap(err, "create_tag")
	}

	if err := insertNames(ctx, tx, schema.TagName.Table, schema.TagName.TagID, schema.TagName.Order, schema.TagName.Name, t.ID, names); err != nil {
		return err
	}
	t.Names = names

	rec := snapshot.NewRecorder(tx)
	if err := rec.Created(ctx, actorUserID, "tag", t.ID, canonicalName(names), t); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_create_tag")
	}
	return nil
}

// canonicalName returns the order-0 name of a Tag or Pool for use as a
// snapshot's human-readable resource_name, falling back to empty when no
// names were supplied (the zero-name case is rejected earlier by the
// service layer, so this only guards against an unexpected empty slice).
func canonicalName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// insertNames inserts an ordered set of CI-unique names for a Tag or Pool
// owner row; order 0 is the canonical name.
func insertNames(ctx context.Context, tx pgx.Tx, table, ownerCol, orderCol, nameCol string, ownerID int, names []string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`, table, ownerCol, orderCol, nameCol)
	for i, name := range names {
		if _, err := tx.Exec(ctx, query, ownerID, i, name); err != nil {
			return dberr.Wrap(err, "insert_name")
		}
	}
	return nil
}

func (r *PostgresRepository) baseTagQuery(where string) string {
	return fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, coalesce(s.%s, 0), coalesce(s.%s, 0), coalesce(s.%s, 0)
		FROM %s t
		LEFT JOIN %s s ON s.%s = t.%s
		WHERE %s`,
		schema.Tag.ID, schema.Tag.CategoryID, schema.Tag.Description, schema.Tag.CreationTime, schema.Tag.LastEditTime,
		schema.TagStatistics.UsageCount, schema.TagStatistics.ImplicationCount, schema.TagStatistics.SuggestionCount,
		schema.Tag.Table,
		schema.TagStatistics.Table, schema.TagStatistics.TagID, schema.Tag.ID,
		where,
	)
}

func (r *PostgresRepository) scanTag(row pgx.Row) (*Tag, error) {
	t := &Tag{}
	var implicationCount, suggestionCount int
	if err := row.Scan(&t.ID, &t.CategoryID, &t.Description, &t.CreationTime, &t.LastEditTime,
		&t.UsageCount, &implicationCount, &suggestionCount); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) loadNames(ctx context.Context, table, ownerCol, orderCol, nameCol string, ownerID int) ([]string, error) {
	return loadNames(ctx, r.db, table, ownerCol, orderCol, nameCol, ownerID)
}

// loadNames reads an owner's ordered name list through q, which may be the
// bare pool or an in-flight transaction (e.g. Merge needs the target's
// canonical name before it commits).
func loadNames(ctx context.Context, q querier, table, ownerCol, orderCol, nameCol string, ownerID int) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`, nameCol, table, ownerCol, orderCol)
	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, nil
}

func (r *PostgresRepository) GetTagByID(ctx context.Context, id int) (*Tag, error) {
	t, err := r.scanTag(r.db.QueryRow(ctx, r.baseTagQuery(fmt.Sprintf("t.%s = $1", schema.Tag.ID)), id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_tag_by_id")
	}
	names, err := r.loadNames(ctx, schema.TagName.Table, schema.TagName.TagID, schema.TagName.Order, schema.TagName.Name, t.ID)
	if err != nil {
		return nil, dberr.Wrap(err, "load_tag_names")
	}
	t.Names = names
	return t, nil
}

func (r *PostgresRepository) GetTagByName(ctx context.Context, name string) (*Tag, error) {
	query := fmt.Sprintf(`
		SELECT n.%s FROM %s n WHERE lower(n.%s) = lower($1)`,
		schema.TagName.TagID, schema.TagName.Table, schema.TagName.Name,
	)
	var tagID int
	if err := r.db.QueryRow(ctx, query, name).Scan(&tagID); err != nil {
		return nil, dberr.Wrap(err, "resolve_tag_name")
	}
	return r.GetTagByID(ctx, tagID)
}

func (r *PostgresRepository) ListTags(ctx context.Context, offset, limit int, namePattern string) ([]*Tag, int, error) {
	where := "true"
	args := []any{}
	if namePattern != "" {
		where = fmt.Sprintf(`EXISTS (SELECT 1 FROM %s n WHERE n.%s = t.%s AND lower(n.%s) LIKE lower($1))`,
			schema.TagName.Table, schema.TagName.TagID, schema.Tag.ID, schema.TagName.Name)
		args = append(args, namePattern)
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s t WHERE %s`, schema.Tag.Table, where)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_tags")
	}

	args = append(args, limit, offset)
	listQuery := r.baseTagQuery(where) + fmt.Sprintf(" ORDER BY coalesce(s.%s, 0) DESC, t.%s DESC LIMIT $%d OFFSET $%d",
		schema.TagStatistics.UsageCount, schema.Tag.ID, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_tags")
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		t, err := r.scanTag(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, t)
	}

	for _, t := range tags {
		names, err := r.loadNames(ctx, schema.TagName.Table, schema.TagName.TagID, schema.TagName.Order, schema.TagName.Name, t.ID)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "load_tag_names")
		}
		t.Names = names
	}

	return tags, total, nil
}

func (r *PostgresRepository) UpdateTag(ctx context.Context, before, after *Tag, names []string, expectedVersion time.Time, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_update_tag")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = now()
		WHERE %s = $3 AND %s = $4
		RETURNING %s`,
		schema.Tag.Table,
		schema.Tag.CategoryID, schema.Tag.Description, schema.Tag.LastEditTime,
		schema.Tag.ID, schema.Tag.LastEditTime,
		schema.Tag.LastEditTime,
	)
	if err := tx.QueryRow(ctx, query, after.CategoryID, after.Description, after.ID, expectedVersion).Scan(&after.LastEditTime); err != nil {
		wrapped := dberr.Wrap(err, "update_tag")
		if ae := apperr.As(wrapped); ae != nil && ae.Code == "NOT_FOUND" {
			return apperr.ResourceModified("Tag")
		}
		return wrapped
	}

	if names != nil {
		del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.TagName.Table, schema.TagName.TagID)
		if _, err := tx.Exec(ctx, del, after.ID); err != nil {
			return dberr.Wrap(err, "clear_tag_names")
		}
		if err := insertNames(ctx, tx, schema.TagName.Table, schema.TagName.TagID, schema.TagName.Order, schema.TagName.Name, after.ID, names); err != nil {
			return err
		}
		after.Names = names
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Modified(ctx, actorUserID, "tag", after.ID, canonicalName(after.Names), before, after); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_update_tag")
	}
	return nil
}

func (r *PostgresRepository) DeleteTag(ctx context.Context, t *Tag, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_tag")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec := snapshot.NewRecorder(tx)
	if err := rec.Deleted(ctx, actorUserID, "tag", t.ID, canonicalName(t.Names), t); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Tag.Table, schema.Tag.ID)
	tag, err := tx.Exec(ctx, query, t.ID)
	if err != nil {
		return dberr.Wrap(err, "delete_tag")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Tag")
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_delete_tag")
	}
	return nil
}

// # Implication / suggestion graphs

// relationTable returns the table name and id columns for a named relation.
func relationTable(relation string) (table, parentCol, childCol string) {
	if relation == "suggestion" {
		return schema.TagSuggestion.Table, schema.TagSuggestion.ParentID, schema.TagSuggestion.ChildID
	}
	return schema.TagImplication.Table, schema.TagImplication.ParentID, schema.TagImplication.ChildID
}

// WouldCycle walks the transitive closure of relation starting at childID,
// looking for parentID. The walk has no depth bound; UNION drops ids that
// were already reached, so it stops once no new id turns up.
func (r *PostgresRepository) WouldCycle(ctx context.Context, relation string, parentID, childID int) (bool, error) {
	if parentID == childID {
		return true, nil
	}

	table, parentCol, childCol := relationTable(relation)
	query := fmt.Sprintf(`
		WITH RECURSIVE reachable(id) AS (
			SELECT %s FROM %s WHERE %s = $1
			UNION
			SELECT e.%s FROM %s e JOIN reachable r ON e.%s = r.id
		)
		SELECT EXISTS (SELECT 1 FROM reachable WHERE id = $2)`,
		childCol, table, parentCol,
		childCol, table, parentCol,
	)

	var exists bool
	if err := r.db.QueryRow(ctx, query, childID, parentID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "cycle_check")
	}
	return exists, nil
}

func (r *PostgresRepository) AddImplication(ctx context.Context, parentID, childID int) error {
	return r.addRelation(ctx, schema.TagImplication.Table, schema.TagImplication.ParentID, schema.TagImplication.ChildID, parentID, childID)
}

func (r *PostgresRepository) RemoveImplication(ctx context.Context, parentID, childID int) error {
	return r.removeRelation(ctx, schema.TagImplication.Table, schema.TagImplication.ParentID, schema.TagImplication.ChildID, parentID, childID)
}

func (r *PostgresRepository) AddSuggestion(ctx context.Context, parentID, childID int) error {
	return r.addRelation(ctx, schema.TagSuggestion.Table, schema.TagSuggestion.ParentID, schema.TagSuggestion.ChildID, parentID, childID)
}

func (r *PostgresRepository) RemoveSuggestion(ctx context.Context, parentID, childID int) error {
	return r.removeRelation(ctx, schema.TagSuggestion.Table, schema.TagSuggestion.ParentID, schema.TagSuggestion.ChildID, parentID, childID)
}

func (r *PostgresRepository) addRelation(ctx context.Context, table, parentCol, childCol string, parentID, childID int) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`, table, parentCol, childCol)
	if _, err := r.db.Exec(ctx, query, parentID, childID); err != nil {
		return dberr.Wrap(err, "add_relation")
	}
	return nil
}

func (r *PostgresRepository) removeRelation(ctx context.Context, table, parentCol, childCol string, parentID, childID int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table, parentCol, childCol)
	if _, err := r.db.Exec(ctx, query, parentID, childID); err != nil {
		return dberr.Wrap(err, "remove_relation")
	}
	return nil
}

// # Merge

func (r *PostgresRepository) Merge(ctx context.Context, sourceID, targetID int, actorUserID *int) error {
	if sourceID == targetID {
		return apperr.SelfMerge("Tag")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_merge_tag")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Re-home post_tag, de-duplicating composite keys that already exist
	// for the target.
	rehomePostTag := fmt.Sprintf(`
		UPDATE %s SET %s = $1
		WHERE %s = $2
		  AND %s NOT IN (SELECT %s FROM %s WHERE %s = $1)`,
		schema.PostTag.Table, schema.PostTag.TagID,
		schema.PostTag.TagID,
		schema.PostTag.PostID, schema.PostTag.PostID, schema.PostTag.Table, schema.PostTag.TagID,
	)
	if _, err := tx.Exec(ctx, rehomePostTag, targetID, sourceID); err != nil {
		return dberr.Wrap(err, "merge_rehome_post_tag")
	}
	dropStalePostTag := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.PostTag.Table, schema.PostTag.TagID)
	if _, err := tx.Exec(ctx, dropStalePostTag, sourceID); err != nil {
		return dberr.Wrap(err, "merge_drop_stale_post_tag")
	}

	for _, rel := range []string{schema.TagImplication.Table, schema.TagSuggestion.Table} {
		parentCol, childCol := schema.TagImplication.ParentID, schema.TagImplication.ChildID
		if rel == schema.TagSuggestion.Table {
			parentCol, childCol = schema.TagSuggestion.ParentID, schema.TagSuggestion.ChildID
		}

		rehomeAsParent := fmt.Sprintf(`
			UPDATE %s SET %s = $1 WHERE %s = $2 AND %s != $1
			  AND %s NOT IN (SELECT %s FROM %s WHERE %s = $1)`,
			rel, parentCol, parentCol, childCol,
			childCol, childCol, rel, parentCol,
		)
		if _, err := tx.Exec(ctx, rehomeAsParent, targetID, sourceID); err != nil {
			return dberr.Wrap(err, "merge_rehome_relation_parent")
		}

		rehomeAsChild := fmt.Sprintf(`
			UPDATE %s SET %s = $1 WHERE %s = $2 AND %s != $1
			  AND %s NOT IN (SELECT %s FROM %s WHERE %s = $1)`,
			rel, childCol, childCol, parentCol,
			parentCol, parentCol, rel, childCol,
		)
		if _, err := tx.Exec(ctx, rehomeAsChild, targetID, sourceID); err != nil {
			return dberr.Wrap(err, "merge_rehome_relation_child")
		}

		dropStale := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 OR %s = $1`, rel, parentCol, childCol)
		if _, err := tx.Exec(ctx, dropStale, sourceID); err != nil {
			return dberr.Wrap(err, "merge_drop_stale_relation")
		}
	}

	transferUsage := fmt.Sprintf(`
		UPDATE %s SET %s = %s + (SELECT coalesce(%s, 0) FROM %s WHERE %s = $2)
		WHERE %s = $1`,
		schema.TagStatistics.Table, schema.TagStatistics.UsageCount, schema.TagStatistics.UsageCount,
		schema.TagStatistics.UsageCount, schema.TagStatistics.Table, schema.TagStatistics.TagID,
		schema.TagStatistics.TagID,
	)
	if _, err := tx.Exec(ctx, transferUsage, targetID, sourceID); err != nil {
		return dberr.Wrap(err, "merge_transfer_usage")
	}

	dropTag := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Tag.Table, schema.Tag.ID)
	if _, err := tx.Exec(ctx, dropTag, sourceID); err != nil {
		return dberr.Wrap(err, "merge_delete_source_tag")
	}

	targetNames, err := loadNames(ctx, tx, schema.TagName.Table, schema.TagName.TagID, schema.TagName.Order, schema.TagName.Name, targetID)
	if err != nil {
		return dberr.Wrap(err, "load_merge_target_name")
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Merged(ctx, actorUserID, "tag", targetID, canonicalName(targetNames)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_merge_tag")
	}
	return nil
}
