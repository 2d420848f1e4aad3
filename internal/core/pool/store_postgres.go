// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pool

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
// like loadPoolNames run against either a bare pool or an in-flight
// transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// canonicalName returns the order-0 name of a Tag or Pool for use as a
// snapshot's human-readable resource_name.
func canonicalName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// defaultCategoryID is the reserved category pools reparent to when their
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
		return dberr.Wrap(err, "begin_create_pool_category")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.PoolCategory.Table,
		schema.PoolCategory.Name, schema.PoolCategory.Color, schema.PoolCategory.Order, schema.PoolCategory.IsDefault,
		schema.PoolCategory.ID, schema.PoolCategory.LastEditTime,
	)
	if err := tx.QueryRow(ctx, query, c.Name, c.Color, c.Order, c.IsDefault).Scan(&c.ID, &c.LastEditTime); err != nil {
		return dberr.Wrap(err, "create_pool_category")
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Created(ctx, actorUserID, "pool_category", c.ID, c.Name, c); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_create_pool_category")
	}
	return nil
}

func (r *PostgresRepository) categoryQuery(where string) string {
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, coalesce(s.%s, 0), c.%s
		FROM %s c
		LEFT JOIN %s s ON s.%s = c.%s
		WHERE %s`,
		schema.PoolCategory.ID, schema.PoolCategory.Name, schema.PoolCategory.Color, schema.PoolCategory.Order,
		schema.PoolCategory.IsDefault, schema.PoolCategoryStatistics.UsageCount, schema.PoolCategory.LastEditTime,
		schema.PoolCategory.Table,
		schema.PoolCategoryStatistics.Table, schema.PoolCategoryStatistics.CategoryID, schema.PoolCategory.ID,
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
	c, err := r.scanCategory(r.db.QueryRow(ctx, r.categoryQuery(fmt.Sprintf("c.%s = $1", schema.PoolCategory.ID)), id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_pool_category_by_id")
	}
	return c, nil
}

func (r *PostgresRepository) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	c, err := r.scanCategory(r.db.QueryRow(ctx, r.categoryQuery(fmt.Sprintf("lower(c.%s) = lower($1)", schema.PoolCategory.Name)), name))
	if err != nil {
		return nil, dberr.Wrap(err, "get_pool_category_by_name")
	}
	return c, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	query := r.categoryQuery("true") + fmt.Sprintf(" ORDER BY c.%s ASC", schema.PoolCategory.Order)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_pool_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c, err := r.scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_pool_category")
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, before, after *Category, expectedVersion time.Time, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_update_pool_category")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = now()
		WHERE %s = $5 AND %s = $6
		RETURNING %s`,
		schema.PoolCategory.Table,
		schema.PoolCategory.Name, schema.PoolCategory.Color, schema.PoolCategory.Order, schema.PoolCategory.IsDefault,
		schema.PoolCategory.LastEditTime,
		schema.PoolCategory.ID, schema.PoolCategory.LastEditTime,
		schema.PoolCategory.LastEditTime,
	)
	if err := tx.QueryRow(ctx, query, after.Name, after.Color, after.Order, after.IsDefault, after.ID, expectedVersion).Scan(&after.LastEditTime); err != nil {
		wrapped := dberr.Wrap(err, "update_pool_category")
		if ae := apperr.As(wrapped); ae != nil && ae.Code == "NOT_FOUND" {
			return apperr.ResourceModified("PoolCategory")
		}
		return wrapped
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Modified(ctx, actorUserID, "pool_category", after.ID, after.Name, before, after); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_update_pool_category")
	}
	return nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, c *Category, actorUserID *int) error {
	if c.ID == defaultCategoryID {
		return apperr.DeleteDefaultCategory()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_pool_category")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec := snapshot.NewRecorder(tx)
	if err := rec.Deleted(ctx, actorUserID, "pool_category", c.ID, c.Name, c); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.PoolCategory.Table, schema.PoolCategory.ID)
	tag, err := tx.Exec(ctx, query, c.ID)
	if err != nil {
		return dberr.Wrap(err, "delete_pool_category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("PoolCategory")
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_delete_pool_category")
	}
	return nil
}

// # Pools

func (r *PostgresRepository) CreatePool(ctx context.Context, p *Pool, names []string, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_create_pool")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertPool := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s, %s, %s`,
		schema.Pool.Table, schema.Pool.CategoryID, schema.Pool.Description,
		schema.Pool.ID, schema.Pool.CreationTime, schema.Pool.LastEditTime,
	)
	if err := tx.QueryRow(ctx, insertPool, p.CategoryID, p.Description).
		Scan(&p.ID, &p.CreationTime, &p.LastEditTime); err != nil {
		return dberr.Wrap(err, "create_pool")
	}

	nameQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.PoolName.Table, schema.PoolName.PoolID, schema.PoolName.Order, schema.PoolName.Name)
	for i, name := range names {
		if _, err := tx.Exec(ctx, nameQuery, p.ID, i, name); err != nil {
			return dberr.Wrap(err, "insert_pool_name")
		}
	}
	p.Names = names

	rec := snapshot.NewRecorder(tx)
	if err := rec.Created(ctx, actorUserID, "pool", p.ID, canonicalName(names), p); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_create_pool")
	}
	return nil
}

func (r *PostgresRepository) basePoolQuery(where string) string {
	return fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, p.%s, coalesce((SELECT count(*) FROM %s pp WHERE pp.%s = p.%s), 0)
		FROM %s p
		WHERE %s`,
		schema.Pool.ID, schema.Pool.CategoryID, schema.Pool.Description, schema.Pool.CreationTime, schema.Pool.LastEditTime,
		schema.PoolPost.Table, schema.PoolPost.PoolID, schema.Pool.ID,
		schema.Pool.Table,
		where,
	)
}

func (r *PostgresRepository) scanPool(row pgx.Row) (*Pool, error) {
	p := &Pool{}
	if err := row.Scan(&p.ID, &p.CategoryID, &p.Description, &p.CreationTime, &p.LastEditTime, &p.PostCount); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) loadPoolNames(ctx context.Context, poolID int) ([]string, error) {
	return loadPoolNames(ctx, r.db, poolID)
}

// loadPoolNames reads a pool's ordered name list through q, which may be the
// bare pool or an in-flight transaction (e.g. Merge needs the target's
// canonical name before it commits).
func loadPoolNames(ctx context.Context, q querier, poolID int) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.PoolName.Name, schema.PoolName.Table, schema.PoolName.PoolID, schema.PoolName.Order)
	rows, err := q.Query(ctx, query, poolID)
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

func (r *PostgresRepository) GetPoolByID(ctx context.Context, id int) (*Pool, error) {
	p, err := r.scanPool(r.db.QueryRow(ctx, r.basePoolQuery(fmt.Sprintf("p.%s = $1", schema.Pool.ID)), id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_pool_by_id")
	}
	names, err := r.loadPoolNames(ctx, p.ID)
	if err != nil {
		return nil, dberr.Wrap(err, "load_pool_names")
	}
	p.Names = names
	return p, nil
}

func (r *PostgresRepository) GetPoolByName(ctx context.Context, name string) (*Pool, error) {
	query := fmt.Sprintf(`SELECT n.%s FROM %s n WHERE lower(n.%s) = lower($1)`,
		schema.PoolName.PoolID, schema.PoolName.Table, schema.PoolName.Name)
	var poolID int
	if err := r.db.QueryRow(ctx, query, name).Scan(&poolID); err != nil {
		return nil, dberr.Wrap(err, "resolve_pool_name")
	}
	return r.GetPoolByID(ctx, poolID)
}

func (r *PostgresRepository) ListPools(ctx context.Context, offset, limit int, namePattern string) ([]*Pool, int, error) {
	where := "true"
	args := []any{}
	if namePattern != "" {
		where = fmt.Sprintf(`EXISTS (SELECT 1 FROM %s n WHERE n.%s = p.%s AND lower(n.%s) LIKE lower($1))`,
			schema.PoolName.Table, schema.PoolName.PoolID, schema.Pool.ID, schema.PoolName.Name)
		args = append(args, namePattern)
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s p WHERE %s`, schema.Pool.Table, where)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_pools")
	}

	args = append(args, limit, offset)
	listQuery := r.basePoolQuery(where) + fmt.Sprintf(" ORDER BY p.%s DESC LIMIT $%d OFFSET $%d",
		schema.Pool.ID, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_pools")
	}
	defer rows.Close()

	pools := make([]*Pool, 0)
	for rows.Next() {
		p, err := r.scanPool(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_pool")
		}
		pools = append(pools, p)
	}

	for _, p := range pools {
		names, err := r.loadPoolNames(ctx, p.ID)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "load_pool_names")
		}
		p.Names = names
	}

	return pools, total, nil
}

func (r *PostgresRepository) UpdatePool(ctx context.Context, before, after *Pool, names []string, expectedVersion time.Time, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_update_pool")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = now()
		WHERE %s = $3 AND %s = $4
		RETURNING %s`,
		schema.Pool.Table,
		schema.Pool.CategoryID, schema.Pool.Description, schema.Pool.LastEditTime,
		schema.Pool.ID, schema.Pool.LastEditTime,
		schema.Pool.LastEditTime,
	)
	if err := tx.QueryRow(ctx, query, after.CategoryID, after.Description, after.ID, expectedVersion).Scan(&after.LastEditTime); err != nil {
		wrapped := dberr.Wrap(err, "update_pool")
		if ae := apperr.As(wrapped); ae != nil && ae.Code == "NOT_FOUND" {
			return apperr.ResourceModified("Pool")
		}
		return wrapped
	}

	if names != nil {
		del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.PoolName.Table, schema.PoolName.PoolID)
		if _, err := tx.Exec(ctx, del, after.ID); err != nil {
			return dberr.Wrap(err, "clear_pool_names")
		}
		nameQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
			schema.PoolName.Table, schema.PoolName.PoolID, schema.PoolName.Order, schema.PoolName.Name)
		for i, name := range names {
			if _, err := tx.Exec(ctx, nameQuery, after.ID, i, name); err != nil {
				return dberr.Wrap(err, "insert_pool_name")
			}
		}
		after.Names = names
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Modified(ctx, actorUserID, "pool", after.ID, canonicalName(after.Names), before, after); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_update_pool")
	}
	return nil
}

func (r *PostgresRepository) DeletePool(ctx context.Context, p *Pool, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_pool")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec := snapshot.NewRecorder(tx)
	if err := rec.Deleted(ctx, actorUserID, "pool", p.ID, canonicalName(p.Names), p); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Pool.Table, schema.Pool.ID)
	tag, err := tx.Exec(ctx, query, p.ID)
	if err != nil {
		return dberr.Wrap(err, "delete_pool")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Pool")
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_delete_pool")
	}
	return nil
}

// # Post membership

func (r *PostgresRepository) ListPosts(ctx context.Context, poolID int) ([]int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.PoolPost.PostID, schema.PoolPost.Table, schema.PoolPost.PoolID, schema.PoolPost.Order)
	rows, err := r.db.Query(ctx, query, poolID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_pool_posts")
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "scan_pool_post")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *PostgresRepository) SetPosts(ctx context.Context, poolID int, postIDs []int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_set_pool_posts")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.PoolPost.Table, schema.PoolPost.PoolID)
	if _, err := tx.Exec(ctx, del, poolID); err != nil {
		return dberr.Wrap(err, "clear_pool_posts")
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.PoolPost.Table, schema.PoolPost.PoolID, schema.PoolPost.PostID, schema.PoolPost.Order)
	for i, postID := range postIDs {
		if _, err := tx.Exec(ctx, insert, poolID, postID, i); err != nil {
			return dberr.Wrap(err, "insert_pool_post")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_set_pool_posts")
	}
	return nil
}

func (r *PostgresRepository) AppendPost(ctx context.Context, poolID, postID int) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, coalesce((SELECT max(%s) + 1 FROM %s WHERE %s = $1), 0))`,
		schema.PoolPost.Table, schema.PoolPost.PoolID, schema.PoolPost.PostID, schema.PoolPost.Order,
		schema.PoolPost.Order, schema.PoolPost.Table, schema.PoolPost.PoolID,
	)
	if _, err := r.db.Exec(ctx, query, poolID, postID); err != nil {
		return dberr.Wrap(err, "append_pool_post")
	}
	return nil
}

// RemovePost deletes postID from poolID and re-compacts order so the
// remaining rows stay a dense permutation of {0..n-1}.
func (r *PostgresRepository) RemovePost(ctx context.Context, poolID, postID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_remove_pool_post")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.PoolPost.Table, schema.PoolPost.PoolID, schema.PoolPost.PostID)
	tag, err := tx.Exec(ctx, del, poolID, postID)
	if err != nil {
		return dberr.Wrap(err, "remove_pool_post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("PoolPost")
	}

	compact := fmt.Sprintf(`
		WITH ranked AS (
			SELECT %s, row_number() OVER (ORDER BY %s ASC) - 1 AS new_order
			FROM %s WHERE %s = $1
		)
		UPDATE %s pp SET %s = ranked.new_order
		FROM ranked WHERE pp.%s = $1 AND pp.%s = ranked.%s`,
		schema.PoolPost.PostID, schema.PoolPost.Order,
		schema.PoolPost.Table, schema.PoolPost.PoolID,
		schema.PoolPost.Table, schema.PoolPost.Order,
		schema.PoolPost.PoolID, schema.PoolPost.PostID, schema.PoolPost.PostID,
	)
	if _, err := tx.Exec(ctx, compact, poolID); err != nil {
		return dberr.Wrap(err, "compact_pool_posts")
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_remove_pool_post")
	}
	return nil
}

// # Merge

func (r *PostgresRepository) Merge(ctx context.Context, sourceID, targetID int, actorUserID *int) error {
	if sourceID == targetID {
		return apperr.SelfMerge("Pool")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_merge_pool")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Append source's posts (in order, skipping ones target already has)
	// to the end of target's ordering.
	rehome := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		SELECT $1, sp.%s, (SELECT coalesce(max(%s), -1) FROM %s WHERE %s = $1) + row_number() OVER (ORDER BY sp.%s)
		FROM %s sp
		WHERE sp.%s = $2
		  AND sp.%s NOT IN (SELECT %s FROM %s WHERE %s = $1)`,
		schema.PoolPost.Table, schema.PoolPost.PoolID, schema.PoolPost.PostID, schema.PoolPost.Order,
		schema.PoolPost.PostID,
		schema.PoolPost.Order, schema.PoolPost.Table, schema.PoolPost.PoolID,
		schema.PoolPost.Order,
		schema.PoolPost.Table,
		schema.PoolPost.PoolID,
		schema.PoolPost.PostID, schema.PoolPost.PostID, schema.PoolPost.Table, schema.PoolPost.PoolID,
	)
	if _, err := tx.Exec(ctx, rehome, targetID, sourceID); err != nil {
		return dberr.Wrap(err, "merge_rehome_pool_posts")
	}

	dropStale := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.PoolPost.Table, schema.PoolPost.PoolID)
	if _, err := tx.Exec(ctx, dropStale, sourceID); err != nil {
		return dberr.Wrap(err, "merge_drop_stale_pool_posts")
	}

	// Pool usage counters are tracked per category, not per pool; merging
	// pools doesn't change either pool's category, so there is nothing to
	// transfer at the category level — the source pool's row simply
	// disappears along with its posts.
	dropPool := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Pool.Table, schema.Pool.ID)
	if _, err := tx.Exec(ctx, dropPool, sourceID); err != nil {
		return dberr.Wrap(err, "merge_delete_source_pool")
	}

	targetNames, err := loadPoolNames(ctx, tx, targetID)
	if err != nil {
		return dberr.Wrap(err, "load_merge_target_name")
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Merged(ctx, actorUserID, "pool", targetID, canonicalName(targetNames)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_merge_pool")
	}
	return nil
}
