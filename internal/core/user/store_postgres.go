// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/platform/database/schema"
	"github.com/yomira/booru/internal/platform/dberr"
	"github.com/yomira/booru/internal/platform/snapshot"
)

// PostgresRepository implements [Repository] against the "user" and
// "user_token" tables.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u *User, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_create_user")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s`,
		schema.User.Table,
		schema.User.Name, schema.User.Rank, schema.User.Email, schema.User.AvatarStyle,
		schema.User.PasswordHash, schema.User.PasswordSalt, schema.User.CustomAvatarSize, schema.User.CreationTime,
		schema.User.ID, schema.User.LastEditTime,
	)

	now := time.Now().UTC()
	if err := tx.QueryRow(ctx, query,
		u.Name, u.Rank, u.Email, u.AvatarStyle,
		u.PasswordHash, u.PasswordSalt, u.CustomAvatarSize, now,
	).Scan(&u.ID, &u.LastEditTime); err != nil {
		return dberr.Wrap(err, "create_user")
	}
	u.CreationTime = now

	rec := snapshot.NewRecorder(tx)
	if err := rec.Created(ctx, actorUserID, "user", u.ID, u.Name, u); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_create_user")
	}
	return nil
}

func (r *PostgresRepository) scanRow(row interface {
	Scan(dest ...any) error
}) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Rank, &u.Email, &u.AvatarStyle,
		&u.PasswordHash, &u.PasswordSalt, &u.CustomAvatarSize,
		&u.CreationTime, &u.LastLoginTime, &u.LastEditTime,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		columnsJoined(schema.User), schema.User.Table, schema.User.ID)

	u, err := r.scanRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_user_by_id")
	}
	return u, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`,
		columnsJoined(schema.User), schema.User.Table, schema.User.Name)

	u, err := r.scanRow(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, dberr.Wrap(err, "get_user_by_name")
	}
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context, offset, limit int, namePattern string) ([]*User, int, error) {
	where := ""
	args := []any{}
	if namePattern != "" {
		where = fmt.Sprintf("WHERE lower(%s) LIKE lower($1)", schema.User.Name)
		args = append(args, namePattern)
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s %s`, schema.User.Table, where)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s DESC LIMIT $%d OFFSET $%d`,
		columnsJoined(schema.User), schema.User.Table, where, schema.User.ID, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		u, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, u)
	}
	return users, total, nil
}

// redactCredentials returns a shallow copy of u with PasswordHash and
// PasswordSalt cleared, so a snapshot diff never carries hash material even
// though those fields fall back to their Go names under json:"-".
func redactCredentials(u *User) *User {
	redacted := *u
	redacted.PasswordHash = ""
	redacted.PasswordSalt = ""
	return &redacted
}

func (r *PostgresRepository) Update(ctx context.Context, before, after *User, expectedVersion time.Time, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_update_user")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = now()
		WHERE %s = $8 AND %s = $9
		RETURNING %s`,
		schema.User.Table,
		schema.User.Name, schema.User.Rank, schema.User.Email, schema.User.AvatarStyle,
		schema.User.PasswordHash, schema.User.PasswordSalt, schema.User.CustomAvatarSize, schema.User.LastEditTime,
		schema.User.ID, schema.User.LastEditTime,
		schema.User.LastEditTime,
	)

	if err := tx.QueryRow(ctx, query,
		after.Name, after.Rank, after.Email, after.AvatarStyle, after.PasswordHash, after.PasswordSalt, after.CustomAvatarSize,
		after.ID, expectedVersion,
	).Scan(&after.LastEditTime); err != nil {
		wrapped := dberr.Wrap(err, "update_user")
		if ae := apperr.As(wrapped); ae != nil && ae.Code == "NOT_FOUND" {
			return apperr.ResourceModified("User")
		}
		return wrapped
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Modified(ctx, actorUserID, "user", after.ID, after.Name, redactCredentials(before), redactCredentials(after)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_update_user")
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, u *User, actorUserID *int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_user")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.User.Table, schema.User.ID)
	tag, err := tx.Exec(ctx, query, u.ID)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	rec := snapshot.NewRecorder(tx)
	if err := rec.Deleted(ctx, actorUserID, "user", u.ID, u.Name, u); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_delete_user")
	}
	return nil
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id int, when time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.User.Table, schema.User.LastLoginTime, schema.User.ID)
	_, err := r.db.Exec(ctx, query, when, id)
	if err != nil {
		return dberr.Wrap(err, "touch_last_login")
	}
	return nil
}

// # Tokens

func (r *PostgresRepository) CreateToken(ctx context.Context, t *Token) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s, %s`,
		schema.UserToken.Table,
		schema.UserToken.UserID, schema.UserToken.Token, schema.UserToken.Note,
		schema.UserToken.Enabled, schema.UserToken.ExpirationTime, schema.UserToken.CreationTime,
		schema.UserToken.ID, schema.UserToken.LastEditTime, schema.UserToken.CreationTime,
	)

	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query, t.UserID, t.TokenHash, t.Note, t.Enabled, t.ExpirationTime, now).
		Scan(&t.ID, &t.LastEditTime, &t.CreationTime)
	if err != nil {
		return dberr.Wrap(err, "create_token")
	}
	return nil
}

func (r *PostgresRepository) scanToken(row interface{ Scan(dest ...any) error }) (*Token, error) {
	t := &Token{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.Note, &t.Enabled, &t.ExpirationTime,
		&t.CreationTime, &t.LastEditTime, &t.LastUsageTime,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) GetTokenByHash(ctx context.Context, hash string) (*Token, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		columnsJoined(schema.UserToken), schema.UserToken.Table, schema.UserToken.Token)

	t, err := r.scanToken(r.db.QueryRow(ctx, query, hash))
	if err != nil {
		return nil, dberr.Wrap(err, "get_token_by_hash")
	}
	return t, nil
}

func (r *PostgresRepository) ListTokens(ctx context.Context, userID int) ([]*Token, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		columnsJoined(schema.UserToken), schema.UserToken.Table, schema.UserToken.UserID, schema.UserToken.ID)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tokens")
	}
	defer rows.Close()

	tokens := make([]*Token, 0)
	for rows.Next() {
		t, err := r.scanToken(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_token")
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func (r *PostgresRepository) UpdateToken(ctx context.Context, t *Token, expectedVersion time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = now()
		WHERE %s = $4 AND %s = $5
		RETURNING %s`,
		schema.UserToken.Table,
		schema.UserToken.Note, schema.UserToken.Enabled, schema.UserToken.ExpirationTime, schema.UserToken.LastEditTime,
		schema.UserToken.ID, schema.UserToken.LastEditTime,
		schema.UserToken.LastEditTime,
	)

	err := r.db.QueryRow(ctx, query, t.Note, t.Enabled, t.ExpirationTime, t.ID, expectedVersion).Scan(&t.LastEditTime)
	if err != nil {
		wrapped := dberr.Wrap(err, "update_token")
		if ae := apperr.As(wrapped); ae != nil && ae.Code == "NOT_FOUND" {
			return apperr.ResourceModified("Token")
		}
		return wrapped
	}
	return nil
}

func (r *PostgresRepository) DeleteToken(ctx context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserToken.Table, schema.UserToken.ID)
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_token")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Token")
	}
	return nil
}

func (r *PostgresRepository) TouchTokenUsage(ctx context.Context, id int, when time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.UserToken.Table, schema.UserToken.LastUsageTime, schema.UserToken.ID)
	_, err := r.db.Exec(ctx, query, when, id)
	if err != nil {
		return dberr.Wrap(err, "touch_token_usage")
	}
	return nil
}

func columnsJoined(t interface{ Columns() []string }) string {
	cols := t.Columns()
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}
