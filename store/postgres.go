package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopmesh/userauth"
)

// Schema creates the tables Postgres needs. Apply it with your migration
// tooling; the store never runs DDL on its own.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id                    TEXT PRIMARY KEY,
	username              TEXT NOT NULL UNIQUE,
	email                 TEXT NOT NULL UNIQUE,
	password_hash         TEXT NOT NULL,
	role                  TEXT NOT NULL,
	active                BOOLEAN NOT NULL DEFAULT TRUE,
	failed_login_attempts INTEGER NOT NULL DEFAULT 0,
	locked_until          TIMESTAMPTZ,
	last_login_at         TIMESTAMPTZ,
	created_at            TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	token             TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL REFERENCES users(id),
	expires_at        TIMESTAMPTZ NOT NULL,
	active            BOOLEAN NOT NULL DEFAULT TRUE,
	created_at        TIMESTAMPTZ NOT NULL,
	created_by_ip     TEXT NOT NULL DEFAULT '',
	revoked_at        TIMESTAMPTZ,
	revoked_by_ip     TEXT NOT NULL DEFAULT '',
	revoked_reason    TEXT NOT NULL DEFAULT '',
	replaced_by_token TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS refresh_tokens_user_id_idx ON refresh_tokens (user_id);
`

const pgUniqueViolation = "23505"

// Postgres is a CredentialStore backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool. The pool's lifecycle stays with the
// caller.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", userauth.ErrStoreUnavailable, op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

const userColumns = `id, username, email, password_hash, role, active,
	failed_login_attempts, locked_until, last_login_at, created_at`

func scanUser(row pgx.Row) (*userauth.User, error) {
	var u userauth.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Active,
		&u.FailedLoginAttempts, &u.LockedUntil, &u.LastLoginAt, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *Postgres) getUser(ctx context.Context, op, where string, arg any) (*userauth.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, userauth.ErrNotFound
		}
		return nil, storeErr(op, err)
	}
	return u, nil
}

func (p *Postgres) GetActiveUserByUsername(ctx context.Context, username string) (*userauth.User, error) {
	return p.getUser(ctx, "get user by username", "username = $1 AND active", username)
}

func (p *Postgres) GetActiveUserByID(ctx context.Context, id string) (*userauth.User, error) {
	return p.getUser(ctx, "get active user by id", "id = $1 AND active", id)
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (*userauth.User, error) {
	return p.getUser(ctx, "get user by id", "id = $1", id)
}

func (p *Postgres) UserExists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		username, email,
	).Scan(&exists)
	if err != nil {
		return false, storeErr("check user exists", err)
	}
	return exists, nil
}

func (p *Postgres) CreateUser(ctx context.Context, user *userauth.User) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.Active,
		user.FailedLoginAttempts, user.LockedUntil, user.LastLoginAt, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return userauth.ErrConflict
		}
		return storeErr("create user", err)
	}
	return nil
}

func (p *Postgres) UpdateUser(ctx context.Context, user *userauth.User) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, role = $5, active = $6,
		    failed_login_attempts = $7, locked_until = $8, last_login_at = $9
		WHERE id = $1
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.Active,
		user.FailedLoginAttempts, user.LockedUntil, user.LastLoginAt)
	if err != nil {
		if isUniqueViolation(err) {
			return userauth.ErrConflict
		}
		return storeErr("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return userauth.ErrNotFound
	}
	return nil
}

func (p *Postgres) ListActiveUsers(ctx context.Context, page, pageSize int) ([]userauth.User, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE active
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, storeErr("list active users", err)
	}
	defer rows.Close()

	users := make([]userauth.User, 0, pageSize)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storeErr("scan user row", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list active users", err)
	}
	return users, nil
}

// RecordLoginFailure increments under a row lock so that concurrent failed
// attempts cannot lose counts or double-open the lockout window.
func (p *Postgres) RecordLoginFailure(ctx context.Context, userID string, threshold int, lockFor time.Duration) (*time.Time, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin login failure tx", err)
	}
	defer tx.Rollback(ctx)

	var attempts int
	err = tx.QueryRow(ctx,
		`SELECT failed_login_attempts FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, userauth.ErrNotFound
		}
		return nil, storeErr("lock user row", err)
	}

	attempts++
	var lockedUntil *time.Time
	if attempts >= threshold {
		until := time.Now().UTC().Add(lockFor)
		lockedUntil = &until
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET failed_login_attempts = $2, locked_until = $3 WHERE id = $1`,
		userID, attempts, lockedUntil,
	)
	if err != nil {
		return nil, storeErr("record login failure", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit login failure tx", err)
	}
	return lockedUntil, nil
}

func (p *Postgres) RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, last_login_at = $2
		WHERE id = $1
	`, userID, at)
	if err != nil {
		return storeErr("record login success", err)
	}
	if tag.RowsAffected() == 0 {
		return userauth.ErrNotFound
	}
	return nil
}

func (p *Postgres) GetRefreshToken(ctx context.Context, token string) (*userauth.RefreshToken, error) {
	var t userauth.RefreshToken
	err := p.pool.QueryRow(ctx, `
		SELECT token, user_id, expires_at, active, created_at, created_by_ip,
		       revoked_at, revoked_by_ip, revoked_reason, replaced_by_token
		FROM refresh_tokens
		WHERE token = $1
	`, token).Scan(
		&t.Token, &t.UserID, &t.ExpiresAt, &t.Active, &t.CreatedAt, &t.CreatedByIP,
		&t.RevokedAt, &t.RevokedByIP, &t.RevokedReason, &t.ReplacedByToken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, userauth.ErrNotFound
		}
		return nil, storeErr("get refresh token", err)
	}
	return &t, nil
}

func (p *Postgres) CreateRefreshToken(ctx context.Context, token *userauth.RefreshToken) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO refresh_tokens
			(token, user_id, expires_at, active, created_at, created_by_ip)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, token.Token, token.UserID, token.ExpiresAt, token.Active, token.CreatedAt, token.CreatedByIP)
	if err != nil {
		if isUniqueViolation(err) {
			return userauth.ErrConflict
		}
		return storeErr("create refresh token", err)
	}
	return nil
}

// RotateRefreshToken retires the presented token and inserts its successor
// in one transaction. The UPDATE's WHERE clause is the compare-and-swap:
// when two rotations race, one matches zero rows and fails.
func (p *Postgres) RotateRefreshToken(ctx context.Context, presented string, next *userauth.RefreshToken, revokedByIP, reason string, at time.Time) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return storeErr("begin rotation tx", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE refresh_tokens
		SET active = FALSE, revoked_at = $2, revoked_by_ip = $3,
		    revoked_reason = $4, replaced_by_token = $5
		WHERE token = $1 AND active AND expires_at > $2
	`, presented, at, revokedByIP, reason, next.Token)
	if err != nil {
		return storeErr("revoke refresh token", err)
	}
	if tag.RowsAffected() != 1 {
		return userauth.ErrInvalidToken
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO refresh_tokens
			(token, user_id, expires_at, active, created_at, created_by_ip)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, next.Token, next.UserID, next.ExpiresAt, next.Active, next.CreatedAt, next.CreatedByIP)
	if err != nil {
		if isUniqueViolation(err) {
			return userauth.ErrConflict
		}
		return storeErr("insert rotated token", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit rotation tx", err)
	}
	return nil
}
