package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/internship/pkg/auth"
	"github.com/artem13815/internship/pkg/workflow"
)

// UserRepository implements auth.UserRepository and workflow.StatusStore
// backed by PostgreSQL (pgx). Status writes are compare-and-swap so the
// workflow guard can detect concurrent transitions.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	repo := &UserRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *UserRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'candidate',
			status TEXT NOT NULL DEFAULT 'waiting',
			created_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func (r *UserRepository) Create(ctx context.Context, user auth.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, strings.ToLower(user.Email), user.PasswordHash, string(user.Role), string(user.Status), user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return auth.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role, status, created_at
		FROM users WHERE email = $1
	`, strings.ToLower(email))
	var user auth.User
	var role, status string
	var createdAt time.Time
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &role, &status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, err
	}
	user.Role = auth.Role(role)
	user.Status = workflow.Status(status)
	user.CreatedAt = createdAt.UTC()
	return user, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]auth.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, password_hash, role, status, created_at
		FROM users ORDER BY created_at LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []auth.User
	for rows.Next() {
		var u auth.User
		var role, status string
		var createdAt time.Time
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &status, &createdAt); err != nil {
			return nil, err
		}
		u.Role = auth.Role(role)
		u.Status = workflow.Status(status)
		u.CreatedAt = createdAt.UTC()
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetStatus implements workflow.StatusStore.
func (r *UserRepository) GetStatus(ctx context.Context, email string) (workflow.Status, error) {
	row := r.pool.QueryRow(ctx, `SELECT status FROM users WHERE email = $1`, strings.ToLower(email))
	var status string
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", workflow.ErrNotFound
		}
		return "", err
	}
	return workflow.Status(status), nil
}

// SetStatusIf implements workflow.StatusStore: the write lands only when
// the stored status still equals from.
func (r *UserRepository) SetStatusIf(ctx context.Context, email string, from, to workflow.Status) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE users SET status = $1 WHERE email = $2 AND status = $3
	`, string(to), strings.ToLower(email), string(from))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Либо пользователя нет, либо статус сменился конкурентно.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, strings.ToLower(email)).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return workflow.ErrNotFound
		}
		return workflow.ErrStale
	}
	return nil
}
