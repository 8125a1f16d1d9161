package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/internship/pkg/screening"
)

// FilterRepository хранит метрики отбора.
type FilterRepository struct {
	pool *pgxpool.Pool
}

func NewFilterRepository(pool *pgxpool.Pool) (*FilterRepository, error) {
	r := &FilterRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FilterRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS filters (
	email TEXT PRIMARY KEY REFERENCES users(email) ON DELETE CASCADE,
	gpa_f DOUBLE PRECISION NOT NULL DEFAULT 0,
	gpa_a DOUBLE PRECISION NOT NULL DEFAULT 0,
	f INT NOT NULL DEFAULT 0,
	completeness DOUBLE PRECISION NOT NULL DEFAULT 0,
	done BOOLEAN NOT NULL DEFAULT FALSE
);
`)
	return err
}

func (r *FilterRepository) Create(ctx context.Context, f screening.Filter) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO filters (email, gpa_f, gpa_a, f, completeness, done)
VALUES ($1, $2, $3, $4, $5, FALSE)
`, strings.ToLower(f.Email), f.GpaF, f.GpaA, f.F, f.Completeness)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil
		}
		return err
	}
	return nil
}

func (r *FilterRepository) Update(ctx context.Context, f screening.Filter) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE filters SET gpa_f = $1, gpa_a = $2, f = $3, completeness = $4 WHERE email = $5
`, f.GpaF, f.GpaA, f.F, f.Completeness, strings.ToLower(f.Email))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return screening.ErrNotFound
	}
	return nil
}

func (r *FilterRepository) Get(ctx context.Context, email string) (screening.Filter, error) {
	row := r.pool.QueryRow(ctx, `
SELECT email, gpa_f, gpa_a, f, completeness, done FROM filters WHERE email = $1
`, strings.ToLower(email))
	var f screening.Filter
	if err := row.Scan(&f.Email, &f.GpaF, &f.GpaA, &f.F, &f.Completeness, &f.Done); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return screening.Filter{}, screening.ErrNotFound
		}
		return screening.Filter{}, err
	}
	return f, nil
}

func (r *FilterRepository) ListNotDone(ctx context.Context) ([]screening.Filter, error) {
	rows, err := r.pool.Query(ctx, `
SELECT email, gpa_f, gpa_a, f, completeness, done FROM filters WHERE done = FALSE ORDER BY email
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []screening.Filter
	for rows.Next() {
		var f screening.Filter
		if err := rows.Scan(&f.Email, &f.GpaF, &f.GpaA, &f.F, &f.Completeness, &f.Done); err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return res, rows.Err()
}

func (r *FilterRepository) SetDone(ctx context.Context, email string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE filters SET done = TRUE WHERE email = $1
`, strings.ToLower(email))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return screening.ErrNotFound
	}
	return nil
}
