package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/internship/pkg/result"
)

// ResultRepository хранит терминальные решения; по одному на кандидата.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) (*ResultRepository, error) {
	r := &ResultRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ResultRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS results (
	email TEXT PRIMARY KEY REFERENCES users(email) ON DELETE CASCADE,
	result TEXT NOT NULL,
	positions TEXT[] NOT NULL DEFAULT '{}'
);
`)
	return err
}

func (r *ResultRepository) Create(ctx context.Context, res result.Result) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO results (email, result, positions) VALUES ($1, $2, $3)
`, strings.ToLower(res.Email), string(res.Result), res.Positions)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return result.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ResultRepository) Get(ctx context.Context, email string) (result.Result, error) {
	row := r.pool.QueryRow(ctx, `
SELECT email, result, positions FROM results WHERE email = $1
`, strings.ToLower(email))
	var res result.Result
	var decision string
	if err := row.Scan(&res.Email, &decision, &res.Positions); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return result.Result{}, result.ErrNotFound
		}
		return result.Result{}, err
	}
	res.Result = result.Decision(decision)
	return res, nil
}
