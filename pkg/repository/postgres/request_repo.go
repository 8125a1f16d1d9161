package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/internship/pkg/request"
)

// RequestRepository хранит заявки кандидатов.
type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) (*RequestRepository, error) {
	r := &RequestRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RequestRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS requests (
	email TEXT PRIMARY KEY REFERENCES users(email) ON DELETE CASCADE,
	positions TEXT[] NOT NULL,
	resume TEXT NOT NULL,
	offered BOOLEAN NOT NULL DEFAULT FALSE
);
`)
	return err
}

func (r *RequestRepository) Create(ctx context.Context, req request.Request) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO requests (email, positions, resume, offered)
VALUES ($1, $2, $3, FALSE)
`, strings.ToLower(req.Email), req.Positions, req.Resume)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Ретрай первой подачи: заявка уже создана.
			return nil
		}
		return err
	}
	return nil
}

func (r *RequestRepository) Update(ctx context.Context, req request.Request) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE requests SET positions = $1, resume = $2 WHERE email = $3 AND offered = FALSE
`, req.Positions, req.Resume, strings.ToLower(req.Email))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return request.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) Get(ctx context.Context, email string) (request.Request, error) {
	row := r.pool.QueryRow(ctx, `
SELECT email, positions, resume, offered FROM requests WHERE email = $1
`, strings.ToLower(email))
	var req request.Request
	if err := row.Scan(&req.Email, &req.Positions, &req.Resume, &req.Offered); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrNotFound
		}
		return request.Request{}, err
	}
	return req, nil
}

func (r *RequestRepository) ListNotOffered(ctx context.Context) ([]request.Request, error) {
	rows, err := r.pool.Query(ctx, `
SELECT email, positions, resume, offered FROM requests WHERE offered = FALSE ORDER BY email
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []request.Request
	for rows.Next() {
		var req request.Request
		if err := rows.Scan(&req.Email, &req.Positions, &req.Resume, &req.Offered); err != nil {
			return nil, err
		}
		res = append(res, req)
	}
	return res, rows.Err()
}

func (r *RequestRepository) SetOffered(ctx context.Context, email string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE requests SET offered = TRUE WHERE email = $1
`, strings.ToLower(email))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return request.ErrNotFound
	}
	return nil
}
