package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/internship/pkg/catalog"
)

// PositionRepository хранит каталог позиций стажировки.
type PositionRepository struct {
	pool *pgxpool.Pool
}

func NewPositionRepository(pool *pgxpool.Pool) (*PositionRepository, error) {
	r := &PositionRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PositionRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS positions (
	name TEXT PRIMARY KEY,
	availability BOOLEAN NOT NULL DEFAULT TRUE
);
`)
	return err
}

func (r *PositionRepository) Create(ctx context.Context, p catalog.Position) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO positions (name, availability) VALUES ($1, $2)
`, p.Name, p.Availability)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return catalog.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PositionRepository) SetAvailability(ctx context.Context, name string, available bool) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE positions SET availability = $1 WHERE name = $2
`, available, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *PositionRepository) List(ctx context.Context) ([]catalog.Position, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, availability FROM positions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []catalog.Position
	for rows.Next() {
		var p catalog.Position
		if err := rows.Scan(&p.Name, &p.Availability); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *PositionRepository) Get(ctx context.Context, name string) (catalog.Position, error) {
	row := r.pool.QueryRow(ctx, `SELECT name, availability FROM positions WHERE name = $1`, name)
	var p catalog.Position
	if err := row.Scan(&p.Name, &p.Availability); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Position{}, catalog.ErrNotFound
		}
		return catalog.Position{}, err
	}
	return p, nil
}

// SkillTestRepository хранит каталог тестовых заданий.
type SkillTestRepository struct {
	pool *pgxpool.Pool
}

func NewSkillTestRepository(pool *pgxpool.Pool) (*SkillTestRepository, error) {
	r := &SkillTestRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SkillTestRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS skill_tests (
	name TEXT PRIMARY KEY,
	pdf TEXT NOT NULL,
	position TEXT NOT NULL REFERENCES positions(name) ON DELETE CASCADE
);
`)
	return err
}

func (r *SkillTestRepository) Create(ctx context.Context, t catalog.SkillTest) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO skill_tests (name, pdf, position) VALUES ($1, $2, $3)
`, t.Name, t.PDF, t.Position)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return catalog.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *SkillTestRepository) Delete(ctx context.Context, name string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM skill_tests WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *SkillTestRepository) List(ctx context.Context) ([]catalog.SkillTest, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, pdf, position FROM skill_tests ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []catalog.SkillTest
	for rows.Next() {
		var t catalog.SkillTest
		if err := rows.Scan(&t.Name, &t.PDF, &t.Position); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *SkillTestRepository) GetByName(ctx context.Context, name string) (catalog.SkillTest, error) {
	row := r.pool.QueryRow(ctx, `SELECT name, pdf, position FROM skill_tests WHERE name = $1`, name)
	var t catalog.SkillTest
	if err := row.Scan(&t.Name, &t.PDF, &t.Position); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.SkillTest{}, catalog.ErrNotFound
		}
		return catalog.SkillTest{}, err
	}
	return t, nil
}
