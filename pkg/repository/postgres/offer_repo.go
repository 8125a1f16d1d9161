package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/internship/pkg/offer"
)

// OfferRepository хранит офферы; вложенные тестовые задания лежат в JSONB,
// потому что читаются и пишутся всегда агрегатом целиком.
type OfferRepository struct {
	pool *pgxpool.Pool
}

func NewOfferRepository(pool *pgxpool.Pool) (*OfferRepository, error) {
	r := &OfferRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *OfferRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS offers (
	email TEXT PRIMARY KEY REFERENCES users(email) ON DELETE CASCADE,
	due_time TIMESTAMPTZ NOT NULL,
	skill_tests JSONB NOT NULL
);
`)
	return err
}

type skillTestRow struct {
	Name          string   `json:"name"`
	UploadedFiles []string `json:"uploadedFiles"`
	StagedFiles   []string `json:"stagedFiles"`
	Status        string   `json:"status"`
	Rank          int      `json:"rank"`
	Explanation   string   `json:"explanation"`
}

func toRows(tests []offer.SkillTestOffer) []skillTestRow {
	rows := make([]skillTestRow, 0, len(tests))
	for _, t := range tests {
		rows = append(rows, skillTestRow{
			Name:          t.Name,
			UploadedFiles: t.UploadedFiles,
			StagedFiles:   t.StagedFiles,
			Status:        string(t.Status),
			Rank:          t.Rank,
			Explanation:   t.Explanation,
		})
	}
	return rows
}

func fromRows(rows []skillTestRow) []offer.SkillTestOffer {
	tests := make([]offer.SkillTestOffer, 0, len(rows))
	for _, row := range rows {
		tests = append(tests, offer.SkillTestOffer{
			Name:          row.Name,
			UploadedFiles: row.UploadedFiles,
			StagedFiles:   row.StagedFiles,
			Status:        offer.TestStatus(row.Status),
			Rank:          row.Rank,
			Explanation:   row.Explanation,
		})
	}
	return tests
}

func (r *OfferRepository) Create(ctx context.Context, o offer.Offer) error {
	testsJSON, err := json.Marshal(toRows(o.SkillTests))
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO offers (email, due_time, skill_tests) VALUES ($1, $2, $3)
`, strings.ToLower(o.Email), o.DueTime, testsJSON)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil
		}
		return err
	}
	return nil
}

func (r *OfferRepository) Save(ctx context.Context, o offer.Offer) error {
	testsJSON, err := json.Marshal(toRows(o.SkillTests))
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE offers SET skill_tests = $1 WHERE email = $2
`, testsJSON, strings.ToLower(o.Email))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return offer.ErrNotFound
	}
	return nil
}

func (r *OfferRepository) Get(ctx context.Context, email string) (offer.Offer, error) {
	row := r.pool.QueryRow(ctx, `
SELECT email, due_time, skill_tests FROM offers WHERE email = $1
`, strings.ToLower(email))
	var o offer.Offer
	var due time.Time
	var testsJSON []byte
	if err := row.Scan(&o.Email, &due, &testsJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return offer.Offer{}, offer.ErrNotFound
		}
		return offer.Offer{}, err
	}
	o.DueTime = due.UTC()
	var rows []skillTestRow
	if err := json.Unmarshal(testsJSON, &rows); err != nil {
		return offer.Offer{}, err
	}
	o.SkillTests = fromRows(rows)
	return o, nil
}
