package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/internship/pkg/personalinfo"
)

// PersonalInfoRepository хранит анкеты кандидатов.
type PersonalInfoRepository struct {
	pool *pgxpool.Pool
}

func NewPersonalInfoRepository(pool *pgxpool.Pool) (*PersonalInfoRepository, error) {
	r := &PersonalInfoRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PersonalInfoRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS personal_infos (
	email TEXT PRIMARY KEY REFERENCES users(email) ON DELETE CASCADE,
	due_time TIMESTAMPTZ NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	nickname TEXT NOT NULL DEFAULT '',
	mobile TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	dob TEXT NOT NULL DEFAULT '',
	blood_type TEXT NOT NULL DEFAULT '',
	line_id TEXT NOT NULL DEFAULT '',
	university TEXT NOT NULL DEFAULT '',
	qualification TEXT NOT NULL DEFAULT '',
	major TEXT NOT NULL DEFAULT '',
	gpa DOUBLE PRECISION NOT NULL DEFAULT 0,
	reason TEXT NOT NULL DEFAULT '',
	other_reason TEXT NOT NULL DEFAULT '',
	strength TEXT NOT NULL DEFAULT '',
	weakness TEXT NOT NULL DEFAULT '',
	opportunity TEXT NOT NULL DEFAULT '',
	threats TEXT NOT NULL DEFAULT '',
	recruitment_source TEXT NOT NULL DEFAULT '',
	video_clip TEXT NOT NULL DEFAULT '',
	grade_report TEXT NOT NULL DEFAULT '',
	home_registration TEXT NOT NULL DEFAULT '',
	id_card TEXT NOT NULL DEFAULT '',
	slide_presentation TEXT NOT NULL DEFAULT ''
);
`)
	return err
}

func (r *PersonalInfoRepository) Create(ctx context.Context, p personalinfo.PersonalInfo) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO personal_infos (email, due_time) VALUES ($1, $2)
`, strings.ToLower(p.Email), p.DueTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil
		}
		return err
	}
	return nil
}

func (r *PersonalInfoRepository) Update(ctx context.Context, p personalinfo.PersonalInfo) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE personal_infos SET
	name = $1, nickname = $2, mobile = $3, address = $4, dob = $5,
	blood_type = $6, line_id = $7, university = $8, qualification = $9,
	major = $10, gpa = $11, reason = $12, other_reason = $13,
	strength = $14, weakness = $15, opportunity = $16, threats = $17,
	recruitment_source = $18, video_clip = $19, grade_report = $20,
	home_registration = $21, id_card = $22, slide_presentation = $23
WHERE email = $24
`, p.Name, p.Nickname, p.Mobile, p.Address, p.DOB,
		p.BloodType, p.LineID, p.University, p.Qualification,
		p.Major, p.GPA, p.Reason, p.OtherReason,
		p.Strength, p.Weakness, p.Opportunity, p.Threats,
		p.RecruitmentSource, p.VideoClip, p.GradeReport,
		p.HomeRegistration, p.IDCard, p.SlidePresentation,
		strings.ToLower(p.Email))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return personalinfo.ErrNotFound
	}
	return nil
}

func (r *PersonalInfoRepository) Get(ctx context.Context, email string) (personalinfo.PersonalInfo, error) {
	row := r.pool.QueryRow(ctx, `
SELECT email, due_time, name, nickname, mobile, address, dob, blood_type,
	line_id, university, qualification, major, gpa, reason, other_reason,
	strength, weakness, opportunity, threats, recruitment_source,
	video_clip, grade_report, home_registration, id_card, slide_presentation
FROM personal_infos WHERE email = $1
`, strings.ToLower(email))
	var p personalinfo.PersonalInfo
	var due time.Time
	if err := row.Scan(&p.Email, &due, &p.Name, &p.Nickname, &p.Mobile, &p.Address,
		&p.DOB, &p.BloodType, &p.LineID, &p.University, &p.Qualification,
		&p.Major, &p.GPA, &p.Reason, &p.OtherReason, &p.Strength, &p.Weakness,
		&p.Opportunity, &p.Threats, &p.RecruitmentSource, &p.VideoClip,
		&p.GradeReport, &p.HomeRegistration, &p.IDCard, &p.SlidePresentation); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return personalinfo.PersonalInfo{}, personalinfo.ErrNotFound
		}
		return personalinfo.PersonalInfo{}, err
	}
	p.DueTime = due.UTC()
	return p, nil
}
