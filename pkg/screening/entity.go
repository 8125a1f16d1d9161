package screening

import (
	"context"
	"errors"

	"github.com/artem13815/internship/pkg/personalinfo"
)

// Filter — вычисленные метрики отбора кандидата, по которым HR фильтрует
// список перед решением. Done выставляется вместе с записью результата.
type Filter struct {
	Email        string
	GpaF         float64
	GpaA         float64
	F            int
	Completeness float64
	Done         bool
}

var ErrNotFound = errors.New("filter not found")

// Repository — порт хранения метрик отбора.
type Repository interface {
	Create(ctx context.Context, f Filter) error
	Update(ctx context.Context, f Filter) error
	Get(ctx context.Context, email string) (Filter, error)
	ListNotDone(ctx context.Context) ([]Filter, error)
	SetDone(ctx context.Context, email string) error
}

// Compute derives screening metrics from the submitted form. The grade
// report file is opaque here, so GpaF starts equal to the overall GPA and
// F at zero; HR corrects both after reading the report.
func Compute(p personalinfo.PersonalInfo) Filter {
	fields := []string{
		p.Name, p.Nickname, p.Mobile, p.Address, p.DOB, p.BloodType,
		p.LineID, p.University, p.Qualification, p.Major, p.Reason,
		p.Strength, p.Weakness, p.Opportunity, p.Threats,
		p.RecruitmentSource,
		p.VideoClip, p.GradeReport, p.HomeRegistration, p.IDCard,
		p.SlidePresentation,
	}
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	total := len(fields) + 1 // +1 за GPA
	if p.GPA > 0 {
		filled++
	}
	return Filter{
		Email:        p.Email,
		GpaF:         p.GPA,
		GpaA:         p.GPA,
		F:            0,
		Completeness: float64(filled) / float64(total),
	}
}
