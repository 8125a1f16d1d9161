package screening

import (
	"context"
	"errors"
	"strings"

	"github.com/artem13815/internship/pkg/personalinfo"
	"github.com/artem13815/internship/pkg/workflow"
)

// UseCase — сценарии работы с метриками отбора.
type UseCase interface {
	// EnsureFilter вычисляет и сохраняет метрики при входе кандидата в
	// considering. Повторный вызов — no-op.
	EnsureFilter(ctx context.Context, email string) error
	Get(ctx context.Context, email string) (Filter, error)
	ListNotDone(ctx context.Context) ([]Filter, error)
	SetDone(ctx context.Context, email string) error
	// UpdateScores — ручная корректировка HR после просмотра грейд-репорта.
	UpdateScores(ctx context.Context, email string, gpaF float64, f int) (Filter, error)
}

type service struct {
	repo     Repository
	personal personalinfo.Repository
}

func NewService(repo Repository, personal personalinfo.Repository) UseCase {
	return &service{repo: repo, personal: personal}
}

func (s *service) EnsureFilter(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.Get(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	p, err := s.personal.Get(ctx, email)
	if err != nil {
		if errors.Is(err, personalinfo.ErrNotFound) {
			return workflow.ErrConflict
		}
		return err
	}
	return s.repo.Create(ctx, Compute(p))
}

func (s *service) Get(ctx context.Context, email string) (Filter, error) {
	return s.repo.Get(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *service) ListNotDone(ctx context.Context) ([]Filter, error) {
	return s.repo.ListNotDone(ctx)
}

func (s *service) SetDone(ctx context.Context, email string) error {
	return s.repo.SetDone(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *service) UpdateScores(ctx context.Context, email string, gpaF float64, f int) (Filter, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if gpaF < 0 || f < 0 {
		return Filter{}, workflow.ErrValidation("gpaF and F must be non-negative")
	}
	existing, err := s.repo.Get(ctx, email)
	if err != nil {
		return Filter{}, err
	}
	existing.GpaF = gpaF
	existing.F = f
	if err := s.repo.Update(ctx, existing); err != nil {
		return Filter{}, err
	}
	return existing, nil
}
