package catalog

import (
	"context"
	"strings"

	"github.com/artem13815/internship/pkg/workflow"
)

// UseCase инкапсулирует управление справочниками позиций и тестовых заданий.
type UseCase interface {
	CreatePosition(ctx context.Context, p Position) (Position, error)
	SetAvailability(ctx context.Context, name string, available bool) error
	ListPositions(ctx context.Context) ([]Position, error)

	CreateSkillTest(ctx context.Context, t SkillTest) (SkillTest, error)
	DeleteSkillTest(ctx context.Context, name string) error
	ListSkillTests(ctx context.Context) ([]SkillTest, error)
	GetSkillTest(ctx context.Context, name string) (SkillTest, error)
}

type service struct {
	positions PositionRepository
	tests     SkillTestRepository
}

func NewService(positions PositionRepository, tests SkillTestRepository) UseCase {
	return &service{positions: positions, tests: tests}
}

func (s *service) CreatePosition(ctx context.Context, p Position) (Position, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Position{}, workflow.ErrValidation("position name is required")
	}
	if err := s.positions.Create(ctx, p); err != nil {
		return Position{}, err
	}
	return p, nil
}

func (s *service) SetAvailability(ctx context.Context, name string, available bool) error {
	return s.positions.SetAvailability(ctx, strings.TrimSpace(name), available)
}

func (s *service) ListPositions(ctx context.Context) ([]Position, error) {
	return s.positions.List(ctx)
}

func (s *service) CreateSkillTest(ctx context.Context, t SkillTest) (SkillTest, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.Position = strings.TrimSpace(t.Position)
	if t.Name == "" {
		return SkillTest{}, workflow.ErrValidation("skill test name is required")
	}
	if t.PDF == "" {
		return SkillTest{}, workflow.ErrValidation("instructions PDF is required")
	}
	// Тест всегда привязан к существующей позиции.
	if _, err := s.positions.Get(ctx, t.Position); err != nil {
		return SkillTest{}, workflow.ErrValidation("unknown position: " + t.Position)
	}
	if err := s.tests.Create(ctx, t); err != nil {
		return SkillTest{}, err
	}
	return t, nil
}

func (s *service) DeleteSkillTest(ctx context.Context, name string) error {
	return s.tests.Delete(ctx, strings.TrimSpace(name))
}

func (s *service) ListSkillTests(ctx context.Context) ([]SkillTest, error) {
	return s.tests.List(ctx)
}

func (s *service) GetSkillTest(ctx context.Context, name string) (SkillTest, error) {
	return s.tests.GetByName(ctx, name)
}
