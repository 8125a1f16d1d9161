package catalog

import (
	"context"
	"errors"
)

// Position — позиция стажировки, на которую открыт набор.
type Position struct {
	Name         string
	Availability bool
}

// SkillTest — тестовое задание из каталога HR: PDF с инструкцией,
// привязанный к конкретной позиции.
type SkillTest struct {
	Name     string
	PDF      string
	Position string
}

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// PositionRepository — порт хранения каталога позиций.
type PositionRepository interface {
	Create(ctx context.Context, p Position) error
	SetAvailability(ctx context.Context, name string, available bool) error
	List(ctx context.Context) ([]Position, error)
	Get(ctx context.Context, name string) (Position, error)
}

// SkillTestRepository — порт хранения каталога тестовых заданий.
type SkillTestRepository interface {
	Create(ctx context.Context, t SkillTest) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]SkillTest, error)
	GetByName(ctx context.Context, name string) (SkillTest, error)
}
