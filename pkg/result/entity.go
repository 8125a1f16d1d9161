package result

import (
	"context"
	"errors"
)

// Decision — итог рассмотрения заявки.
type Decision string

const (
	Accepted Decision = "accepted"
	Rejected Decision = "rejected"
)

// Result — терминальная запись решения HR. Positions заполняются только
// при принятии; создаётся ровно один раз.
type Result struct {
	Email     string
	Result    Decision
	Positions []string
}

var (
	ErrNotFound      = errors.New("result not found")
	ErrAlreadyExists = errors.New("result already recorded")
)

// ParseDecision валидирует строковое решение из API.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case Accepted, Rejected:
		return Decision(s), nil
	}
	return "", errors.New("result must be accepted or rejected")
}

// Repository — порт хранения результатов.
type Repository interface {
	Create(ctx context.Context, r Result) error
	Get(ctx context.Context, email string) (Result, error)
}
