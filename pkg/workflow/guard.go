package workflow

import (
	"context"
	"errors"
)

var (
	// ErrNotFound — пользователь с таким email не зарегистрирован.
	ErrNotFound = errors.New("user not found")
	// ErrStale — compare-and-swap не сработал: статус изменился между чтением и записью.
	ErrStale = errors.New("status changed concurrently")
	// ErrConflict — статус и под-записи противоречат друг другу (частично
	// применённая составная операция).
	ErrConflict = errors.New("status/sub-record conflict")
)

// StatusStore is the single storage port through which statuses are read
// and written. Writes are compare-and-swap: SetStatusIf must fail with
// ErrStale when the stored value no longer equals from.
type StatusStore interface {
	GetStatus(ctx context.Context, email string) (Status, error)
	SetStatusIf(ctx context.Context, email string, from, to Status) error
}

// Guard — единственный легальный путь записи статуса. Все составные
// операции двигают статус только через Advance.
type Guard struct {
	store StatusStore
}

func NewGuard(store StatusStore) *Guard {
	return &Guard{store: store}
}

// Current returns the candidate's status.
func (g *Guard) Current(ctx context.Context, email string) (Status, error) {
	return g.store.GetStatus(ctx, email)
}

// Advance moves the candidate to the target status. The call is idempotent:
// if the status already equals to (including after losing a concurrent race
// to an identical transition), Advance succeeds without writing. An edge
// absent from the transition table yields *TransitionError.
func (g *Guard) Advance(ctx context.Context, email string, to Status) error {
	cur, err := g.store.GetStatus(ctx, email)
	if err != nil {
		return err
	}
	if cur == to {
		return nil
	}
	if !CanTransition(cur, to) {
		return &TransitionError{From: cur, To: to}
	}
	if err := g.store.SetStatusIf(ctx, email, cur, to); err != nil {
		if errors.Is(err, ErrStale) {
			// Пересчитываем по фактическому состоянию: параллельный
			// вызов мог выполнить тот же переход.
			now, rerr := g.store.GetStatus(ctx, email)
			if rerr != nil {
				return rerr
			}
			if now == to {
				return nil
			}
			return &TransitionError{From: now, To: to}
		}
		return err
	}
	return nil
}
