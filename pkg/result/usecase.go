package result

import (
	"context"
	"errors"
	"strings"

	"github.com/artem13815/internship/pkg/catalog"
	"github.com/artem13815/internship/pkg/offer"
	"github.com/artem13815/internship/pkg/screening"
	"github.com/artem13815/internship/pkg/workflow"
)

// UseCase — запись и чтение решения HR.
type UseCase interface {
	// RecordDecision — составная операция: результат + filter.done +
	// переход considering→accepted|rejected. Ретрай с теми же
	// аргументами идемпотентен.
	RecordDecision(ctx context.Context, email string, decision Decision, positions []string) (Result, error)
	Get(ctx context.Context, email string) (Result, error)
}

type service struct {
	repo      Repository
	offers    offer.Repository
	tests     catalog.SkillTestRepository
	screening screening.UseCase
	guard     *workflow.Guard
}

func NewService(repo Repository, offers offer.Repository, tests catalog.SkillTestRepository,
	scr screening.UseCase, guard *workflow.Guard) UseCase {
	return &service{repo: repo, offers: offers, tests: tests, screening: scr, guard: guard}
}

func (s *service) RecordDecision(ctx context.Context, email string, decision Decision, positions []string) (Result, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Result{}, workflow.ErrValidation("email is required")
	}

	var target workflow.Status
	switch decision {
	case Accepted:
		if len(positions) == 0 {
			return Result{}, workflow.ErrValidation("at least one position must be selected to accept")
		}
		offered, err := s.offeredPositions(ctx, email)
		if err != nil {
			return Result{}, err
		}
		for _, p := range positions {
			if !offered[p] {
				return Result{}, workflow.ErrValidation("position was not part of the offer: " + p)
			}
		}
		target = workflow.StatusAccepted
	case Rejected:
		// Отказ позиций не несёт.
		positions = []string{}
		target = workflow.StatusRejected
	default:
		return Result{}, workflow.ErrValidation("decision must be accepted or rejected")
	}

	cur, err := s.guard.Current(ctx, email)
	if err != nil {
		return Result{}, err
	}
	if cur != workflow.StatusConsidering && cur != target {
		return Result{}, &workflow.TransitionError{From: cur, To: target}
	}

	r := Result{Email: email, Result: decision, Positions: positions}
	if err := s.repo.Create(ctx, r); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			// Ретрай: идентичное решение уже записано — довершаем эффекты.
			existing, gerr := s.repo.Get(ctx, email)
			if gerr != nil {
				return Result{}, gerr
			}
			if existing.Result != decision {
				return Result{}, workflow.ErrConflict
			}
			r = existing
		} else {
			return Result{}, err
		}
	}
	if err := s.screening.SetDone(ctx, email); err != nil && !errors.Is(err, screening.ErrNotFound) {
		return Result{}, err
	}
	if err := s.guard.Advance(ctx, email, target); err != nil {
		return Result{}, err
	}
	return r, nil
}

func (s *service) Get(ctx context.Context, email string) (Result, error) {
	return s.repo.Get(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// offeredPositions — множество позиций, подразумеваемое оффером: позиции
// назначенных тестовых заданий.
func (s *service) offeredPositions(ctx context.Context, email string) (map[string]bool, error) {
	o, err := s.offers.Get(ctx, email)
	if err != nil {
		if errors.Is(err, offer.ErrNotFound) {
			return nil, workflow.ErrConflict
		}
		return nil, err
	}
	set := make(map[string]bool, len(o.SkillTests))
	for _, t := range o.SkillTests {
		st, err := s.tests.GetByName(ctx, t.Name)
		if err != nil {
			continue
		}
		set[st.Position] = true
	}
	return set, nil
}
