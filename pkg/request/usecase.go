package request

import (
	"context"
	"errors"
	"strings"

	"github.com/artem13815/internship/pkg/catalog"
	"github.com/artem13815/internship/pkg/workflow"
)

// UseCase — сценарии работы с заявками кандидатов.
type UseCase interface {
	// Submit создаёт заявку (первая подача переводит waiting→requesting)
	// или обновляет существующую без смены статуса.
	Submit(ctx context.Context, email string, positions []string, resumeURL string) (Request, error)
	Get(ctx context.Context, email string) (Request, error)
	ListNotOffered(ctx context.Context) ([]Request, error)
}

type service struct {
	repo      Repository
	positions catalog.PositionRepository
	guard     *workflow.Guard
}

func NewService(repo Repository, positions catalog.PositionRepository, guard *workflow.Guard) UseCase {
	return &service{repo: repo, positions: positions, guard: guard}
}

func (s *service) Submit(ctx context.Context, email string, positions []string, resumeURL string) (Request, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Request{}, workflow.ErrValidation("email is required")
	}
	if len(positions) == 0 {
		return Request{}, workflow.ErrValidation("at least one position must be selected")
	}
	for _, p := range positions {
		pos, err := s.positions.Get(ctx, p)
		if err != nil {
			return Request{}, workflow.ErrValidation("unknown position: " + p)
		}
		if !pos.Availability {
			return Request{}, workflow.ErrValidation("position is not available: " + p)
		}
	}

	existing, err := s.repo.Get(ctx, email)
	switch {
	case err == nil:
		// Редактирование: статус не меняется, после оффера запрещено.
		if existing.Offered {
			return Request{}, workflow.ErrConflict
		}
		existing.Positions = positions
		if resumeURL != "" {
			existing.Resume = resumeURL
		}
		if err := s.repo.Update(ctx, existing); err != nil {
			return Request{}, err
		}
		// Реконсилиация после частичного сбоя: заявка есть, а статус ещё
		// waiting — довершаем переход (инвариант: заявка существует
		// только начиная с requesting).
		if cur, err := s.guard.Current(ctx, email); err == nil && cur == workflow.StatusWaiting {
			if err := s.guard.Advance(ctx, email, workflow.StatusRequesting); err != nil {
				return Request{}, err
			}
		}
		return existing, nil
	case errors.Is(err, ErrNotFound):
		// Первая подача: резюме обязательно, статус должен уйти в requesting.
		if resumeURL == "" {
			return Request{}, workflow.ErrValidation("resume upload is required for a new application")
		}
		r := Request{Email: email, Positions: positions, Resume: resumeURL}
		if err := s.repo.Create(ctx, r); err != nil {
			return Request{}, err
		}
		// Статус пишется последним: ретрай после сбоя повторит Create как
		// no-op (заявка уже есть) и довершит переход.
		if err := s.guard.Advance(ctx, email, workflow.StatusRequesting); err != nil {
			return Request{}, err
		}
		return r, nil
	default:
		return Request{}, err
	}
}

func (s *service) Get(ctx context.Context, email string) (Request, error) {
	return s.repo.Get(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *service) ListNotOffered(ctx context.Context) ([]Request, error) {
	return s.repo.ListNotOffered(ctx)
}
