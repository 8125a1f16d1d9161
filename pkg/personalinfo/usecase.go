package personalinfo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/artem13815/internship/pkg/workflow"
)

// UseCase — сценарии работы с анкетой кандидата.
type UseCase interface {
	// Create заводит пустую анкету с дедлайном; вызывается только из
	// составной операции выставления оффера. Повторный вызов с теми же
	// аргументами — no-op.
	Create(ctx context.Context, email string, dueTime time.Time) error
	// Get возвращает анкету; applicable=false, когда по текущему статусу
	// анкеты ещё не должно существовать (waiting/requesting).
	Get(ctx context.Context, email string) (PersonalInfo, bool, error)
	// Submit применяет заполненную кандидатом форму; после дедлайна
	// отклоняется.
	Submit(ctx context.Context, p PersonalInfo) (PersonalInfo, error)
	// ClearFile снимает ссылку на один файл анкеты, не трогая остальное.
	ClearFile(ctx context.Context, email, field string) (PersonalInfo, error)
}

type service struct {
	repo  Repository
	guard *workflow.Guard
	now   func() time.Time
}

func NewService(repo Repository, guard *workflow.Guard) UseCase {
	return &service{repo: repo, guard: guard, now: time.Now}
}

func (s *service) Create(ctx context.Context, email string, dueTime time.Time) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return workflow.ErrValidation("email is required")
	}
	if dueTime.IsZero() {
		return workflow.ErrValidation("due time is required")
	}
	if existing, err := s.repo.Get(ctx, email); err == nil {
		// Ретрай составной операции: та же анкета уже создана.
		if existing.DueTime.Equal(dueTime) {
			return nil
		}
		return workflow.ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.repo.Create(ctx, PersonalInfo{Email: email, DueTime: dueTime.UTC()})
}

func (s *service) Get(ctx context.Context, email string) (PersonalInfo, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	status, err := s.guard.Current(ctx, email)
	if err != nil {
		return PersonalInfo{}, false, err
	}
	// До стадии offering отсутствие анкеты — не ошибка, а "not applicable".
	if status == workflow.StatusWaiting || status == workflow.StatusRequesting {
		return PersonalInfo{}, false, nil
	}
	p, err := s.repo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Статус обещает анкету, а её нет — частично применённый оффер.
			return PersonalInfo{}, true, workflow.ErrConflict
		}
		return PersonalInfo{}, true, err
	}
	return p, true, nil
}

func (s *service) Submit(ctx context.Context, p PersonalInfo) (PersonalInfo, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	existing, err := s.repo.Get(ctx, p.Email)
	if err != nil {
		return PersonalInfo{}, err
	}
	if s.now().After(existing.DueTime) {
		return PersonalInfo{}, workflow.ErrValidation("the due time for this form has passed")
	}
	if strings.TrimSpace(p.Name) == "" {
		return PersonalInfo{}, workflow.ErrValidation("name is required")
	}
	// DueTime задаёт только HR; формой она не перезаписывается.
	p.DueTime = existing.DueTime
	// Незатронутые формой файлы сохраняются.
	for field := range FileFields {
		if p.FileURL(field) == "" {
			p.SetFileURL(field, existing.FileURL(field))
		}
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return PersonalInfo{}, err
	}
	return p, nil
}

func (s *service) ClearFile(ctx context.Context, email, field string) (PersonalInfo, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !FileFields[field] {
		return PersonalInfo{}, workflow.ErrValidation("unknown file field: " + field)
	}
	p, err := s.repo.Get(ctx, email)
	if err != nil {
		return PersonalInfo{}, err
	}
	p.SetFileURL(field, "")
	if err := s.repo.Update(ctx, p); err != nil {
		return PersonalInfo{}, err
	}
	return p, nil
}
