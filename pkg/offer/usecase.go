package offer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/artem13815/internship/pkg/catalog"
	"github.com/artem13815/internship/pkg/personalinfo"
	"github.com/artem13815/internship/pkg/request"
	"github.com/artem13815/internship/pkg/screening"
	"github.com/artem13815/internship/pkg/workflow"
)

// Assignment — выбранная позиция и назначенное на неё тестовое задание.
type Assignment struct {
	Position  string
	SkillTest string
}

// TestUpdate — нетерминальная правка одного теста (save): новое место,
// пояснение, какие из зафиксированных файлов оставить и какие новые
// файлы положить в staging.
type TestUpdate struct {
	Name        string
	Rank        int
	Explanation string
	KeepFiles   []string
	StagedFiles []string
}

// UseCase — сценарии работы с офферами и вложенными тестовыми заданиями.
// Каждое чтение и каждая запись сначала прогоняют дедлайн (Expire):
// просроченные тесты сдаются принудительно на стороне сервера, ровно один
// раз, независимо от того, открыт ли у кандидата клиент.
type UseCase interface {
	// MakeOffer — составная операция HR: анкета + оффер + offered-флаг
	// заявки + переход requesting→offering.
	MakeOffer(ctx context.Context, email string, dueTime time.Time, assignments []Assignment) error
	// Get возвращает оффер; applicable=false на этапах waiting/requesting.
	Get(ctx context.Context, email string) (Offer, bool, error)
	// Update — bulk save правок кандидата по ещё не сданным тестам.
	Update(ctx context.Context, email string, updates []TestUpdate) (Offer, error)
	// Submit сдаёт один тест; возвращает оффер и признак "все сданы".
	Submit(ctx context.Context, email, testName string, keep, newFiles []string) (Offer, bool, error)
	// Dismiss убирает staging одного теста.
	Dismiss(ctx context.Context, email, testName string) (Offer, error)
}

type service struct {
	repo      Repository
	personal  personalinfo.UseCase
	requests  request.Repository
	tests     catalog.SkillTestRepository
	screening screening.UseCase
	guard     *workflow.Guard
	now       func() time.Time
}

func NewService(repo Repository, personal personalinfo.UseCase, requests request.Repository,
	tests catalog.SkillTestRepository, scr screening.UseCase, guard *workflow.Guard) UseCase {
	return &service{
		repo:      repo,
		personal:  personal,
		requests:  requests,
		tests:     tests,
		screening: scr,
		guard:     guard,
		now:       time.Now,
	}
}

func (s *service) MakeOffer(ctx context.Context, email string, dueTime time.Time, assignments []Assignment) error {
	email = strings.ToLower(strings.TrimSpace(email))

	// Валидация перечисляет каждую недостающую часть разом.
	var missing []string
	if email == "" {
		missing = append(missing, "missing candidate email")
	}
	if dueTime.IsZero() {
		missing = append(missing, "missing due time")
	}
	if len(assignments) == 0 {
		missing = append(missing, "no position selected")
	}
	for _, a := range assignments {
		if strings.TrimSpace(a.SkillTest) == "" {
			missing = append(missing, "no skill test chosen for position "+a.Position)
		}
	}
	if len(missing) > 0 {
		return workflow.ErrValidation(strings.Join(missing, "; "))
	}
	if !dueTime.After(s.now()) {
		return workflow.ErrValidation("due time must be in the future")
	}

	req, err := s.requests.Get(ctx, email)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return workflow.ErrConflict
		}
		return err
	}
	requested := make(map[string]bool, len(req.Positions))
	for _, p := range req.Positions {
		requested[p] = true
	}
	seen := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		if !requested[a.Position] {
			return workflow.ErrValidation("position was not requested by the candidate: " + a.Position)
		}
		if seen[a.SkillTest] {
			return workflow.ErrValidation("duplicate skill test: " + a.SkillTest)
		}
		seen[a.SkillTest] = true
		t, err := s.tests.GetByName(ctx, a.SkillTest)
		if err != nil {
			return workflow.ErrValidation("unknown skill test: " + a.SkillTest)
		}
		if t.Position != a.Position {
			return workflow.ErrValidation("skill test " + a.SkillTest + " belongs to position " + t.Position)
		}
	}

	cur, err := s.guard.Current(ctx, email)
	if err != nil {
		return err
	}
	if cur != workflow.StatusRequesting && cur != workflow.StatusOffering {
		return &workflow.TransitionError{From: cur, To: workflow.StatusOffering}
	}

	// Эффекты в порядке, безопасном для ретрая: каждая ступень — no-op,
	// если уже применена; статус пишется последним.
	if err := s.personal.Create(ctx, email, dueTime); err != nil {
		return err
	}
	if _, err := s.repo.Get(ctx, email); errors.Is(err, ErrNotFound) {
		o := Offer{Email: email, DueTime: dueTime.UTC()}
		for i, a := range assignments {
			o.SkillTests = append(o.SkillTests, SkillTestOffer{
				Name:   a.SkillTest,
				Status: TestDoing,
				Rank:   i + 1,
			})
		}
		if err := s.repo.Create(ctx, o); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	if err := s.requests.SetOffered(ctx, email); err != nil {
		return err
	}
	return s.guard.Advance(ctx, email, workflow.StatusOffering)
}

func (s *service) Get(ctx context.Context, email string) (Offer, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	status, err := s.guard.Current(ctx, email)
	if err != nil {
		return Offer{}, false, err
	}
	if status == workflow.StatusWaiting || status == workflow.StatusRequesting {
		return Offer{}, false, nil
	}
	o, err := s.load(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Offer{}, true, workflow.ErrConflict
		}
		return Offer{}, true, err
	}
	return o, true, nil
}

func (s *service) Update(ctx context.Context, email string, updates []TestUpdate) (Offer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	o, err := s.load(ctx, email)
	if err != nil {
		return Offer{}, err
	}
	if s.now().After(o.DueTime) {
		return Offer{}, workflow.ErrValidation("the due time for this offer has passed")
	}
	for _, u := range updates {
		t := o.test(u.Name)
		if t == nil {
			return Offer{}, ErrUnknownTest(u.Name)
		}
		if t.Status != TestDoing {
			continue
		}
		if u.Rank != 0 {
			if err := o.SetRank(u.Name, u.Rank); err != nil {
				return Offer{}, workflow.ErrValidation(err.Error())
			}
		}
		t.Explanation = u.Explanation
		if u.KeepFiles != nil {
			kept := make([]string, 0, len(u.KeepFiles))
			for _, f := range u.KeepFiles {
				if containsFile(t.UploadedFiles, f) {
					kept = append(kept, f)
				}
			}
			t.UploadedFiles = kept
		}
		t.StagedFiles = append(t.StagedFiles, u.StagedFiles...)
	}
	if !o.ValidRanks() {
		return Offer{}, workflow.ErrValidation("ranks must form a permutation of 1..N")
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return Offer{}, err
	}
	return o, nil
}

func (s *service) Submit(ctx context.Context, email, testName string, keep, newFiles []string) (Offer, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	o, err := s.load(ctx, email)
	if err != nil {
		return Offer{}, false, err
	}
	changed, err := o.SubmitTest(testName, keep, newFiles)
	if err != nil {
		return Offer{}, false, err
	}
	if changed {
		if err := s.repo.Save(ctx, o); err != nil {
			return Offer{}, false, err
		}
		if err := s.afterChange(ctx, &o); err != nil {
			return Offer{}, false, err
		}
	}
	return o, o.AllSubmitted(), nil
}

func (s *service) Dismiss(ctx context.Context, email, testName string) (Offer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	o, err := s.load(ctx, email)
	if err != nil {
		return Offer{}, err
	}
	if err := o.DismissTest(testName); err != nil {
		return Offer{}, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return Offer{}, err
	}
	return o, nil
}

// load читает оффер и авторитетно применяет дедлайн: просроченные тесты
// сдаются здесь, до того как вызывающий код увидит агрегат.
func (s *service) load(ctx context.Context, email string) (Offer, error) {
	o, err := s.repo.Get(ctx, email)
	if err != nil {
		return Offer{}, err
	}
	if forced := o.Expire(s.now()); len(forced) > 0 {
		if err := s.repo.Save(ctx, o); err != nil {
			return Offer{}, err
		}
		if err := s.afterChange(ctx, &o); err != nil {
			return Offer{}, err
		}
	}
	return o, nil
}

// afterChange пересчитывает агрегатный переход "все тесты сданы →
// considering". Проверка смотрит на фактическое состояние, а переход
// идемпотентен, поэтому её можно гонять после каждого изменения любого
// теста без риска двойного срабатывания.
func (s *service) afterChange(ctx context.Context, o *Offer) error {
	if !o.AllSubmitted() {
		return nil
	}
	cur, err := s.guard.Current(ctx, o.Email)
	if err != nil {
		return err
	}
	if cur != workflow.StatusOffering {
		return nil
	}
	// Метрики отбора должны существовать к моменту входа в considering.
	if err := s.screening.EnsureFilter(ctx, o.Email); err != nil {
		return err
	}
	return s.guard.Advance(ctx, o.Email, workflow.StatusConsidering)
}
