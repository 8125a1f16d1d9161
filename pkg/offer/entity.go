package offer

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TestStatus — состояние одного тестового задания внутри оффера.
type TestStatus string

const (
	TestDoing     TestStatus = "doing"
	TestSubmitted TestStatus = "submitted"
)

// SkillTestOffer — экземпляр тестового задания, выданный кандидату.
// UploadedFiles — зафиксированные решения; StagedFiles — загруженные, но
// ещё не отправленные файлы (их убирает dismiss). Rank — место теста в
// перестановке 1..N предпочтений кандидата.
type SkillTestOffer struct {
	Name          string
	UploadedFiles []string
	StagedFiles   []string
	Status        TestStatus
	Rank          int
	Explanation   string
}

// Offer — пакет тестовых заданий с общим дедлайном.
type Offer struct {
	Email      string
	DueTime    time.Time
	SkillTests []SkillTestOffer
}

var ErrNotFound = errors.New("offer not found")

// ErrUnknownTest возвращается при обращении к тесту, которого нет в оффере.
type ErrUnknownTest string

func (e ErrUnknownTest) Error() string { return fmt.Sprintf("no such skill test in offer: %s", string(e)) }

// Repository — порт хранения офферов.
type Repository interface {
	Create(ctx context.Context, o Offer) error
	Save(ctx context.Context, o Offer) error
	Get(ctx context.Context, email string) (Offer, error)
}

func (o *Offer) test(name string) *SkillTestOffer {
	for i := range o.SkillTests {
		if o.SkillTests[i].Name == name {
			return &o.SkillTests[i]
		}
	}
	return nil
}

// AllSubmitted reports whether every test has been handed in. The check is
// a conjunction over current state, so re-evaluating it is always safe.
func (o *Offer) AllSubmitted() bool {
	if len(o.SkillTests) == 0 {
		return false
	}
	for _, t := range o.SkillTests {
		if t.Status != TestSubmitted {
			return false
		}
	}
	return true
}

// ValidRanks reports whether ranks form a permutation of 1..N.
func (o *Offer) ValidRanks() bool {
	seen := make(map[int]bool, len(o.SkillTests))
	for _, t := range o.SkillTests {
		if t.Rank < 1 || t.Rank > len(o.SkillTests) || seen[t.Rank] {
			return false
		}
		seen[t.Rank] = true
	}
	return true
}

// SetRank присваивает тесту новое место. Если место занято, тесты меняются
// местами — перестановка 1..N не нарушается никогда.
func (o *Offer) SetRank(name string, rank int) error {
	if rank < 1 || rank > len(o.SkillTests) {
		return fmt.Errorf("rank %d out of range 1..%d", rank, len(o.SkillTests))
	}
	target := o.test(name)
	if target == nil {
		return ErrUnknownTest(name)
	}
	old := target.Rank
	if old == rank {
		return nil
	}
	for i := range o.SkillTests {
		if o.SkillTests[i].Rank == rank {
			o.SkillTests[i].Rank = old
			break
		}
	}
	target.Rank = rank
	return nil
}

// SubmitTest фиксирует решение: keep (подмножество уже зафиксированных
// файлов) + staged + extra становятся UploadedFiles, staging очищается,
// статус — submitted. Повторная отправка уже сданного теста — no-op.
func (o *Offer) SubmitTest(name string, keep, extra []string) (changed bool, err error) {
	t := o.test(name)
	if t == nil {
		return false, ErrUnknownTest(name)
	}
	if t.Status == TestSubmitted {
		return false, nil
	}
	committed := make([]string, 0, len(keep)+len(t.StagedFiles)+len(extra))
	for _, f := range keep {
		if containsFile(t.UploadedFiles, f) {
			committed = append(committed, f)
		}
	}
	committed = append(committed, t.StagedFiles...)
	committed = append(committed, extra...)
	t.UploadedFiles = committed
	t.StagedFiles = nil
	t.Status = TestSubmitted
	return true, nil
}

// DismissTest очищает staging теста; статус и зафиксированные файлы не
// меняются.
func (o *Offer) DismissTest(name string) error {
	t := o.test(name)
	if t == nil {
		return ErrUnknownTest(name)
	}
	t.StagedFiles = nil
	return nil
}

// Expire принудительно сдаёт все незакрытые тесты, когда дедлайн прошёл:
// фиксируются текущие UploadedFiles плюс всё из staging. Возвращает имена
// затронутых тестов; на уже сданном оффере всегда пусто.
func (o *Offer) Expire(now time.Time) []string {
	if !now.After(o.DueTime) {
		return nil
	}
	var forced []string
	for i := range o.SkillTests {
		t := &o.SkillTests[i]
		if t.Status != TestDoing {
			continue
		}
		t.UploadedFiles = append(t.UploadedFiles, t.StagedFiles...)
		t.StagedFiles = nil
		t.Status = TestSubmitted
		forced = append(forced, t.Name)
	}
	return forced
}

func containsFile(files []string, f string) bool {
	for _, x := range files {
		if x == f {
			return true
		}
	}
	return false
}
