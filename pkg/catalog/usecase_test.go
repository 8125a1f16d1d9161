package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/internship/pkg/workflow"
)

type memPositionRepo struct {
	positions map[string]Position
}

func (r *memPositionRepo) Create(_ context.Context, p Position) error {
	if _, ok := r.positions[p.Name]; ok {
		return ErrAlreadyExists
	}
	r.positions[p.Name] = p
	return nil
}

func (r *memPositionRepo) SetAvailability(_ context.Context, name string, available bool) error {
	p, ok := r.positions[name]
	if !ok {
		return ErrNotFound
	}
	p.Availability = available
	r.positions[name] = p
	return nil
}

func (r *memPositionRepo) List(context.Context) ([]Position, error) {
	var out []Position
	for _, p := range r.positions {
		out = append(out, p)
	}
	return out, nil
}

func (r *memPositionRepo) Get(_ context.Context, name string) (Position, error) {
	p, ok := r.positions[name]
	if !ok {
		return Position{}, ErrNotFound
	}
	return p, nil
}

type memSkillTestRepo struct {
	tests map[string]SkillTest
}

func (r *memSkillTestRepo) Create(_ context.Context, t SkillTest) error {
	if _, ok := r.tests[t.Name]; ok {
		return ErrAlreadyExists
	}
	r.tests[t.Name] = t
	return nil
}

func (r *memSkillTestRepo) Delete(_ context.Context, name string) error {
	if _, ok := r.tests[name]; !ok {
		return ErrNotFound
	}
	delete(r.tests, name)
	return nil
}

func (r *memSkillTestRepo) List(context.Context) ([]SkillTest, error) {
	var out []SkillTest
	for _, t := range r.tests {
		out = append(out, t)
	}
	return out, nil
}

func (r *memSkillTestRepo) GetByName(_ context.Context, name string) (SkillTest, error) {
	t, ok := r.tests[name]
	if !ok {
		return SkillTest{}, ErrNotFound
	}
	return t, nil
}

func newCatalogService() UseCase {
	return NewService(
		&memPositionRepo{positions: make(map[string]Position)},
		&memSkillTestRepo{tests: make(map[string]SkillTest)},
	)
}

func TestCreatePosition(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()

	p, err := svc.CreatePosition(ctx, Position{Name: " backend ", Availability: true})
	require.NoError(t, err)
	assert.Equal(t, "backend", p.Name)

	_, err = svc.CreatePosition(ctx, Position{Name: "backend"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var ve workflow.ErrValidation
	_, err = svc.CreatePosition(ctx, Position{Name: "  "})
	assert.ErrorAs(t, err, &ve)
}

func TestSetAvailability(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()

	_, err := svc.CreatePosition(ctx, Position{Name: "backend", Availability: true})
	require.NoError(t, err)
	require.NoError(t, svc.SetAvailability(ctx, "backend", false))

	list, err := svc.ListPositions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Availability)

	assert.ErrorIs(t, svc.SetAvailability(ctx, "qa", true), ErrNotFound)
}

func TestCreateSkillTestRequiresPositionAndPDF(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()
	_, err := svc.CreatePosition(ctx, Position{Name: "backend", Availability: true})
	require.NoError(t, err)

	var ve workflow.ErrValidation
	_, err = svc.CreateSkillTest(ctx, SkillTest{Name: "backend-api", Position: "backend"})
	assert.ErrorAs(t, err, &ve)

	_, err = svc.CreateSkillTest(ctx, SkillTest{Name: "backend-api", Position: "qa", PDF: "/uploads/t.pdf"})
	assert.ErrorAs(t, err, &ve)

	st, err := svc.CreateSkillTest(ctx, SkillTest{Name: "backend-api", Position: "backend", PDF: "/uploads/t.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "backend", st.Position)

	got, err := svc.GetSkillTest(ctx, "backend-api")
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestDeleteSkillTest(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()
	_, err := svc.CreatePosition(ctx, Position{Name: "backend", Availability: true})
	require.NoError(t, err)
	_, err = svc.CreateSkillTest(ctx, SkillTest{Name: "backend-api", Position: "backend", PDF: "/uploads/t.pdf"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSkillTest(ctx, "backend-api"))
	_, err = svc.GetSkillTest(ctx, "backend-api")
	assert.ErrorIs(t, err, ErrNotFound)
}
