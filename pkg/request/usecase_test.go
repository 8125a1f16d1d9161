package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/internship/pkg/catalog"
	"github.com/artem13815/internship/pkg/workflow"
)

const candEmail = "cand@example.com"

type memRepo struct {
	requests map[string]Request
}

func newMemRepo() *memRepo { return &memRepo{requests: make(map[string]Request)} }

func (r *memRepo) Create(_ context.Context, req Request) error {
	r.requests[req.Email] = req
	return nil
}

func (r *memRepo) Update(_ context.Context, req Request) error {
	r.requests[req.Email] = req
	return nil
}

func (r *memRepo) Get(_ context.Context, email string) (Request, error) {
	req, ok := r.requests[email]
	if !ok {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (r *memRepo) ListNotOffered(context.Context) ([]Request, error) {
	var out []Request
	for _, req := range r.requests {
		if !req.Offered {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *memRepo) SetOffered(_ context.Context, email string) error {
	req, ok := r.requests[email]
	if !ok {
		return ErrNotFound
	}
	req.Offered = true
	r.requests[email] = req
	return nil
}

type memPositionRepo struct {
	positions map[string]catalog.Position
}

func (r *memPositionRepo) Create(_ context.Context, p catalog.Position) error {
	r.positions[p.Name] = p
	return nil
}

func (r *memPositionRepo) SetAvailability(_ context.Context, name string, available bool) error {
	p := r.positions[name]
	p.Availability = available
	r.positions[name] = p
	return nil
}

func (r *memPositionRepo) List(context.Context) ([]catalog.Position, error) {
	var out []catalog.Position
	for _, p := range r.positions {
		out = append(out, p)
	}
	return out, nil
}

func (r *memPositionRepo) Get(_ context.Context, name string) (catalog.Position, error) {
	p, ok := r.positions[name]
	if !ok {
		return catalog.Position{}, catalog.ErrNotFound
	}
	return p, nil
}

type memStatusStore struct {
	statuses map[string]workflow.Status
}

func (s *memStatusStore) GetStatus(_ context.Context, email string) (workflow.Status, error) {
	st, ok := s.statuses[email]
	if !ok {
		return "", workflow.ErrNotFound
	}
	return st, nil
}

func (s *memStatusStore) SetStatusIf(_ context.Context, email string, from, to workflow.Status) error {
	if s.statuses[email] != from {
		return workflow.ErrStale
	}
	s.statuses[email] = to
	return nil
}

func newRequestService(status workflow.Status) (UseCase, *memRepo, *memStatusStore) {
	repo := newMemRepo()
	statuses := &memStatusStore{statuses: map[string]workflow.Status{candEmail: status}}
	positions := &memPositionRepo{positions: map[string]catalog.Position{
		"backend":  {Name: "backend", Availability: true},
		"frontend": {Name: "frontend", Availability: true},
		"devops":   {Name: "devops", Availability: false},
	}}
	return NewService(repo, positions, workflow.NewGuard(statuses)), repo, statuses
}

func TestSubmitFirstApplicationAdvancesStatus(t *testing.T) {
	svc, repo, statuses := newRequestService(workflow.StatusWaiting)

	r, err := svc.Submit(context.Background(), "Cand@Example.com ", []string{"backend"}, "/uploads/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, candEmail, r.Email)
	assert.Equal(t, []string{"backend"}, r.Positions)
	assert.False(t, r.Offered)
	assert.Contains(t, repo.requests, candEmail)
	assert.Equal(t, workflow.StatusRequesting, statuses.statuses[candEmail])
}

func TestSubmitRequiresResumeOnFirstApplication(t *testing.T) {
	svc, repo, statuses := newRequestService(workflow.StatusWaiting)

	_, err := svc.Submit(context.Background(), candEmail, []string{"backend"}, "")
	var ve workflow.ErrValidation
	require.ErrorAs(t, err, &ve)
	// статус не двинулся, заявка не создана
	assert.Empty(t, repo.requests)
	assert.Equal(t, workflow.StatusWaiting, statuses.statuses[candEmail])
}

func TestSubmitRejectsUnknownAndUnavailablePositions(t *testing.T) {
	svc, _, _ := newRequestService(workflow.StatusWaiting)
	ctx := context.Background()

	var ve workflow.ErrValidation
	_, err := svc.Submit(ctx, candEmail, []string{"qa"}, "/uploads/cv.pdf")
	require.ErrorAs(t, err, &ve)

	_, err = svc.Submit(ctx, candEmail, []string{"devops"}, "/uploads/cv.pdf")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "devops")

	_, err = svc.Submit(ctx, candEmail, nil, "/uploads/cv.pdf")
	require.ErrorAs(t, err, &ve)
}

func TestSubmitEditKeepsStatusAndResume(t *testing.T) {
	svc, _, statuses := newRequestService(workflow.StatusWaiting)
	ctx := context.Background()

	_, err := svc.Submit(ctx, candEmail, []string{"backend"}, "/uploads/cv.pdf")
	require.NoError(t, err)

	// правка без нового резюме: позиции меняются, резюме остаётся
	r, err := svc.Submit(ctx, candEmail, []string{"frontend"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"frontend"}, r.Positions)
	assert.Equal(t, "/uploads/cv.pdf", r.Resume)
	assert.Equal(t, workflow.StatusRequesting, statuses.statuses[candEmail])
}

func TestSubmitEditForbiddenAfterOffer(t *testing.T) {
	svc, repo, _ := newRequestService(workflow.StatusWaiting)
	ctx := context.Background()

	_, err := svc.Submit(ctx, candEmail, []string{"backend"}, "/uploads/cv.pdf")
	require.NoError(t, err)
	require.NoError(t, repo.SetOffered(ctx, candEmail))

	_, err = svc.Submit(ctx, candEmail, []string{"frontend"}, "")
	assert.ErrorIs(t, err, workflow.ErrConflict)
}

func TestSubmitReconcilesStatusAfterPartialFailure(t *testing.T) {
	svc, repo, statuses := newRequestService(workflow.StatusWaiting)
	ctx := context.Background()

	// имитация частично применённой первой подачи: заявка есть, статус нет
	require.NoError(t, repo.Create(ctx, Request{Email: candEmail, Positions: []string{"backend"}, Resume: "/uploads/cv.pdf"}))

	_, err := svc.Submit(ctx, candEmail, []string{"backend"}, "")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusRequesting, statuses.statuses[candEmail])
}
