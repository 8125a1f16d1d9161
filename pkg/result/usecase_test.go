package result

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/internship/pkg/catalog"
	"github.com/artem13815/internship/pkg/offer"
	"github.com/artem13815/internship/pkg/screening"
	"github.com/artem13815/internship/pkg/workflow"
)

const candEmail = "cand@example.com"

type memResultRepo struct {
	results map[string]Result
}

func (r *memResultRepo) Create(_ context.Context, res Result) error {
	if _, ok := r.results[res.Email]; ok {
		return ErrAlreadyExists
	}
	r.results[res.Email] = res
	return nil
}

func (r *memResultRepo) Get(_ context.Context, email string) (Result, error) {
	res, ok := r.results[email]
	if !ok {
		return Result{}, ErrNotFound
	}
	return res, nil
}

type memOfferRepo struct {
	offers map[string]offer.Offer
}

func (r *memOfferRepo) Create(_ context.Context, o offer.Offer) error {
	r.offers[o.Email] = o
	return nil
}

func (r *memOfferRepo) Save(_ context.Context, o offer.Offer) error {
	r.offers[o.Email] = o
	return nil
}

func (r *memOfferRepo) Get(_ context.Context, email string) (offer.Offer, error) {
	o, ok := r.offers[email]
	if !ok {
		return offer.Offer{}, offer.ErrNotFound
	}
	return o, nil
}

type memTestRepo struct {
	tests map[string]catalog.SkillTest
}

func (r *memTestRepo) Create(_ context.Context, t catalog.SkillTest) error {
	r.tests[t.Name] = t
	return nil
}

func (r *memTestRepo) Delete(_ context.Context, name string) error {
	delete(r.tests, name)
	return nil
}

func (r *memTestRepo) List(context.Context) ([]catalog.SkillTest, error) { return nil, nil }

func (r *memTestRepo) GetByName(_ context.Context, name string) (catalog.SkillTest, error) {
	t, ok := r.tests[name]
	if !ok {
		return catalog.SkillTest{}, catalog.ErrNotFound
	}
	return t, nil
}

type fakeScreening struct {
	done map[string]bool
}

func (f *fakeScreening) EnsureFilter(context.Context, string) error { return nil }

func (f *fakeScreening) Get(context.Context, string) (screening.Filter, error) {
	return screening.Filter{}, nil
}

func (f *fakeScreening) ListNotDone(context.Context) ([]screening.Filter, error) { return nil, nil }

func (f *fakeScreening) SetDone(_ context.Context, email string) error {
	if f.done == nil {
		f.done = make(map[string]bool)
	}
	f.done[email] = true
	return nil
}

func (f *fakeScreening) UpdateScores(context.Context, string, float64, int) (screening.Filter, error) {
	return screening.Filter{}, nil
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

type resultFixture struct {
	svc       UseCase
	repo      *memResultRepo
	screening *fakeScreening
	statuses  *memStatusStore
}

func newResultFixture(status workflow.Status) *resultFixture {
	f := &resultFixture{
		repo:      &memResultRepo{results: make(map[string]Result)},
		screening: &fakeScreening{},
		statuses:  &memStatusStore{statuses: map[string]workflow.Status{candEmail: status}},
	}
	offers := &memOfferRepo{offers: map[string]offer.Offer{
		candEmail: {Email: candEmail, SkillTests: []offer.SkillTestOffer{
			{Name: "backend-api", Status: offer.TestSubmitted, Rank: 1},
			{Name: "frontend-ui", Status: offer.TestSubmitted, Rank: 2},
		}},
	}}
	tests := &memTestRepo{tests: map[string]catalog.SkillTest{
		"backend-api": {Name: "backend-api", Position: "backend"},
		"frontend-ui": {Name: "frontend-ui", Position: "frontend"},
	}}
	f.svc = NewService(f.repo, offers, tests, f.screening, workflow.NewGuard(f.statuses))
	return f
}

func TestRecordDecisionAccept(t *testing.T) {
	f := newResultFixture(workflow.StatusConsidering)

	r, err := f.svc.RecordDecision(context.Background(), candEmail, Accepted, []string{"backend"})
	require.NoError(t, err)
	assert.Equal(t, Accepted, r.Result)
	assert.Equal(t, []string{"backend"}, r.Positions)
	assert.Equal(t, workflow.StatusAccepted, f.statuses.statuses[candEmail])
	assert.True(t, f.screening.done[candEmail])
}

func TestRecordDecisionAcceptRequiresOfferedPosition(t *testing.T) {
	f := newResultFixture(workflow.StatusConsidering)
	ctx := context.Background()

	var ve workflow.ErrValidation
	_, err := f.svc.RecordDecision(ctx, candEmail, Accepted, []string{"devops"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "devops")

	_, err = f.svc.RecordDecision(ctx, candEmail, Accepted, nil)
	require.ErrorAs(t, err, &ve)

	// статус не тронут
	assert.Equal(t, workflow.StatusConsidering, f.statuses.statuses[candEmail])
}

func TestRecordDecisionRejectDropsPositions(t *testing.T) {
	f := newResultFixture(workflow.StatusConsidering)

	r, err := f.svc.RecordDecision(context.Background(), candEmail, Rejected, []string{"backend"})
	require.NoError(t, err)
	assert.Equal(t, Rejected, r.Result)
	assert.Empty(t, r.Positions)
	assert.Equal(t, workflow.StatusRejected, f.statuses.statuses[candEmail])
}

func TestRecordDecisionRequiresConsidering(t *testing.T) {
	f := newResultFixture(workflow.StatusOffering)

	_, err := f.svc.RecordDecision(context.Background(), candEmail, Rejected, nil)
	var te *workflow.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, workflow.StatusOffering, te.From)
}

func TestRecordDecisionRetryIsIdempotent(t *testing.T) {
	f := newResultFixture(workflow.StatusConsidering)
	ctx := context.Background()

	_, err := f.svc.RecordDecision(ctx, candEmail, Accepted, []string{"backend"})
	require.NoError(t, err)

	// повтор с тем же решением довершает эффекты и не падает
	r, err := f.svc.RecordDecision(ctx, candEmail, Accepted, []string{"backend"})
	require.NoError(t, err)
	assert.Equal(t, Accepted, r.Result)
	assert.Equal(t, workflow.StatusAccepted, f.statuses.statuses[candEmail])

	// противоположное решение после перехода — нелегальное ребро
	_, err = f.svc.RecordDecision(ctx, candEmail, Rejected, nil)
	var te *workflow.TransitionError
	assert.ErrorAs(t, err, &te)
}

func TestRecordDecisionConflictingRetry(t *testing.T) {
	f := newResultFixture(workflow.StatusConsidering)
	ctx := context.Background()

	// частично применённая запись: результат есть, переход не состоялся
	require.NoError(t, f.repo.Create(ctx, Result{Email: candEmail, Result: Accepted, Positions: []string{"backend"}}))

	_, err := f.svc.RecordDecision(ctx, candEmail, Rejected, nil)
	assert.ErrorIs(t, err, workflow.ErrConflict)

	// ретрай с исходным решением довершает переход
	_, err = f.svc.RecordDecision(ctx, candEmail, Accepted, []string{"backend"})
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusAccepted, f.statuses.statuses[candEmail])
}

func TestParseDecision(t *testing.T) {
	d, err := ParseDecision("accepted")
	require.NoError(t, err)
	assert.Equal(t, Accepted, d)
	_, err = ParseDecision("maybe")
	assert.Error(t, err)
}
