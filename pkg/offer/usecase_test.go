package offer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/internship/pkg/catalog"
	"github.com/artem13815/internship/pkg/personalinfo"
	"github.com/artem13815/internship/pkg/request"
	"github.com/artem13815/internship/pkg/screening"
	"github.com/artem13815/internship/pkg/workflow"
)

const candEmail = "cand@example.com"

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

type memOfferRepo struct {
	offers  map[string]Offer
	creates int
}

func newMemOfferRepo() *memOfferRepo { return &memOfferRepo{offers: make(map[string]Offer)} }

func (r *memOfferRepo) Create(_ context.Context, o Offer) error {
	r.creates++
	r.offers[o.Email] = o
	return nil
}

func (r *memOfferRepo) Save(_ context.Context, o Offer) error {
	r.offers[o.Email] = o
	return nil
}

func (r *memOfferRepo) Get(_ context.Context, email string) (Offer, error) {
	o, ok := r.offers[email]
	if !ok {
		return Offer{}, ErrNotFound
	}
	return o, nil
}

type fakePersonal struct {
	created map[string]time.Time
}

func (f *fakePersonal) Create(_ context.Context, email string, dueTime time.Time) error {
	if f.created == nil {
		f.created = make(map[string]time.Time)
	}
	f.created[email] = dueTime
	return nil
}

func (f *fakePersonal) Get(context.Context, string) (personalinfo.PersonalInfo, bool, error) {
	return personalinfo.PersonalInfo{}, false, nil
}

func (f *fakePersonal) Submit(_ context.Context, p personalinfo.PersonalInfo) (personalinfo.PersonalInfo, error) {
	return p, nil
}

func (f *fakePersonal) ClearFile(context.Context, string, string) (personalinfo.PersonalInfo, error) {
	return personalinfo.PersonalInfo{}, nil
}

type memRequestRepo struct {
	requests map[string]request.Request
}

func (r *memRequestRepo) Create(_ context.Context, req request.Request) error {
	r.requests[req.Email] = req
	return nil
}

func (r *memRequestRepo) Update(_ context.Context, req request.Request) error {
	r.requests[req.Email] = req
	return nil
}

func (r *memRequestRepo) Get(_ context.Context, email string) (request.Request, error) {
	req, ok := r.requests[email]
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	return req, nil
}

func (r *memRequestRepo) ListNotOffered(context.Context) ([]request.Request, error) {
	var out []request.Request
	for _, req := range r.requests {
		if !req.Offered {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *memRequestRepo) SetOffered(_ context.Context, email string) error {
	req, ok := r.requests[email]
	if !ok {
		return request.ErrNotFound
	}
	req.Offered = true
	r.requests[email] = req
	return nil
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

func (r *memTestRepo) List(context.Context) ([]catalog.SkillTest, error) {
	var out []catalog.SkillTest
	for _, t := range r.tests {
		out = append(out, t)
	}
	return out, nil
}

func (r *memTestRepo) GetByName(_ context.Context, name string) (catalog.SkillTest, error) {
	t, ok := r.tests[name]
	if !ok {
		return catalog.SkillTest{}, catalog.ErrNotFound
	}
	return t, nil
}

type fakeScreening struct {
	ensured map[string]int
}

func (f *fakeScreening) EnsureFilter(_ context.Context, email string) error {
	if f.ensured == nil {
		f.ensured = make(map[string]int)
	}
	f.ensured[email]++
	return nil
}

func (f *fakeScreening) Get(context.Context, string) (screening.Filter, error) {
	return screening.Filter{}, nil
}

func (f *fakeScreening) ListNotDone(context.Context) ([]screening.Filter, error) { return nil, nil }

func (f *fakeScreening) SetDone(context.Context, string) error { return nil }

func (f *fakeScreening) UpdateScores(context.Context, string, float64, int) (screening.Filter, error) {
	return screening.Filter{}, nil
}

type offerFixture struct {
	svc       *service
	repo      *memOfferRepo
	personal  *fakePersonal
	requests  *memRequestRepo
	screening *fakeScreening
	statuses  *memStatusStore
	clock     time.Time
}

func newOfferFixture(t *testing.T, status workflow.Status) *offerFixture {
	t.Helper()
	f := &offerFixture{
		repo:      newMemOfferRepo(),
		personal:  &fakePersonal{},
		screening: &fakeScreening{},
		statuses:  &memStatusStore{statuses: map[string]workflow.Status{candEmail: status}},
		clock:     time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		requests: &memRequestRepo{requests: map[string]request.Request{
			candEmail: {Email: candEmail, Positions: []string{"backend", "frontend"}, Resume: "/uploads/cv.pdf"},
		}},
	}
	tests := &memTestRepo{tests: map[string]catalog.SkillTest{
		"backend-api": {Name: "backend-api", Position: "backend", PDF: "/uploads/api.pdf"},
		"frontend-ui": {Name: "frontend-ui", Position: "frontend", PDF: "/uploads/ui.pdf"},
		"backend-alt": {Name: "backend-alt", Position: "backend", PDF: "/uploads/alt.pdf"},
	}}
	guard := workflow.NewGuard(f.statuses)
	f.svc = NewService(f.repo, f.personal, f.requests, tests, f.screening, guard).(*service)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *offerFixture) due() time.Time { return f.clock.Add(72 * time.Hour) }

func (f *offerFixture) status() workflow.Status { return f.statuses.statuses[candEmail] }

func TestMakeOfferHappyPath(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)
	ctx := context.Background()

	err := f.svc.MakeOffer(ctx, candEmail, f.due(), []Assignment{
		{Position: "backend", SkillTest: "backend-api"},
		{Position: "frontend", SkillTest: "frontend-ui"},
	})
	require.NoError(t, err)

	o, err := f.repo.Get(ctx, candEmail)
	require.NoError(t, err)
	assert.Len(t, o.SkillTests, 2)
	assert.True(t, o.ValidRanks())
	for _, st := range o.SkillTests {
		assert.Equal(t, TestDoing, st.Status)
	}
	// анкета заведена с тем же дедлайном
	assert.Equal(t, f.due(), f.personal.created[candEmail])
	// заявка помечена и кандидат переведён в offering
	assert.True(t, f.requests.requests[candEmail].Offered)
	assert.Equal(t, workflow.StatusOffering, f.status())
}

func TestMakeOfferEnumeratesAllMissingParts(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)

	err := f.svc.MakeOffer(context.Background(), "", time.Time{}, nil)
	var ve workflow.ErrValidation
	require.ErrorAs(t, err, &ve)
	msg := ve.Error()
	assert.Contains(t, msg, "missing candidate email")
	assert.Contains(t, msg, "missing due time")
	assert.Contains(t, msg, "no position selected")
}

func TestMakeOfferRejectsUnrequestedPosition(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)

	err := f.svc.MakeOffer(context.Background(), candEmail, f.due(), []Assignment{
		{Position: "data", SkillTest: "backend-api"},
	})
	var ve workflow.ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "data")
	assert.Equal(t, workflow.StatusRequesting, f.status())
}

func TestMakeOfferRejectsMismatchedTest(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)

	// backend-api привязан к позиции backend, а не frontend
	err := f.svc.MakeOffer(context.Background(), candEmail, f.due(), []Assignment{
		{Position: "frontend", SkillTest: "backend-api"},
	})
	var ve workflow.ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "backend-api")
}

func TestMakeOfferRejectsPastDueTime(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)

	err := f.svc.MakeOffer(context.Background(), candEmail, f.clock.Add(-time.Hour), []Assignment{
		{Position: "backend", SkillTest: "backend-api"},
	})
	var ve workflow.ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "due time")
}

func TestMakeOfferRetryAfterPartialFailure(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)
	ctx := context.Background()
	assignments := []Assignment{{Position: "backend", SkillTest: "backend-api"}}

	require.NoError(t, f.svc.MakeOffer(ctx, candEmail, f.due(), assignments))
	// ретрай той же операции не создаёт второй оффер и не падает
	require.NoError(t, f.svc.MakeOffer(ctx, candEmail, f.due(), assignments))
	assert.Equal(t, 1, f.repo.creates)
	assert.Equal(t, workflow.StatusOffering, f.status())
}

func TestGetNotApplicableBeforeOffer(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)

	_, applicable, err := f.svc.Get(context.Background(), candEmail)
	require.NoError(t, err)
	assert.False(t, applicable)
}

func TestGetConflictWhenOfferMissingAtLaterStage(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusOffering)

	_, applicable, err := f.svc.Get(context.Background(), candEmail)
	assert.True(t, applicable)
	assert.ErrorIs(t, err, workflow.ErrConflict)
}

func makeOffered(t *testing.T, f *offerFixture) {
	t.Helper()
	require.NoError(t, f.svc.MakeOffer(context.Background(), candEmail, f.due(), []Assignment{
		{Position: "backend", SkillTest: "backend-api"},
		{Position: "frontend", SkillTest: "frontend-ui"},
	}))
}

func TestSubmitLastTestAdvancesToConsidering(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)
	makeOffered(t, f)
	ctx := context.Background()

	_, all, err := f.svc.Submit(ctx, candEmail, "backend-api", nil, []string{"/uploads/s1.zip"})
	require.NoError(t, err)
	assert.False(t, all)
	assert.Equal(t, workflow.StatusOffering, f.status())

	_, all, err = f.svc.Submit(ctx, candEmail, "frontend-ui", nil, []string{"/uploads/s2.zip"})
	require.NoError(t, err)
	assert.True(t, all)
	assert.Equal(t, workflow.StatusConsidering, f.status())
	assert.Equal(t, 1, f.screening.ensured[candEmail])

	// повторная сдача уже сданного — no-op, фильтр не пересоздаётся
	_, all, err = f.svc.Submit(ctx, candEmail, "frontend-ui", nil, nil)
	require.NoError(t, err)
	assert.True(t, all)
	assert.Equal(t, 1, f.screening.ensured[candEmail])
}

func TestDeadlineForcesSubmissionOnRead(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)
	makeOffered(t, f)
	ctx := context.Background()

	// кандидат успел сохранить черновик одного теста
	_, err := f.svc.Update(ctx, candEmail, []TestUpdate{
		{Name: "backend-api", Explanation: "wip", StagedFiles: []string{"/uploads/draft.zip"}},
	})
	require.NoError(t, err)

	f.clock = f.due().Add(time.Minute)

	o, applicable, err := f.svc.Get(ctx, candEmail)
	require.NoError(t, err)
	assert.True(t, applicable)
	assert.True(t, o.AllSubmitted())
	// staging зафиксирован принудительной сдачей
	assert.Equal(t, []string{"/uploads/draft.zip"}, o.test("backend-api").UploadedFiles)
	assert.Equal(t, workflow.StatusConsidering, f.status())
	assert.Equal(t, 1, f.screening.ensured[candEmail])
}

func TestUpdateRejectedAfterDeadline(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)
	makeOffered(t, f)
	f.clock = f.due().Add(time.Minute)

	_, err := f.svc.Update(context.Background(), candEmail, []TestUpdate{{Name: "backend-api", Explanation: "late"}})
	var ve workflow.ErrValidation
	assert.ErrorAs(t, err, &ve)
}

func TestUpdateSwapsRanksAndStagesFiles(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)
	makeOffered(t, f)
	ctx := context.Background()

	o, err := f.svc.Update(ctx, candEmail, []TestUpdate{
		{Name: "frontend-ui", Rank: 1, Explanation: "prefer ui", StagedFiles: []string{"/uploads/ui-draft.zip"}},
	})
	require.NoError(t, err)
	assert.True(t, o.ValidRanks())
	assert.Equal(t, 1, o.test("frontend-ui").Rank)
	assert.Equal(t, 2, o.test("backend-api").Rank)
	assert.Equal(t, []string{"/uploads/ui-draft.zip"}, o.test("frontend-ui").StagedFiles)
	assert.Empty(t, o.test("frontend-ui").UploadedFiles)
}

func TestDismissDropsStagingOnly(t *testing.T) {
	f := newOfferFixture(t, workflow.StatusRequesting)
	makeOffered(t, f)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, candEmail, []TestUpdate{
		{Name: "backend-api", StagedFiles: []string{"/uploads/draft.zip"}},
	})
	require.NoError(t, err)

	o, err := f.svc.Dismiss(ctx, candEmail, "backend-api")
	require.NoError(t, err)
	assert.Empty(t, o.test("backend-api").StagedFiles)
	assert.Equal(t, TestDoing, o.test("backend-api").Status)
}
