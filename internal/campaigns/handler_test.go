package campaigns

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atf-io/voicehub-sub001/internal/tenancy"
)

type fakeStore struct {
	campaigns map[string]Campaign
	steps     map[string]Step
}

func newFakeStore() *fakeStore {
	return &fakeStore{campaigns: map[string]Campaign{}, steps: map[string]Step{}}
}

func (s *fakeStore) List(_ context.Context, accountID string) ([]Campaign, error) {
	out := []Campaign{}
	for _, c := range s.campaigns {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(_ context.Context, accountID, id string) (*Campaign, error) {
	c, ok := s.campaigns[id]
	if !ok || c.AccountID != accountID {
		return nil, ErrCampaignNotFound
	}
	copied := c
	return &copied, nil
}

func (s *fakeStore) Create(_ context.Context, c *Campaign) error {
	if c.ID == "" {
		c.ID = "camp-new"
	}
	if c.Status == "" {
		c.Status = StatusDraft
	}
	s.campaigns[c.ID] = *c
	return nil
}

func (s *fakeStore) Update(_ context.Context, c *Campaign) error {
	if _, ok := s.campaigns[c.ID]; !ok {
		return ErrCampaignNotFound
	}
	s.campaigns[c.ID] = *c
	return nil
}

func (s *fakeStore) Delete(_ context.Context, accountID, id string) error {
	if _, ok := s.campaigns[id]; !ok {
		return ErrCampaignNotFound
	}
	delete(s.campaigns, id)
	for stepID, step := range s.steps {
		if step.CampaignID == id {
			delete(s.steps, stepID)
		}
	}
	return nil
}

func (s *fakeStore) ListSteps(_ context.Context, accountID, campaignID string) ([]Step, error) {
	out := []Step{}
	for _, step := range s.steps {
		if step.CampaignID == campaignID {
			out = append(out, step)
		}
	}
	return out, nil
}

func (s *fakeStore) GetStep(_ context.Context, accountID, id string) (*Step, error) {
	step, ok := s.steps[id]
	if !ok {
		return nil, ErrStepNotFound
	}
	if c, exists := s.campaigns[step.CampaignID]; !exists || c.AccountID != accountID {
		return nil, ErrStepNotFound
	}
	copied := step
	return &copied, nil
}

func (s *fakeStore) CreateStep(_ context.Context, accountID string, step *Step) error {
	c, ok := s.campaigns[step.CampaignID]
	if !ok || c.AccountID != accountID {
		return ErrCampaignNotFound
	}
	if step.ID == "" {
		step.ID = "step-new"
	}
	s.steps[step.ID] = *step
	return nil
}

func (s *fakeStore) UpdateStep(_ context.Context, accountID string, step *Step) error {
	if _, ok := s.steps[step.ID]; !ok {
		return ErrStepNotFound
	}
	s.steps[step.ID] = *step
	return nil
}

func (s *fakeStore) DeleteStep(_ context.Context, accountID, id string) error {
	if _, ok := s.steps[id]; !ok {
		return ErrStepNotFound
	}
	delete(s.steps, id)
	return nil
}

func doCampaign(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(tenancy.WithAccountID(req.Context(), "acct-1"))
	rec := httptest.NewRecorder()
	h.CampaignRoutes().ServeHTTP(rec, req)
	return rec
}

func doStep(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(tenancy.WithAccountID(req.Context(), "acct-1"))
	rec := httptest.NewRecorder()
	h.StepRoutes().ServeHTTP(rec, req)
	return rec
}

func TestCreateCampaignDefaultsToDraft(t *testing.T) {
	store := newFakeStore()
	h := NewHandler(store, nil)

	rec := doCampaign(h, http.MethodPost, "/", `{"name":"Spring push"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got Campaign
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, StatusDraft, got.Status)
	assert.Equal(t, "acct-1", got.AccountID)
}

func TestUpdateCampaignRejectsUnknownStatus(t *testing.T) {
	store := newFakeStore()
	store.campaigns["camp1"] = Campaign{ID: "camp1", AccountID: "acct-1", Name: "Spring push", Status: StatusDraft}
	h := NewHandler(store, nil)

	rec := doCampaign(h, http.MethodPatch, "/camp1", `{"status":"finished"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, StatusDraft, store.campaigns["camp1"].Status)
}

func TestUpdateCampaignActivates(t *testing.T) {
	store := newFakeStore()
	store.campaigns["camp1"] = Campaign{ID: "camp1", AccountID: "acct-1", Name: "Spring push", Status: StatusDraft}
	h := NewHandler(store, nil)

	rec := doCampaign(h, http.MethodPatch, "/camp1", `{"status":"active"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusActive, store.campaigns["camp1"].Status)
}

func TestCreateStepRequiresExistingCampaign(t *testing.T) {
	h := NewHandler(newFakeStore(), nil)

	rec := doStep(h, http.MethodPost, "/", `{"campaignId":"ghost","body":"Hi {name}!"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateStep(t *testing.T) {
	store := newFakeStore()
	store.campaigns["camp1"] = Campaign{ID: "camp1", AccountID: "acct-1", Name: "Spring push", Status: StatusActive}
	h := NewHandler(store, nil)

	rec := doStep(h, http.MethodPost, "/", `{"campaignId":"camp1","stepOrder":1,"delayMins":60,"body":"Hi {name}!"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.steps, 1)
}

func TestListStepsRequiresCampaignID(t *testing.T) {
	h := NewHandler(newFakeStore(), nil)

	rec := doStep(h, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCampaignRemovesSteps(t *testing.T) {
	store := newFakeStore()
	store.campaigns["camp1"] = Campaign{ID: "camp1", AccountID: "acct-1", Name: "Spring push"}
	store.steps["step1"] = Step{ID: "step1", CampaignID: "camp1", Body: "Hi"}
	h := NewHandler(store, nil)

	rec := doCampaign(h, http.MethodDelete, "/camp1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.campaigns)
	assert.Empty(t, store.steps)
}
