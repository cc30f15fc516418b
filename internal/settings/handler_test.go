package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atf-io/voicehub-sub001/internal/auth"
	"github.com/atf-io/voicehub-sub001/internal/tenancy"
)

type fakeSettingsStore struct {
	saved map[string]Settings
}

func (s *fakeSettingsStore) Get(_ context.Context, accountID string) (*Settings, error) {
	if stored, ok := s.saved[accountID]; ok {
		copied := stored
		return &copied, nil
	}
	return Defaults(accountID), nil
}

func (s *fakeSettingsStore) Save(_ context.Context, settings *Settings) error {
	s.saved[settings.AccountID] = *settings
	return nil
}

func request(h http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req = req.WithContext(tenancy.WithAccountID(req.Context(), "u1"))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestGetSettingsReturnsDefaults(t *testing.T) {
	h := NewHandler(&fakeSettingsStore{saved: map[string]Settings{}}, auth.NewInMemoryRepository(), nil)

	rec := request(h.Get, http.MethodGet, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "America/New_York", got.Timezone)
	assert.True(t, got.EmailNotifications)
}

func TestSaveSettingsMergesOverExisting(t *testing.T) {
	store := &fakeSettingsStore{saved: map[string]Settings{
		"u1": {AccountID: "u1", BusinessName: "Voicehub Dental", Timezone: "America/Chicago", EmailNotifications: true},
	}}
	h := NewHandler(store, auth.NewInMemoryRepository(), nil)

	rec := request(h.Save, http.MethodPost, `{"smsNotifications":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	saved := store.saved["u1"]
	assert.True(t, saved.SMSNotifications)
	assert.Equal(t, "Voicehub Dental", saved.BusinessName)
	assert.Equal(t, "America/Chicago", saved.Timezone)
}

func TestSaveSettingsRejectsUnknownTimezone(t *testing.T) {
	store := &fakeSettingsStore{saved: map[string]Settings{}}
	h := NewHandler(store, auth.NewInMemoryRepository(), nil)

	rec := request(h.Save, http.MethodPost, `{"timezone":"Mars/Olympus"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.saved)
}

func TestProfileRoundTrip(t *testing.T) {
	users := auth.NewInMemoryRepository()
	user := &auth.User{ID: "u1", Email: "owner@example.com", FullName: "Sam Owner"}
	require.NoError(t, users.Create(context.Background(), user))

	h := NewHandler(&fakeSettingsStore{saved: map[string]Settings{}}, users, nil)

	rec := request(h.GetProfile, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Sam Owner", p.FullName)

	rec = request(h.UpdateProfile, http.MethodPatch, `{"fullName":"Sam O."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Sam O.", updated.FullName)
	assert.Equal(t, "owner@example.com", updated.Email)
}

func TestUpdateProfileRejectsBadEmail(t *testing.T) {
	users := auth.NewInMemoryRepository()
	require.NoError(t, users.Create(context.Background(), &auth.User{ID: "u1", Email: "owner@example.com"}))
	h := NewHandler(&fakeSettingsStore{saved: map[string]Settings{}}, users, nil)

	rec := request(h.UpdateProfile, http.MethodPatch, `{"email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
