package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(mailer WelcomeMailer) *Service {
	return NewService(ServiceConfig{
		Repository:   NewInMemoryRepository(),
		SessionStore: NewInMemorySessionStore(),
		SessionTTL:   time.Hour,
		Mailer:       mailer,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(nil)

	user, err := svc.Register(context.Background(), "Owner@Example.com", "password123", " Sam ")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", user.Email)
	assert.Equal(t, "Sam", user.FullName)
	assert.Equal(t, ProviderLocal, user.Provider)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	loggedIn, session, err := svc.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotNil(t, session)
	assert.Equal(t, user.ID, session.UserID)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Register(context.Background(), "not-an-email", "password123", "")
	assert.Error(t, err)

	_, err = svc.Register(context.Background(), "owner@example.com", "short", "")
	assert.Error(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Register(context.Background(), "owner@example.com", "password123", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "OWNER@example.com", "password456", "")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestLoginErrorsAreIndistinguishable(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.Register(context.Background(), "owner@example.com", "password123", "")
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "password123")
	_, _, wrongErr := svc.Login(context.Background(), "owner@example.com", "wrong-password")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.Register(context.Background(), "owner@example.com", "password123", "")
	require.NoError(t, err)

	_, session, err := svc.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)

	user, err := svc.CurrentUser(context.Background(), session.ID)
	require.NoError(t, err)
	require.NotNil(t, user)

	require.NoError(t, svc.Logout(context.Background(), session.ID))

	user, err = svc.CurrentUser(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCurrentUserWithEmptySession(t *testing.T) {
	svc := newTestService(nil)
	user, err := svc.CurrentUser(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestEnsureExternalUserProvisionsOnce(t *testing.T) {
	svc := newTestService(nil)

	first, err := svc.EnsureExternalUser(context.Background(), "idp|123", "ext@example.com", "Ext User")
	require.NoError(t, err)
	assert.Equal(t, ProviderExternal, first.Provider)

	second, err := svc.EnsureExternalUser(context.Background(), "idp|123", "ext@example.com", "Ext User")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureExternalUserReusesLocalAccount(t *testing.T) {
	svc := newTestService(nil)

	local, err := svc.Register(context.Background(), "owner@example.com", "password123", "Sam")
	require.NoError(t, err)

	ext, err := svc.EnsureExternalUser(context.Background(), "idp|456", "owner@example.com", "Sam")
	require.NoError(t, err)
	assert.Equal(t, local.ID, ext.ID)
}

type blockingMailer struct {
	mu    sync.Mutex
	sent  []string
	fired chan struct{}
}

func (m *blockingMailer) SendWelcome(_ context.Context, email, _ string) error {
	m.mu.Lock()
	m.sent = append(m.sent, email)
	m.mu.Unlock()
	close(m.fired)
	return nil
}

func TestRegisterSendsWelcomeEmailAsynchronously(t *testing.T) {
	mailer := &blockingMailer{fired: make(chan struct{})}
	svc := newTestService(mailer)

	_, err := svc.Register(context.Background(), "owner@example.com", "password123", "Sam")
	require.NoError(t, err)

	select {
	case <-mailer.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was never sent")
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Equal(t, []string{"owner@example.com"}, mailer.sent)
}
