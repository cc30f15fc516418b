package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

// WelcomeMailer sends the post-registration email. Optional.
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, email, name string) error
}

// Service implements registration, login and session management for both the
// password path and the external identity-provider path.
type Service struct {
	repo       Repository
	sessions   SessionStore
	sessionTTL time.Duration
	mailer     WelcomeMailer
	logger     *logging.Logger
}

type ServiceConfig struct {
	Repository   Repository
	SessionStore SessionStore
	SessionTTL   time.Duration
	Mailer       WelcomeMailer
	Logger       *logging.Logger
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	return &Service{
		repo:       cfg.Repository,
		sessions:   cfg.SessionStore,
		sessionTTL: cfg.SessionTTL,
		mailer:     cfg.Mailer,
		logger:     cfg.Logger,
	}
}

// Register creates a local-password account. Fails with ErrDuplicateEmail when
// the email is taken.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("valid email is required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &User{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
		Provider:     ProviderLocal,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		// Best effort: registration never fails because email delivery did.
		go func(email, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.mailer.SendWelcome(ctx, email, name); err != nil {
				s.logger.Warn("welcome email failed", "error", err, "email", email)
			}
		}(user.Email, user.FullName)
	}

	return user, nil
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *Session, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if user.PasswordHash == "" {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout removes the session. Removing an unknown session is not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// CurrentUser resolves the session to a user. Returns (nil, nil) when the
// session is absent or expired.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*User, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// EnsureExternalUser provisions (or fetches) an account for a validated
// identity-provider token, so both auth paths converge on the same user shape.
func (s *Service) EnsureExternalUser(ctx context.Context, subject, email, fullName string) (*User, error) {
	if subject == "" {
		return nil, errors.New("auth: identity subject required")
	}
	user, err := s.repo.GetByProviderSubject(ctx, ProviderExternal, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user = &User{
		Email:           strings.ToLower(strings.TrimSpace(email)),
		FullName:        strings.TrimSpace(fullName),
		Provider:        ProviderExternal,
		ProviderSubject: subject,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// Same email registered locally first; reuse that account.
			return s.repo.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}

// OpenSessionFor creates a session directly, used by the identity-provider
// path after token validation.
func (s *Service) OpenSessionFor(ctx context.Context, user *User) (*Session, error) {
	return s.openSession(ctx, user)
}

func (s *Service) openSession(ctx context.Context, user *User) (*Session, error) {
	now := time.Now().UTC()
	session := Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Provider:  user.Provider,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}
