package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/atf-io/voicehub-sub001/internal/auth"
	"github.com/atf-io/voicehub-sub001/internal/http/respond"
	"github.com/atf-io/voicehub-sub001/internal/tenancy"
	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

type store interface {
	Get(ctx context.Context, accountID string) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

type userStore interface {
	GetByID(ctx context.Context, id string) (*auth.User, error)
	Update(ctx context.Context, user *auth.User) error
}

// Handler serves account settings and the owner's profile. The account id is
// the owner's user id, so profile lookups reuse it directly.
type Handler struct {
	repo   store
	users  userStore
	logger *logging.Logger
}

func NewHandler(repo store, users userStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, users: users, logger: logger}
}

// GET /api/settings
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	s, err := h.repo.Get(r.Context(), accountID)
	if err != nil {
		h.logger.Error("load settings failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respond.JSON(w, http.StatusOK, s)
}

// POST /api/settings replaces the stored row with the current form state
// merged over what is already saved.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	s, err := h.repo.Get(r.Context(), accountID)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	if err := json.NewDecoder(r.Body).Decode(s); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.AccountID = accountID
	if s.Timezone == "" {
		respond.Error(w, http.StatusBadRequest, "timezone is required")
		return
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		respond.Error(w, http.StatusBadRequest, "unknown timezone")
		return
	}
	if err := h.repo.Save(r.Context(), s); err != nil {
		h.logger.Error("save settings failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	respond.JSON(w, http.StatusOK, s)
}

// GET /api/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	user, err := h.users.GetByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respond.Error(w, http.StatusNotFound, "profile not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	respond.JSON(w, http.StatusOK, Profile{ID: user.ID, Email: user.Email, FullName: user.FullName})
}

// PATCH /api/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	user, err := h.users.GetByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respond.Error(w, http.StatusNotFound, "profile not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	var patch struct {
		FullName *string `json:"fullName"`
		Email    *string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.FullName != nil {
		user.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !strings.Contains(email, "@") {
			respond.Error(w, http.StatusBadRequest, "invalid email address")
			return
		}
		user.Email = email
	}
	if err := h.users.Update(r.Context(), user); err != nil {
		h.logger.Error("update profile failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	respond.JSON(w, http.StatusOK, Profile{ID: user.ID, Email: user.Email, FullName: user.FullName})
}
