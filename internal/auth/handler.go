package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/atf-io/voicehub-sub001/internal/http/respond"
	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

// Handler serves the /api/auth endpoints.
type Handler struct {
	service      *Service
	cookieName   string
	cookieSecure bool
	logger       *logging.Logger
}

func NewHandler(service *Service, cookieName string, cookieSecure bool, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cookieName == "" {
		cookieName = "vh_session"
	}
	return &Handler{
		service:      service,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			respond.Error(w, http.StatusBadRequest, ErrDuplicateEmail.Error())
			return
		}
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	respond.JSON(w, http.StatusCreated, map[string]any{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
			return
		}
		h.logger.Error("login failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.setSessionCookie(w, session)
	respond.JSON(w, http.StatusOK, map[string]any{"user": user})
}

// POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("logout cleanup failed", "error", err)
		}
	}
	h.clearSessionCookie(w)
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GET /api/auth/user
// Responds 200 with {"user": null} when no session exists.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		sessionID = cookie.Value
	}

	user, err := h.service.CurrentUser(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("session lookup failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		respond.JSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
