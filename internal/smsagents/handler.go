package smsagents

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atf-io/voicehub-sub001/internal/http/respond"
	"github.com/atf-io/voicehub-sub001/internal/tenancy"
	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

type store interface {
	List(ctx context.Context, accountID string) ([]SMSAgent, error)
	Get(ctx context.Context, accountID, id string) (*SMSAgent, error)
	Create(ctx context.Context, a *SMSAgent) error
	Update(ctx context.Context, a *SMSAgent) error
	Delete(ctx context.Context, accountID, id string) error
}

type Handler struct {
	repo   store
	logger *logging.Logger
}

func NewHandler(repo store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	list, err := h.repo.List(r.Context(), accountID)
	if err != nil {
		h.logger.Error("list sms agents failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to list sms agents")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	a, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrAgentNotFound) {
			respond.Error(w, http.StatusNotFound, "sms agent not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load sms agent")
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	var a SMSAgent
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if a.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if a.FollowUpDelayMins < 0 || a.MaxFollowUps < 0 {
		respond.Error(w, http.StatusBadRequest, "follow-up settings must not be negative")
		return
	}
	a.ID = ""
	a.AccountID = accountID
	if err := h.repo.Create(r.Context(), &a); err != nil {
		h.logger.Error("create sms agent failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to create sms agent")
		return
	}
	respond.JSON(w, http.StatusCreated, a)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	a, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrAgentNotFound) {
			respond.Error(w, http.StatusNotFound, "sms agent not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load sms agent")
		return
	}
	id, account := a.ID, a.AccountID
	if err := json.NewDecoder(r.Body).Decode(a); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a.ID, a.AccountID = id, account
	if a.FollowUpDelayMins < 0 || a.MaxFollowUps < 0 {
		respond.Error(w, http.StatusBadRequest, "follow-up settings must not be negative")
		return
	}
	if err := h.repo.Update(r.Context(), a); err != nil {
		h.logger.Error("update sms agent failed", "error", err, "sms_agent_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to update sms agent")
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	if err := h.repo.Delete(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrAgentNotFound) {
			respond.Error(w, http.StatusNotFound, "sms agent not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to delete sms agent")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
