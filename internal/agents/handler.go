package agents

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atf-io/voicehub-sub001/internal/http/respond"
	"github.com/atf-io/voicehub-sub001/internal/tenancy"
	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

// Handler serves read and activation endpoints for agents. Configuration
// writes go through the provider sync endpoint instead.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// GET /api/agents
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}

	agents, err := h.repo.List(r.Context(), accountID)
	if err != nil {
		h.logger.Error("failed to list agents", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to list agents")
		return
	}
	respond.JSON(w, http.StatusOK, agents)
}

// GET /api/agents/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}

	agent, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrAgentNotFound) {
			respond.Error(w, http.StatusNotFound, "agent not found")
			return
		}
		h.logger.Error("failed to load agent", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load agent")
		return
	}
	respond.JSON(w, http.StatusOK, agent)
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

// PATCH /api/agents/{id}/active
// The activation flag toggles without touching configuration or the provider.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		respond.Error(w, http.StatusBadRequest, "active flag required")
		return
	}

	agent, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrAgentNotFound) {
			respond.Error(w, http.StatusNotFound, "agent not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load agent")
		return
	}

	agent.Active = *req.Active
	if err := h.repo.Update(r.Context(), agent); err != nil {
		h.logger.Error("failed to toggle agent", "error", err, "agent_id", agent.ID)
		respond.Error(w, http.StatusInternalServerError, "failed to update agent")
		return
	}
	respond.JSON(w, http.StatusOK, agent)
}
