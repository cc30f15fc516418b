package campaigns

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
	List(ctx context.Context, accountID string) ([]Campaign, error)
	Get(ctx context.Context, accountID, id string) (*Campaign, error)
	Create(ctx context.Context, c *Campaign) error
	Update(ctx context.Context, c *Campaign) error
	Delete(ctx context.Context, accountID, id string) error

	ListSteps(ctx context.Context, accountID, campaignID string) ([]Step, error)
	GetStep(ctx context.Context, accountID, id string) (*Step, error)
	CreateStep(ctx context.Context, accountID string, s *Step) error
	UpdateStep(ctx context.Context, accountID string, s *Step) error
	DeleteStep(ctx context.Context, accountID, id string) error
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

// CampaignRoutes serves /api/sms-campaigns.
func (h *Handler) CampaignRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

// StepRoutes serves /api/sms-campaign-steps. Listing requires the campaignId
// query parameter since steps only make sense within one campaign.
func (h *Handler) StepRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListSteps)
	r.Post("/", h.CreateStep)
	r.Patch("/{id}", h.UpdateStep)
	r.Delete("/{id}", h.DeleteStep)
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
		h.logger.Error("list campaigns failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to list campaigns")
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
	c, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			respond.Error(w, http.StatusNotFound, "campaign not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load campaign")
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	var c Campaign
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if c.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	c.ID = ""
	c.AccountID = accountID
	if err := h.repo.Create(r.Context(), &c); err != nil {
		h.logger.Error("create campaign failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to create campaign")
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	c, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			respond.Error(w, http.StatusNotFound, "campaign not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load campaign")
		return
	}
	id, account := c.ID, c.AccountID
	if err := json.NewDecoder(r.Body).Decode(c); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c.ID, c.AccountID = id, account
	switch c.Status {
	case StatusDraft, StatusActive, StatusPaused:
	default:
		respond.Error(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := h.repo.Update(r.Context(), c); err != nil {
		h.logger.Error("update campaign failed", "error", err, "campaign_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to update campaign")
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	if err := h.repo.Delete(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			respond.Error(w, http.StatusNotFound, "campaign not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to delete campaign")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ListSteps(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	campaignID := r.URL.Query().Get("campaignId")
	if campaignID == "" {
		respond.Error(w, http.StatusBadRequest, "campaignId query parameter is required")
		return
	}
	steps, err := h.repo.ListSteps(r.Context(), accountID, campaignID)
	if err != nil {
		h.logger.Error("list campaign steps failed", "error", err, "campaign_id", campaignID)
		respond.Error(w, http.StatusInternalServerError, "failed to list campaign steps")
		return
	}
	respond.JSON(w, http.StatusOK, steps)
}

func (h *Handler) CreateStep(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	var s Step
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.CampaignID == "" || s.Body == "" {
		respond.Error(w, http.StatusBadRequest, "campaignId and body are required")
		return
	}
	if s.DelayMins < 0 {
		respond.Error(w, http.StatusBadRequest, "delayMins must not be negative")
		return
	}
	s.ID = ""
	if err := h.repo.CreateStep(r.Context(), accountID, &s); err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			respond.Error(w, http.StatusNotFound, "campaign not found")
			return
		}
		h.logger.Error("create campaign step failed", "error", err, "campaign_id", s.CampaignID)
		respond.Error(w, http.StatusInternalServerError, "failed to create campaign step")
		return
	}
	respond.JSON(w, http.StatusCreated, s)
}

func (h *Handler) UpdateStep(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	s, err := h.repo.GetStep(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrStepNotFound) {
			respond.Error(w, http.StatusNotFound, "campaign step not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load campaign step")
		return
	}
	id, campaign := s.ID, s.CampaignID
	if err := json.NewDecoder(r.Body).Decode(s); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.ID, s.CampaignID = id, campaign
	if s.DelayMins < 0 {
		respond.Error(w, http.StatusBadRequest, "delayMins must not be negative")
		return
	}
	if err := h.repo.UpdateStep(r.Context(), accountID, s); err != nil {
		h.logger.Error("update campaign step failed", "error", err, "step_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to update campaign step")
		return
	}
	respond.JSON(w, http.StatusOK, s)
}

func (h *Handler) DeleteStep(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	if err := h.repo.DeleteStep(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrStepNotFound) {
			respond.Error(w, http.StatusNotFound, "campaign step not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to delete campaign step")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
