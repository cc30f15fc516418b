package contacts

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
	List(ctx context.Context, accountID string) ([]Contact, error)
	Get(ctx context.Context, accountID, id string) (*Contact, error)
	Create(ctx context.Context, c *Contact) error
	Update(ctx context.Context, c *Contact) error
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
		h.logger.Error("list contacts failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to list contacts")
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
		if errors.Is(err, ErrContactNotFound) {
			respond.Error(w, http.StatusNotFound, "contact not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load contact")
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
	var c Contact
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if c.FirstName == "" || c.Phone == "" {
		respond.Error(w, http.StatusBadRequest, "firstName and phone are required")
		return
	}
	c.ID = ""
	c.AccountID = accountID
	if err := h.repo.Create(r.Context(), &c); err != nil {
		h.logger.Error("create contact failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to create contact")
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

// Update applies a partial patch: only fields present in the body change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	c, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			respond.Error(w, http.StatusNotFound, "contact not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load contact")
		return
	}
	id, account := c.ID, c.AccountID
	if err := json.NewDecoder(r.Body).Decode(c); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c.ID, c.AccountID = id, account
	if err := h.repo.Update(r.Context(), c); err != nil {
		h.logger.Error("update contact failed", "error", err, "contact_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to update contact")
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
		if errors.Is(err, ErrContactNotFound) {
			respond.Error(w, http.StatusNotFound, "contact not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to delete contact")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
