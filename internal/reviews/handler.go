package reviews

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
	List(ctx context.Context, accountID string) ([]Review, error)
	Get(ctx context.Context, accountID, id string) (*Review, error)
	Create(ctx context.Context, rev *Review) error
	Update(ctx context.Context, rev *Review) error
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
		h.logger.Error("list reviews failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to list reviews")
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
	rev, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			respond.Error(w, http.StatusNotFound, "review not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load review")
		return
	}
	respond.JSON(w, http.StatusOK, rev)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	var rev Review
	if err := json.NewDecoder(r.Body).Decode(&rev); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if rev.Author == "" {
		respond.Error(w, http.StatusBadRequest, "author is required")
		return
	}
	if rev.Rating < 1 || rev.Rating > 5 {
		respond.Error(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	rev.ID = ""
	rev.AccountID = accountID
	if err := h.repo.Create(r.Context(), &rev); err != nil {
		h.logger.Error("create review failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to create review")
		return
	}
	respond.JSON(w, http.StatusCreated, rev)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	rev, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			respond.Error(w, http.StatusNotFound, "review not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load review")
		return
	}
	id, account := rev.ID, rev.AccountID
	if err := json.NewDecoder(r.Body).Decode(rev); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rev.ID, rev.AccountID = id, account
	if rev.Rating < 1 || rev.Rating > 5 {
		respond.Error(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	switch rev.ResponseStatus {
	case ResponsePending, ResponseDrafted, ResponsePublished:
	default:
		respond.Error(w, http.StatusBadRequest, "invalid response status")
		return
	}
	if err := h.repo.Update(r.Context(), rev); err != nil {
		h.logger.Error("update review failed", "error", err, "review_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to update review")
		return
	}
	respond.JSON(w, http.StatusOK, rev)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	if err := h.repo.Delete(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			respond.Error(w, http.StatusNotFound, "review not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to delete review")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
