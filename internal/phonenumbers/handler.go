package phonenumbers

import (
	"context"
	"net/http"

	"github.com/atf-io/voicehub-sub001/internal/http/respond"
	"github.com/atf-io/voicehub-sub001/internal/tenancy"
	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

type lister interface {
	List(ctx context.Context, accountID string) ([]PhoneNumber, error)
}

type Handler struct {
	repo   lister
	logger *logging.Logger
}

func NewHandler(repo lister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// GET /api/phone-numbers
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	numbers, err := h.repo.List(r.Context(), accountID)
	if err != nil {
		h.logger.Error("list phone numbers failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to list phone numbers")
		return
	}
	respond.JSON(w, http.StatusOK, numbers)
}
