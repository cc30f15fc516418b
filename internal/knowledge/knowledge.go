// Package knowledge stores the free-form business facts that agents draw on
// when answering callers.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atf-io/voicehub-sub001/internal/http/respond"
	"github.com/atf-io/voicehub-sub001/internal/tenancy"
	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

type Entry struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var ErrEntryNotFound = errors.New("knowledge entry not found")

type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db pgxDB
}

func NewRepository(db pgxDB) *Repository {
	if db == nil {
		panic("knowledge: pgx pool required")
	}
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, accountID string) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, title, content, category, created_at, updated_at
		FROM knowledge_entries WHERE account_id = $1 ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("knowledge: list: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Title, &e.Content, &e.Category, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("knowledge: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, accountID, id string) (*Entry, error) {
	var e Entry
	err := r.db.QueryRow(ctx, `
		SELECT id, account_id, title, content, category, created_at, updated_at
		FROM knowledge_entries WHERE account_id = $1 AND id = $2`, accountID, id).
		Scan(&e.ID, &e.AccountID, &e.Title, &e.Content, &e.Category, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("knowledge: select: %w", err)
	}
	return &e, nil
}

func (r *Repository) Create(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO knowledge_entries (id, account_id, title, content, category, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.AccountID, e.Title, e.Content, e.Category, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("knowledge: insert: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, e *Entry) error {
	e.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE knowledge_entries SET title = $3, content = $4, category = $5, updated_at = $6
		WHERE account_id = $1 AND id = $2`,
		e.AccountID, e.ID, e.Title, e.Content, e.Category, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("knowledge: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, accountID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM knowledge_entries WHERE account_id = $1 AND id = $2`, accountID, id)
	if err != nil {
		return fmt.Errorf("knowledge: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

type store interface {
	List(ctx context.Context, accountID string) ([]Entry, error)
	Get(ctx context.Context, accountID, id string) (*Entry, error)
	Create(ctx context.Context, e *Entry) error
	Update(ctx context.Context, e *Entry) error
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
		h.logger.Error("list knowledge entries failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to list knowledge entries")
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
	e, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			respond.Error(w, http.StatusNotFound, "knowledge entry not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load knowledge entry")
		return
	}
	respond.JSON(w, http.StatusOK, e)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	var e Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if e.Title == "" || e.Content == "" {
		respond.Error(w, http.StatusBadRequest, "title and content are required")
		return
	}
	e.ID = ""
	e.AccountID = accountID
	if err := h.repo.Create(r.Context(), &e); err != nil {
		h.logger.Error("create knowledge entry failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to create knowledge entry")
		return
	}
	respond.JSON(w, http.StatusCreated, e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	e, err := h.repo.Get(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			respond.Error(w, http.StatusNotFound, "knowledge entry not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to load knowledge entry")
		return
	}
	id, account := e.ID, e.AccountID
	if err := json.NewDecoder(r.Body).Decode(e); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e.ID, e.AccountID = id, account
	if err := h.repo.Update(r.Context(), e); err != nil {
		h.logger.Error("update knowledge entry failed", "error", err, "entry_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to update knowledge entry")
		return
	}
	respond.JSON(w, http.StatusOK, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}
	if err := h.repo.Delete(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			respond.Error(w, http.StatusNotFound, "knowledge entry not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to delete knowledge entry")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
