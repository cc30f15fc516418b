// Package analytics computes the lead-analytics rollup shown on the
// dashboard home page.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/atf-io/voicehub-sub001/internal/http/respond"
	"github.com/atf-io/voicehub-sub001/internal/tenancy"
	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 90
)

type Summary struct {
	WindowDays    int         `json:"windowDays"`
	TotalContacts int         `json:"totalContacts"`
	NewContacts   int         `json:"newContacts"`
	ActiveAgents  int         `json:"activeAgents"`
	TotalCalls    int         `json:"totalCalls"`
	Series        []DayBucket `json:"series"`
}

// DayBucket is one day of new-lead volume. Days with no activity are filled
// in with zero so the chart has a continuous axis.
type DayBucket struct {
	Date     string `json:"date"`
	Contacts int    `json:"contacts"`
}

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	if db == nil {
		panic("analytics: db required")
	}
	return &Service{db: db}
}

func (s *Service) Summary(ctx context.Context, accountID string, days int) (*Summary, error) {
	if days < 1 {
		days = defaultWindowDays
	}
	if days > maxWindowDays {
		days = maxWindowDays
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	out := &Summary{WindowDays: days}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM contacts WHERE account_id = $1),
			(SELECT COUNT(*) FROM contacts WHERE account_id = $1 AND created_at >= $2),
			(SELECT COUNT(*) FROM agents WHERE account_id = $1 AND active),
			(SELECT COALESCE(SUM(total_calls), 0) FROM agents WHERE account_id = $1)`,
		accountID, since).
		Scan(&out.TotalContacts, &out.NewContacts, &out.ActiveAgents, &out.TotalCalls)
	if err != nil {
		return nil, fmt.Errorf("analytics: totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at::date AS day, COUNT(*)
		FROM contacts
		WHERE account_id = $1 AND created_at >= $2
		GROUP BY day ORDER BY day ASC`, accountID, since)
	if err != nil {
		return nil, fmt.Errorf("analytics: series: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var day time.Time
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, fmt.Errorf("analytics: scan series: %w", err)
		}
		counts[day.Format("2006-01-02")] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: series: %w", err)
	}

	out.Series = make([]DayBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := time.Now().UTC().AddDate(0, 0, -i).Format("2006-01-02")
		out.Series = append(out.Series, DayBucket{Date: date, Contacts: counts[date]})
	}
	return out, nil
}

type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// GET /api/lead-analytics?days=N
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	accountID, ok := tenancy.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing account context")
		return
	}

	days := defaultWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}

	summary, err := h.service.Summary(r.Context(), accountID, days)
	if err != nil {
		h.logger.Error("lead analytics failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}
	respond.JSON(w, http.StatusOK, summary)
}
