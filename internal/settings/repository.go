package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

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
		panic("settings: pgx pool required")
	}
	return &Repository{db: db}
}

// Get returns the stored settings, or defaults when none were saved yet.
func (r *Repository) Get(ctx context.Context, accountID string) (*Settings, error) {
	var s Settings
	err := r.db.QueryRow(ctx, `
		SELECT account_id, business_name, timezone, notification_email,
			email_notifications, sms_notifications, missed_call_alerts, weekly_summary_enabled, updated_at
		FROM account_settings WHERE account_id = $1`, accountID).
		Scan(&s.AccountID, &s.BusinessName, &s.Timezone, &s.NotificationEmail,
			&s.EmailNotifications, &s.SMSNotifications, &s.MissedCallAlerts, &s.WeeklySummaryEnabled, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(accountID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: select: %w", err)
	}
	return &s, nil
}

func (r *Repository) Save(ctx context.Context, s *Settings) error {
	s.UpdatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx, `
		INSERT INTO account_settings (account_id, business_name, timezone, notification_email,
			email_notifications, sms_notifications, missed_call_alerts, weekly_summary_enabled, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (account_id) DO UPDATE SET
			business_name = EXCLUDED.business_name, timezone = EXCLUDED.timezone,
			notification_email = EXCLUDED.notification_email,
			email_notifications = EXCLUDED.email_notifications, sms_notifications = EXCLUDED.sms_notifications,
			missed_call_alerts = EXCLUDED.missed_call_alerts, weekly_summary_enabled = EXCLUDED.weekly_summary_enabled,
			updated_at = EXCLUDED.updated_at`,
		s.AccountID, s.BusinessName, s.Timezone, s.NotificationEmail,
		s.EmailNotifications, s.SMSNotifications, s.MissedCallAlerts, s.WeeklySummaryEnabled, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("settings: upsert: %w", err)
	}
	return nil
}
