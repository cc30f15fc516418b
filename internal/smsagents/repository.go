package smsagents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrAgentNotFound = errors.New("sms agent not found")

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
		panic("smsagents: pgx pool required")
	}
	return &Repository{db: db}
}

const columns = `id, account_id, name, personality, opening_message,
	follow_up_delay_mins, max_follow_ups, active, created_at, updated_at`

func (r *Repository) List(ctx context.Context, accountID string) ([]SMSAgent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+columns+`
		FROM sms_agents WHERE account_id = $1 ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("smsagents: list: %w", err)
	}
	defer rows.Close()

	out := []SMSAgent{}
	for rows.Next() {
		var a SMSAgent
		if err := rows.Scan(&a.ID, &a.AccountID, &a.Name, &a.Personality, &a.OpeningMessage,
			&a.FollowUpDelayMins, &a.MaxFollowUps, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("smsagents: scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, accountID, id string) (*SMSAgent, error) {
	var a SMSAgent
	err := r.db.QueryRow(ctx, `
		SELECT `+columns+`
		FROM sms_agents WHERE account_id = $1 AND id = $2`, accountID, id).
		Scan(&a.ID, &a.AccountID, &a.Name, &a.Personality, &a.OpeningMessage,
			&a.FollowUpDelayMins, &a.MaxFollowUps, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("smsagents: select: %w", err)
	}
	return &a, nil
}

func (r *Repository) Create(ctx context.Context, a *SMSAgent) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO sms_agents (`+columns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.AccountID, a.Name, a.Personality, a.OpeningMessage,
		a.FollowUpDelayMins, a.MaxFollowUps, a.Active, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("smsagents: insert: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, a *SMSAgent) error {
	a.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE sms_agents SET
			name = $3, personality = $4, opening_message = $5,
			follow_up_delay_mins = $6, max_follow_ups = $7, active = $8, updated_at = $9
		WHERE account_id = $1 AND id = $2`,
		a.AccountID, a.ID, a.Name, a.Personality, a.OpeningMessage,
		a.FollowUpDelayMins, a.MaxFollowUps, a.Active, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("smsagents: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAgentNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, accountID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sms_agents WHERE account_id = $1 AND id = $2`, accountID, id)
	if err != nil {
		return fmt.Errorf("smsagents: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAgentNotFound
	}
	return nil
}
