package campaigns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrStepNotFound     = errors.New("campaign step not found")
)

type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores campaigns and their steps. Steps are reached through
// their campaign so every access stays account-scoped.
type Repository struct {
	db pgxDB
}

func NewRepository(db pgxDB) *Repository {
	if db == nil {
		panic("campaigns: pgx pool required")
	}
	return &Repository{db: db}
}

const campaignColumns = `id, account_id, sms_agent_id, name, status, created_at, updated_at`

func (r *Repository) List(ctx context.Context, accountID string) ([]Campaign, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+campaignColumns+`
		FROM sms_campaigns WHERE account_id = $1 ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("campaigns: list: %w", err)
	}
	defer rows.Close()

	out := []Campaign{}
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.AccountID, &c.SMSAgentID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("campaigns: scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, accountID, id string) (*Campaign, error) {
	var c Campaign
	err := r.db.QueryRow(ctx, `
		SELECT `+campaignColumns+`
		FROM sms_campaigns WHERE account_id = $1 AND id = $2`, accountID, id).
		Scan(&c.ID, &c.AccountID, &c.SMSAgentID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("campaigns: select: %w", err)
	}
	return &c, nil
}

func (r *Repository) Create(ctx context.Context, c *Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = StatusDraft
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO sms_campaigns (`+campaignColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.AccountID, c.SMSAgentID, c.Name, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("campaigns: insert: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, c *Campaign) error {
	c.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE sms_campaigns SET sms_agent_id = $3, name = $4, status = $5, updated_at = $6
		WHERE account_id = $1 AND id = $2`,
		c.AccountID, c.ID, c.SMSAgentID, c.Name, c.Status, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("campaigns: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// Delete removes the campaign and its steps via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, accountID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sms_campaigns WHERE account_id = $1 AND id = $2`, accountID, id)
	if err != nil {
		return fmt.Errorf("campaigns: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

const stepColumns = `s.id, s.campaign_id, s.step_order, s.delay_mins, s.body, s.created_at, s.updated_at`

func (r *Repository) ListSteps(ctx context.Context, accountID, campaignID string) ([]Step, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+stepColumns+`
		FROM sms_campaign_steps s
		JOIN sms_campaigns c ON c.id = s.campaign_id
		WHERE c.account_id = $1 AND s.campaign_id = $2
		ORDER BY s.step_order ASC`, accountID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaigns: list steps: %w", err)
	}
	defer rows.Close()

	out := []Step{}
	for rows.Next() {
		var s Step
		if err := rows.Scan(&s.ID, &s.CampaignID, &s.StepOrder, &s.DelayMins, &s.Body, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("campaigns: scan step: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) GetStep(ctx context.Context, accountID, id string) (*Step, error) {
	var s Step
	err := r.db.QueryRow(ctx, `
		SELECT `+stepColumns+`
		FROM sms_campaign_steps s
		JOIN sms_campaigns c ON c.id = s.campaign_id
		WHERE c.account_id = $1 AND s.id = $2`, accountID, id).
		Scan(&s.ID, &s.CampaignID, &s.StepOrder, &s.DelayMins, &s.Body, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStepNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("campaigns: select step: %w", err)
	}
	return &s, nil
}

func (r *Repository) CreateStep(ctx context.Context, accountID string, s *Step) error {
	// Ownership check doubles as existence check.
	if _, err := r.Get(ctx, accountID, s.CampaignID); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO sms_campaign_steps (id, campaign_id, step_order, delay_mins, body, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.CampaignID, s.StepOrder, s.DelayMins, s.Body, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("campaigns: insert step: %w", err)
	}
	return nil
}

func (r *Repository) UpdateStep(ctx context.Context, accountID string, s *Step) error {
	s.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE sms_campaign_steps s SET step_order = $3, delay_mins = $4, body = $5, updated_at = $6
		FROM sms_campaigns c
		WHERE c.id = s.campaign_id AND c.account_id = $1 AND s.id = $2`,
		accountID, s.ID, s.StepOrder, s.DelayMins, s.Body, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("campaigns: update step: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStepNotFound
	}
	return nil
}

func (r *Repository) DeleteStep(ctx context.Context, accountID, id string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM sms_campaign_steps s
		USING sms_campaigns c
		WHERE c.id = s.campaign_id AND c.account_id = $1 AND s.id = $2`, accountID, id)
	if err != nil {
		return fmt.Errorf("campaigns: delete step: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStepNotFound
	}
	return nil
}
