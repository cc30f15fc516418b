package agents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrAgentNotFound is returned when the id does not exist for the account.
var ErrAgentNotFound = errors.New("agent not found")

type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores agent configuration records.
type Repository struct {
	db pgxDB
}

func NewRepository(db pgxDB) *Repository {
	if db == nil {
		panic("agents: pgx pool required")
	}
	return &Repository{db: db}
}

const agentColumns = `id, account_id, provider_agent_id, name, voice_id, personality, greeting, language,
	response_delay_ms, interruption_sensitivity, enable_backchannel, backchannel_frequency,
	voice_temperature, voice_speed, volume,
	voicemail_detection_enabled, voicemail_timeout_ms, voicemail_message,
	max_call_duration_ms, boosted_keywords, reminder_trigger_ms, reminder_count,
	active_hours_start, active_hours_end, active_days, active,
	total_calls, avg_duration_secs, satisfaction_score, created_at, updated_at`

func (r *Repository) List(ctx context.Context, accountID string) ([]Agent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+agentColumns+`
		FROM agents WHERE account_id = $1 ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("agents: list: %w", err)
	}
	defer rows.Close()

	out := []Agent{}
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *agent)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, accountID, id string) (*Agent, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+agentColumns+`
		FROM agents WHERE account_id = $1 AND id = $2`, accountID, id)
	agent, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAgentNotFound
	}
	return agent, err
}

// GetByProviderAgentID resolves a provider-side agent id to the local record.
func (r *Repository) GetByProviderAgentID(ctx context.Context, accountID, providerAgentID string) (*Agent, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+agentColumns+`
		FROM agents WHERE account_id = $1 AND provider_agent_id = $2`, accountID, providerAgentID)
	agent, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAgentNotFound
	}
	return agent, err
}

func (r *Repository) Create(ctx context.Context, agent *Agent) error {
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO agents (`+agentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31)`,
		agent.ID, agent.AccountID, agent.ProviderAgentID, agent.Name, agent.VoiceID,
		agent.Personality, agent.Greeting, agent.Language,
		agent.ResponseDelayMs, agent.InterruptionSensitivity, agent.EnableBackchannel, agent.BackchannelFrequency,
		agent.VoiceTemperature, agent.VoiceSpeed, agent.Volume,
		agent.VoicemailDetectionEnabled, agent.VoicemailTimeoutMs, agent.VoicemailMessage,
		agent.MaxCallDurationMs, agent.BoostedKeywords, agent.ReminderTriggerMs, agent.ReminderCount,
		agent.ActiveHoursStart, agent.ActiveHoursEnd, agent.ActiveDays, agent.Active,
		agent.TotalCalls, agent.AvgDurationSecs, agent.SatisfactionScore, agent.CreatedAt, agent.UpdatedAt)
	if err != nil {
		return fmt.Errorf("agents: insert: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, agent *Agent) error {
	agent.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE agents SET
			provider_agent_id = $3, name = $4, voice_id = $5, personality = $6, greeting = $7, language = $8,
			response_delay_ms = $9, interruption_sensitivity = $10, enable_backchannel = $11, backchannel_frequency = $12,
			voice_temperature = $13, voice_speed = $14, volume = $15,
			voicemail_detection_enabled = $16, voicemail_timeout_ms = $17, voicemail_message = $18,
			max_call_duration_ms = $19, boosted_keywords = $20, reminder_trigger_ms = $21, reminder_count = $22,
			active_hours_start = $23, active_hours_end = $24, active_days = $25, active = $26,
			total_calls = $27, avg_duration_secs = $28, satisfaction_score = $29, updated_at = $30
		WHERE account_id = $1 AND id = $2`,
		agent.AccountID, agent.ID,
		agent.ProviderAgentID, agent.Name, agent.VoiceID, agent.Personality, agent.Greeting, agent.Language,
		agent.ResponseDelayMs, agent.InterruptionSensitivity, agent.EnableBackchannel, agent.BackchannelFrequency,
		agent.VoiceTemperature, agent.VoiceSpeed, agent.Volume,
		agent.VoicemailDetectionEnabled, agent.VoicemailTimeoutMs, agent.VoicemailMessage,
		agent.MaxCallDurationMs, agent.BoostedKeywords, agent.ReminderTriggerMs, agent.ReminderCount,
		agent.ActiveHoursStart, agent.ActiveHoursEnd, agent.ActiveDays, agent.Active,
		agent.TotalCalls, agent.AvgDurationSecs, agent.SatisfactionScore, agent.UpdatedAt)
	if err != nil {
		return fmt.Errorf("agents: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAgentNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, accountID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM agents WHERE account_id = $1 AND id = $2`, accountID, id)
	if err != nil {
		return fmt.Errorf("agents: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAgentNotFound
	}
	return nil
}

func scanAgent(row pgx.Row) (*Agent, error) {
	var a Agent
	err := row.Scan(&a.ID, &a.AccountID, &a.ProviderAgentID, &a.Name, &a.VoiceID,
		&a.Personality, &a.Greeting, &a.Language,
		&a.ResponseDelayMs, &a.InterruptionSensitivity, &a.EnableBackchannel, &a.BackchannelFrequency,
		&a.VoiceTemperature, &a.VoiceSpeed, &a.Volume,
		&a.VoicemailDetectionEnabled, &a.VoicemailTimeoutMs, &a.VoicemailMessage,
		&a.MaxCallDurationMs, &a.BoostedKeywords, &a.ReminderTriggerMs, &a.ReminderCount,
		&a.ActiveHoursStart, &a.ActiveHoursEnd, &a.ActiveDays, &a.Active,
		&a.TotalCalls, &a.AvgDurationSecs, &a.SatisfactionScore, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("agents: scan: %w", err)
	}
	if a.BoostedKeywords == nil {
		a.BoostedKeywords = []string{}
	}
	if a.ActiveDays == nil {
		a.ActiveDays = []string{}
	}
	return &a, nil
}
