package phonenumbers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNumberNotFound = errors.New("phone number not found")

type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores phone numbers.
type Repository struct {
	db pgxDB
}

func NewRepository(db pgxDB) *Repository {
	if db == nil {
		panic("phonenumbers: pgx pool required")
	}
	return &Repository{db: db}
}

const numberColumns = `id, account_id, provider_number_id, number, nickname, area_code,
	inbound_agent_id, outbound_agent_id, status, created_at, updated_at`

func (r *Repository) List(ctx context.Context, accountID string) ([]PhoneNumber, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+numberColumns+`
		FROM phone_numbers WHERE account_id = $1 ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("phonenumbers: list: %w", err)
	}
	defer rows.Close()

	out := []PhoneNumber{}
	for rows.Next() {
		var n PhoneNumber
		if err := rows.Scan(&n.ID, &n.AccountID, &n.ProviderNumberID, &n.Number, &n.Nickname,
			&n.AreaCode, &n.InboundAgentID, &n.OutboundAgentID, &n.Status, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("phonenumbers: scan: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Upsert inserts or refreshes a number keyed by its provider id, so repeated
// syncs converge instead of duplicating rows.
func (r *Repository) Upsert(ctx context.Context, n *PhoneNumber) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO phone_numbers (`+numberColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (account_id, provider_number_id) DO UPDATE SET
			number = EXCLUDED.number, nickname = EXCLUDED.nickname, area_code = EXCLUDED.area_code,
			inbound_agent_id = EXCLUDED.inbound_agent_id, outbound_agent_id = EXCLUDED.outbound_agent_id,
			status = EXCLUDED.status, updated_at = $11`,
		n.ID, n.AccountID, n.ProviderNumberID, n.Number, n.Nickname, n.AreaCode,
		n.InboundAgentID, n.OutboundAgentID, n.Status, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("phonenumbers: upsert: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, accountID, id string) (*PhoneNumber, error) {
	var n PhoneNumber
	err := r.db.QueryRow(ctx, `
		SELECT `+numberColumns+`
		FROM phone_numbers WHERE account_id = $1 AND id = $2`, accountID, id).
		Scan(&n.ID, &n.AccountID, &n.ProviderNumberID, &n.Number, &n.Nickname,
			&n.AreaCode, &n.InboundAgentID, &n.OutboundAgentID, &n.Status, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNumberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("phonenumbers: select: %w", err)
	}
	return &n, nil
}
