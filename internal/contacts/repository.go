package contacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrContactNotFound = errors.New("contact not found")

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
		panic("contacts: pgx pool required")
	}
	return &Repository{db: db}
}

const contactColumns = `id, account_id, first_name, last_name, phone, email, source, status,
	tags, notes, last_contacted_at, created_at, updated_at`

func (r *Repository) List(ctx context.Context, accountID string) ([]Contact, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts WHERE account_id = $1 ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("contacts: list: %w", err)
	}
	defer rows.Close()

	out := []Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, accountID, id string) (*Contact, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts WHERE account_id = $1 AND id = $2`, accountID, id)
	c, err := scanContact(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	return c, err
}

func (r *Repository) Create(ctx context.Context, c *Contact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = StatusNew
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		c.ID, c.AccountID, c.FirstName, c.LastName, c.Phone, c.Email, c.Source, c.Status,
		c.Tags, c.Notes, c.LastContactedAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("contacts: insert: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, c *Contact) error {
	c.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE contacts SET
			first_name = $3, last_name = $4, phone = $5, email = $6, source = $7, status = $8,
			tags = $9, notes = $10, last_contacted_at = $11, updated_at = $12
		WHERE account_id = $1 AND id = $2`,
		c.AccountID, c.ID,
		c.FirstName, c.LastName, c.Phone, c.Email, c.Source, c.Status,
		c.Tags, c.Notes, c.LastContactedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("contacts: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, accountID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE account_id = $1 AND id = $2`, accountID, id)
	if err != nil {
		return fmt.Errorf("contacts: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

func scanContact(row pgx.Row) (*Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.AccountID, &c.FirstName, &c.LastName, &c.Phone, &c.Email,
		&c.Source, &c.Status, &c.Tags, &c.Notes, &c.LastContactedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("contacts: scan: %w", err)
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c, nil
}
