package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrReviewNotFound = errors.New("review not found")

// Repository persists reviews through database/sql with the pq driver.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		panic("reviews: db required")
	}
	return &Repository{db: db}
}

const reviewColumns = `id, account_id, author, rating, body, source, tags,
	response_text, response_status, posted_at, created_at, updated_at`

func (r *Repository) List(ctx context.Context, accountID string) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews WHERE account_id = $1 ORDER BY posted_at DESC NULLS LAST, created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("reviews: list: %w", err)
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rev)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, accountID, id string) (*Review, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews WHERE account_id = $1 AND id = $2`, accountID, id)
	rev, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	return rev, err
}

func (r *Repository) Create(ctx context.Context, rev *Review) error {
	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}
	if rev.ResponseStatus == "" {
		rev.ResponseStatus = ResponsePending
	}
	now := time.Now().UTC()
	rev.CreatedAt = now
	rev.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rev.ID, rev.AccountID, rev.Author, rev.Rating, rev.Body, rev.Source, pq.Array(rev.Tags),
		rev.ResponseText, rev.ResponseStatus, rev.PostedAt, rev.CreatedAt, rev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("reviews: insert: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, rev *Review) error {
	rev.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE reviews SET
			author = $3, rating = $4, body = $5, source = $6, tags = $7,
			response_text = $8, response_status = $9, posted_at = $10, updated_at = $11
		WHERE account_id = $1 AND id = $2`,
		rev.AccountID, rev.ID, rev.Author, rev.Rating, rev.Body, rev.Source, pq.Array(rev.Tags),
		rev.ResponseText, rev.ResponseStatus, rev.PostedAt, rev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("reviews: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reviews: update: %w", err)
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, accountID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE account_id = $1 AND id = $2`, accountID, id)
	if err != nil {
		return fmt.Errorf("reviews: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reviews: delete: %w", err)
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*Review, error) {
	var rev Review
	err := row.Scan(&rev.ID, &rev.AccountID, &rev.Author, &rev.Rating, &rev.Body, &rev.Source,
		pq.Array(&rev.Tags), &rev.ResponseText, &rev.ResponseStatus, &rev.PostedAt, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("reviews: scan: %w", err)
	}
	if rev.Tags == nil {
		rev.Tags = []string{}
	}
	return &rev, nil
}
