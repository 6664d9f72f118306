package dispute

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sellerdash/money"
)

// ErrNotFound signals the dispute does not exist.
var ErrNotFound = errors.New("dispute: not found")

// Repository defines the data access required by the service: the Store
// updaters plus the reads and the create used when a report is filed.
type Repository interface {
	Store
	GetByID(ctx context.Context, disputeID string) (Record, error)
	ListForSeller(ctx context.Context, sellerID string) ([]Record, error)
	ListOpen(ctx context.Context) ([]Record, error)
	Create(ctx context.Context, params CreateParams) (Record, error)
}

// CreateParams contains write parameters for filing a dispute.
type CreateParams struct {
	ID          string
	GigID       string
	BuyerID     string
	SellerID    string
	Title       string
	Description string
	Amount      money.Amount
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed dispute repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const recordColumns = `id, gig_id, buyer_id, seller_id, title, description, amount_minor,
	status::text, resolution_comment, outcome, refund_amount, opened_at, updated_at, resolved_at`

// SetStatus updates the dispute's status. Setting resolved on an already
// resolved dispute succeeds without change, which keeps resubmission safe.
func (r *PGRepository) SetStatus(ctx context.Context, disputeID string, status Status) error {
	const query = `
		UPDATE disputes
		SET status = $2,
		    updated_at = now(),
		    resolved_at = CASE WHEN $2 = 'resolved' THEN COALESCE(resolved_at, now()) ELSE resolved_at END
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, disputeID, status)
	if err != nil {
		return fmt.Errorf("dispute: set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResolutionComment records the operator's reason on the dispute.
func (r *PGRepository) SetResolutionComment(ctx context.Context, disputeID, comment string) error {
	const query = `
		UPDATE disputes
		SET resolution_comment = $2, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, disputeID, comment)
	if err != nil {
		return fmt.Errorf("dispute: set resolution comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOutcome records the outcome code and refund amount together. The refund
// keeps its textual form at this boundary.
func (r *PGRepository) SetOutcome(ctx context.Context, disputeID string, outcome Outcome, refundAmount string) error {
	const query = `
		UPDATE disputes
		SET outcome = $2, refund_amount = $3, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, disputeID, outcome, refundAmount)
	if err != nil {
		return fmt.Errorf("dispute: set outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches a dispute by its primary key.
func (r *PGRepository) GetByID(ctx context.Context, disputeID string) (Record, error) {
	query := `SELECT ` + recordColumns + ` FROM disputes WHERE id = $1`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, disputeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("dispute: get by id: %w", err)
	}
	return rec, nil
}

// ListForSeller fetches every dispute naming the seller, newest first.
func (r *PGRepository) ListForSeller(ctx context.Context, sellerID string) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM disputes WHERE seller_id = $1 ORDER BY opened_at DESC`
	return r.list(ctx, query, sellerID)
}

// ListOpen fetches every dispute still under review, oldest first, which is
// the operator's review queue.
func (r *PGRepository) ListOpen(ctx context.Context) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM disputes WHERE status = 'under_review' ORDER BY opened_at ASC`
	return r.list(ctx, query)
}

// Create inserts a new dispute under review.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Record, error) {
	query := `
		INSERT INTO disputes (id, gig_id, buyer_id, seller_id, title, description, amount_minor, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'under_review')
		RETURNING ` + recordColumns

	rec, err := scanRecord(r.pool.QueryRow(ctx, query,
		params.ID, params.GigID, params.BuyerID, params.SellerID,
		params.Title, params.Description, params.Amount))
	if err != nil {
		return Record{}, fmt.Errorf("dispute: create: %w", err)
	}
	return rec, nil
}

func (r *PGRepository) list(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dispute: list: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, 8)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("dispute: scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dispute: iterate: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec     Record
		outcome *string
	)
	err := row.Scan(
		&rec.ID,
		&rec.GigID,
		&rec.BuyerID,
		&rec.SellerID,
		&rec.Title,
		&rec.Description,
		&rec.Amount,
		&rec.Status,
		&rec.ResolutionComment,
		&outcome,
		&rec.RefundAmount,
		&rec.OpenedAt,
		&rec.UpdatedAt,
		&rec.ResolvedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if outcome != nil {
		o := Outcome(*outcome)
		rec.Outcome = &o
	}
	return rec, nil
}
