package bid

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides read access to bids.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByGig fetches every bid placed on the given gig, newest first.
func (r *Repository) ListByGig(ctx context.Context, gigID string) ([]Bid, error) {
	const query = `
		SELECT id, gig_id, seller_id, amount_minor, created_at
		FROM bids
		WHERE gig_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, gigID)
	if err != nil {
		return nil, fmt.Errorf("bid: list by gig: %w", err)
	}
	defer rows.Close()

	out := make([]Bid, 0, 8)
	for rows.Next() {
		var b Bid
		if err := rows.Scan(&b.ID, &b.GigID, &b.SellerID, &b.Amount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("bid: scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bid: iterate: %w", err)
	}
	return out, nil
}
