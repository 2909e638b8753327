package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

type sequenceRepo struct {
	db *sqlx.DB
}

// NewSequenceRepo creates a PostgreSQL-backed SequenceRepository.
func NewSequenceRepo(db *sqlx.DB) port.SequenceRepository {
	return &sequenceRepo{db: db}
}

// Next increments and returns the counter for a key in a single
// statement. The row lock taken by the UPDATE serializes concurrent
// allocations on the same key; different keys proceed independently.
// The statement deliberately runs on the pool, never on a transaction
// carried by ctx: a consumed number must survive the caller's
// rollback (gaps are accepted, reuse is not).
func (r *sequenceRepo) Next(ctx context.Context, sequenceType domain.SequenceType, ownerID string) (int64, error) {
	query := `INSERT INTO invoice_sequences (id, sequence_type, owner_id, current_number, created_at, updated_at)
		VALUES ($1, $2, $3, 1, $4, $4)
		ON CONFLICT (sequence_type, owner_id)
		DO UPDATE SET current_number = invoice_sequences.current_number + 1, updated_at = $4
		RETURNING current_number`

	var number int64
	err := r.db.GetContext(ctx, &number, query,
		uuid.New(), sequenceType, ownerID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sequenceRepo.Next: %w: %v", domain.ErrSequenceUnavailable, err)
	}
	return number, nil
}
