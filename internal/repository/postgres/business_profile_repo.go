package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

type businessProfileRepo struct {
	db *sqlx.DB
}

// NewBusinessProfileRepo creates a PostgreSQL-backed
// BusinessProfileRepository.
func NewBusinessProfileRepo(db *sqlx.DB) port.BusinessProfileRepository {
	return &businessProfileRepo{db: db}
}

func (r *businessProfileRepo) Upsert(ctx context.Context, profile *domain.BusinessProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `INSERT INTO business_profiles (
			id, user_id, business_name, gstin, address, pincode, state, phone, email, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			gstin = EXCLUDED.gstin,
			address = EXCLUDED.address,
			pincode = EXCLUDED.pincode,
			state = EXCLUDED.state,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		profile.ID, profile.UserID, profile.BusinessName, profile.GSTIN,
		profile.Address, profile.Pincode, profile.State, profile.Phone,
		profile.Email, now).Scan(&profile.ID, &profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("businessProfileRepo.Upsert: %w", err)
	}
	return nil
}

func (r *businessProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	var profile domain.BusinessProfile
	err := r.db.GetContext(ctx, &profile,
		"SELECT * FROM business_profiles WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("businessProfileRepo.GetByUserID: %w", err)
	}
	return &profile, nil
}
