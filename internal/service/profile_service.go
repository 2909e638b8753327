package service

import (
	"context"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/port"
)

// UpsertProfileInput is the DTO for creating or replacing a user's
// business profile.
type UpsertProfileInput struct {
	BusinessName string `json:"business_name" binding:"required"`
	GSTIN        string `json:"gstin" binding:"required"`
	Address      string `json:"address" binding:"required"`
	Pincode      string `json:"pincode" binding:"required"`
	State        string `json:"state" binding:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// ProfileService manages the stored seller identity per user.
type ProfileService interface {
	Upsert(ctx context.Context, userID string, input UpsertProfileInput) (*domain.BusinessProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error)
}

type profileService struct {
	profiles port.BusinessProfileRepository
}

// NewProfileService creates the ProfileService implementation.
func NewProfileService(profiles port.BusinessProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Upsert(ctx context.Context, userID string, input UpsertProfileInput) (*domain.BusinessProfile, error) {
	if userID == "" {
		return nil, domain.Validationf("user_id is required")
	}
	gstin, ok := gst.NormalizeGSTIN(input.GSTIN)
	if !ok {
		return nil, domain.Validationf("invalid GSTIN format")
	}
	if !gst.ValidPincode(input.Pincode) {
		return nil, domain.Validationf("pincode must be 6 digits")
	}
	if !gst.ValidState(input.State) {
		return nil, domain.Validationf("unknown state code %q", input.State)
	}

	profile := &domain.BusinessProfile{
		UserID:       userID,
		BusinessName: input.BusinessName,
		GSTIN:        gstin,
		Address:      input.Address,
		Pincode:      input.Pincode,
		State:        input.State,
		Phone:        input.Phone,
		Email:        input.Email,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) GetByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}
