package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"evently/server/internal/constants"
	gormModels "evently/server/internal/models/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*gormModels.Profile, error) {
	var profile gormModels.Profile
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]gormModels.Profile, error) {
	var profiles []gormModels.Profile
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// UpdateRole overwrites the profile role. Only the admin surface calls
// this; first-time self-service selection goes through the session
// controller instead.
func (r *ProfileRepository) UpdateRole(ctx context.Context, accountID string, role constants.Role) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Profile{}).
		Where("account_id = ?", accountID).
		Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("failed to update role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}
