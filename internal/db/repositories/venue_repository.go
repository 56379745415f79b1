package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	gormModels "evently/server/internal/models/gorm"
)

type VenueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) Create(ctx context.Context, venue *gormModels.Venue) error {
	if err := r.db.WithContext(ctx).Create(venue).Error; err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

func (r *VenueRepository) GetByID(ctx context.Context, id string) (*gormModels.Venue, error) {
	var venue gormModels.Venue
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&venue).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("venue not found")
		}
		return nil, fmt.Errorf("failed to fetch venue: %w", err)
	}
	return &venue, nil
}

func (r *VenueRepository) List(ctx context.Context) ([]gormModels.Venue, error) {
	var venues []gormModels.Venue
	err := r.db.WithContext(ctx).Order("name ASC").Find(&venues).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	return venues, nil
}

func (r *VenueRepository) Save(ctx context.Context, venue *gormModels.Venue) error {
	if err := r.db.WithContext(ctx).Save(venue).Error; err != nil {
		return fmt.Errorf("failed to save venue: %w", err)
	}
	return nil
}

func (r *VenueRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&gormModels.Venue{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete venue: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("venue not found")
	}
	return nil
}
