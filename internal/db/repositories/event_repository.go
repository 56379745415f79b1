package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"evently/server/internal/constants"
	gormModels "evently/server/internal/models/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *gormModels.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*gormModels.Event, error) {
	var event gormModels.Event
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("event not found")
		}
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]gormModels.Event, error) {
	var events []gormModels.Event
	err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) Save(ctx context.Context, event *gormModels.Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

func (r *EventRepository) SetBookingStatus(ctx context.Context, eventID string, status constants.BookingStatus) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("id = ?", eventID).
		Update("venue_booking_status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to set booking status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event not found")
	}
	return nil
}

// ListPendingBookings returns events waiting on an admin booking
// decision.
func (r *EventRepository) ListPendingBookings(ctx context.Context) ([]gormModels.Event, error) {
	var events []gormModels.Event
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Where("venue_booking_status = ?", constants.BookingPending).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}
	return events, nil
}
