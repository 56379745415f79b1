package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"evently/server/internal/constants"
	"evently/server/internal/models/entities"
)

// EventSearchRepository serves the read-heavy browse/search path with
// raw SQL; writes stay on the GORM repository.
type EventSearchRepository struct {
	db *sqlx.DB
}

func NewEventSearchRepository(db *sqlx.DB) *EventSearchRepository {
	return &EventSearchRepository{db: db}
}

func (r *EventSearchRepository) Search(ctx context.Context, query, category string, limit, offset int) ([]entities.EventWithVenue, error) {
	var events []entities.EventWithVenue
	err := r.db.SelectContext(ctx, &events, constants.SearchEvents, query, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("event search failed: %w", err)
	}
	return events, nil
}
