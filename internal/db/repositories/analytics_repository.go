package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"evently/server/internal/constants"
	"evently/server/internal/models/dtos/responses"
)

type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, constants.CountUsers); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *AnalyticsRepository) CountEvents(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, constants.CountEvents); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

func (r *AnalyticsRepository) TicketTotals(ctx context.Context) (int, float64, error) {
	var row struct {
		Tickets int     `db:"tickets"`
		Revenue float64 `db:"revenue"`
	}
	if err := r.db.GetContext(ctx, &row, constants.SumTicketsAndRevenue); err != nil {
		return 0, 0, fmt.Errorf("failed to sum ticket sales: %w", err)
	}
	return row.Tickets, row.Revenue, nil
}

func (r *AnalyticsRepository) EventsByCategory(ctx context.Context) ([]responses.CategoryCount, error) {
	var rows []responses.CategoryCount
	if err := r.db.SelectContext(ctx, &rows, constants.EventsByCategory); err != nil {
		return nil, fmt.Errorf("failed to group events by category: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) TopOrganizers(ctx context.Context) ([]responses.OrganizerStat, error) {
	var rows []responses.OrganizerStat
	if err := r.db.SelectContext(ctx, &rows, constants.TopOrganizers); err != nil {
		return nil, fmt.Errorf("failed to rank organizers: %w", err)
	}
	return rows, nil
}
