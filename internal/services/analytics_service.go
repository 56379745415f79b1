package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"evently/server/internal/common"
	"evently/server/internal/constants"
	"evently/server/internal/db/repositories"
	"evently/server/internal/models/dtos/responses"
)

// AnalyticsService aggregates the admin dashboard numbers. The five
// queries are independent, so they run fanned out.
type AnalyticsService struct {
	analytics *repositories.AnalyticsRepository
	cache     *common.CacheService
}

func NewAnalyticsService(analytics *repositories.AnalyticsRepository, cache *common.CacheService) *AnalyticsService {
	return &AnalyticsService{analytics: analytics, cache: cache}
}

func (svc *AnalyticsService) Overview(ctx context.Context) (*responses.AnalyticsOverview, error) {
	val, err := svc.cache.GetOrSet(string(constants.CachePrefixAnalytics), 60*time.Second, func() (any, error) {
		return svc.loadOverview(ctx)
	})
	if err != nil {
		return nil, err
	}
	return val.(*responses.AnalyticsOverview), nil
}

func (svc *AnalyticsService) loadOverview(ctx context.Context) (*responses.AnalyticsOverview, error) {
	var overview responses.AnalyticsOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := svc.analytics.CountUsers(gctx)
		overview.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := svc.analytics.CountEvents(gctx)
		overview.TotalEvents = n
		return err
	})
	g.Go(func() error {
		tickets, revenue, err := svc.analytics.TicketTotals(gctx)
		overview.TicketsSold = tickets
		overview.TotalRevenue = revenue
		return err
	})
	g.Go(func() error {
		rows, err := svc.analytics.EventsByCategory(gctx)
		overview.ByCategory = rows
		return err
	})
	g.Go(func() error {
		rows, err := svc.analytics.TopOrganizers(gctx)
		overview.TopOrganizers = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}
