package services

import (
	"context"
	"fmt"
	"time"

	"evently/server/internal/common"
	"evently/server/internal/constants"
	"evently/server/internal/db/repositories"
	"evently/server/internal/logging"
	"evently/server/internal/metrics"
	"evently/server/internal/models/dtos/requests"
	"evently/server/internal/models/dtos/responses"
	"evently/server/internal/models/entities"
	gormModels "evently/server/internal/models/gorm"
)

// EventService owns the event lifecycle: organizer CRUD, the venue
// booking flow, and the public browse/search path.
type EventService struct {
	events     *repositories.EventRepository
	search     *repositories.EventSearchRepository
	venues     *repositories.VenueRepository
	cache      *common.CacheService
	metricsReg *metrics.MetricsRegistry
}

func NewEventService(
	events *repositories.EventRepository,
	search *repositories.EventSearchRepository,
	venues *repositories.VenueRepository,
	cache *common.CacheService,
	metricsReg *metrics.MetricsRegistry,
) *EventService {
	return &EventService{
		events:     events,
		search:     search,
		venues:     venues,
		cache:      cache,
		metricsReg: metricsReg,
	}
}

// Create registers a new event for an organizer. Requesting a venue
// puts the booking into pending, which blocks ticket sales until an
// admin decides; an event without a venue sells immediately.
func (svc *EventService) Create(ctx context.Context, organizerID string, req *requests.CreateEventRequest) (*gormModels.Event, error) {
	event := &gormModels.Event{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		OrganizerID:        organizerID,
		Price:              req.Price,
		TotalTickets:       req.TotalTickets,
		VenueBookingStatus: constants.BookingNotRequested,
	}
	if req.ImageURL != "" {
		event.ImageURL = &req.ImageURL
	}

	if req.VenueID != "" {
		if _, err := svc.venues.GetByID(ctx, req.VenueID); err != nil {
			return nil, fmt.Errorf("venue lookup failed: %w", ErrNotFound)
		}
		venueID := req.VenueID
		event.VenueID = &venueID
		event.VenueBookingStatus = constants.BookingPending
	}

	if err := svc.events.Create(ctx, event); err != nil {
		return nil, err
	}

	svc.metricsReg.EventsCreatedTotal.Inc()
	svc.invalidateBrowseCache()
	logging.Info("event created",
		"event_id", event.ID,
		"organizer_id", organizerID,
		"booking_status", event.VenueBookingStatus.String(),
	)
	return event, nil
}

// Update applies a partial edit. Only the organizer who created the
// event may touch it.
func (svc *EventService) Update(ctx context.Context, organizerID, eventID string, req *requests.UpdateEventRequest) (*gormModels.Event, error) {
	event, err := svc.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, ErrNotFound
	}
	if event.OrganizerID != organizerID {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.TotalTickets != nil {
		event.TotalTickets = *req.TotalTickets
	}
	if req.ImageURL != nil {
		event.ImageURL = req.ImageURL
	}

	if err := svc.events.Save(ctx, event); err != nil {
		return nil, err
	}
	svc.invalidateBrowseCache()
	return event, nil
}

// RequestVenueBooking attaches a venue to an existing event and puts
// the booking into pending.
func (svc *EventService) RequestVenueBooking(ctx context.Context, organizerID, eventID, venueID string) (*gormModels.Event, error) {
	event, err := svc.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, ErrNotFound
	}
	if event.OrganizerID != organizerID {
		return nil, ErrForbidden
	}
	if _, err := svc.venues.GetByID(ctx, venueID); err != nil {
		return nil, ErrNotFound
	}

	event.VenueID = &venueID
	event.VenueBookingStatus = constants.BookingPending
	if err := svc.events.Save(ctx, event); err != nil {
		return nil, err
	}
	svc.invalidateBrowseCache()
	return event, nil
}

// DecideVenueBooking is the admin approval/rejection of a pending
// booking.
func (svc *EventService) DecideVenueBooking(ctx context.Context, eventID string, status constants.BookingStatus) error {
	event, err := svc.events.GetByID(ctx, eventID)
	if err != nil {
		return ErrNotFound
	}
	if event.VenueBookingStatus != constants.BookingPending {
		return ErrNoBooking
	}

	if err := svc.events.SetBookingStatus(ctx, eventID, status); err != nil {
		return err
	}
	svc.invalidateBrowseCache()
	logging.Info("venue booking decided", "event_id", eventID, "status", status.String())
	return nil
}

func (svc *EventService) ListPendingBookings(ctx context.Context) ([]gormModels.Event, error) {
	return svc.events.ListPendingBookings(ctx)
}

func (svc *EventService) ListByOrganizer(ctx context.Context, organizerID string) ([]gormModels.Event, error) {
	return svc.events.ListByOrganizer(ctx, organizerID)
}

func (svc *EventService) GetByID(ctx context.Context, eventID string) (*gormModels.Event, error) {
	event, err := svc.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, ErrNotFound
	}
	return event, nil
}

// Browse serves the public listing/search, cached briefly because the
// landing page hammers it.
func (svc *EventService) Browse(ctx context.Context, query, category string, page, limit int) ([]entities.EventWithVenue, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	key := fmt.Sprintf("%s%s|%s|%d|%d", constants.CachePrefixEventList, query, category, page, limit)
	val, err := svc.cache.GetOrSet(key, 30*time.Second, func() (any, error) {
		return svc.search.Search(ctx, query, category, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	return val.([]entities.EventWithVenue), nil
}

func (svc *EventService) invalidateBrowseCache() {
	// Entries are short-lived; dropping the unfiltered first page is
	// enough to keep the landing page honest.
	svc.cache.Delete(fmt.Sprintf("%s%s|%s|%d|%d", constants.CachePrefixEventList, "", "", 1, 20))
}

// ToSearchResponse shapes a browse/search row for the API.
func ToSearchResponse(e *entities.EventWithVenue) responses.EventResponse {
	resp := responses.EventResponse{
		ID:                 e.ID,
		Title:              e.Title,
		Description:        e.Description,
		Category:           e.Category,
		StartTime:          e.StartTime,
		EndTime:            e.EndTime,
		OrganizerID:        e.OrganizerID,
		Price:              e.Price,
		TotalTickets:       e.TotalTickets,
		TicketsSold:        e.TicketsSold,
		VenueBookingStatus: e.VenueBookingStatus.String(),
		Purchasable:        e.VenueBookingStatus.AllowsPurchase() && e.TicketsSold < e.TotalTickets,
	}
	if e.VenueID != nil {
		resp.VenueID = *e.VenueID
	}
	if e.VenueName != nil {
		resp.VenueName = *e.VenueName
	}
	if e.VenueCity != nil {
		resp.VenueCity = *e.VenueCity
	}
	if e.ImageURL != nil {
		resp.ImageURL = *e.ImageURL
	}
	return resp
}

// ToEventResponse shapes an event row for the API.
func ToEventResponse(e *gormModels.Event) responses.EventResponse {
	resp := responses.EventResponse{
		ID:                 e.ID,
		Title:              e.Title,
		Description:        e.Description,
		Category:           e.Category,
		StartTime:          e.StartTime,
		EndTime:            e.EndTime,
		OrganizerID:        e.OrganizerID,
		Price:              e.Price,
		TotalTickets:       e.TotalTickets,
		TicketsSold:        e.TicketsSold,
		VenueBookingStatus: e.VenueBookingStatus.String(),
		Purchasable:        e.VenueBookingStatus.AllowsPurchase() && e.TicketsSold < e.TotalTickets,
	}
	if e.VenueID != nil {
		resp.VenueID = *e.VenueID
	}
	if e.Venue != nil {
		resp.VenueName = e.Venue.Name
		resp.VenueCity = e.Venue.City
	}
	if e.ImageURL != nil {
		resp.ImageURL = *e.ImageURL
	}
	return resp
}
