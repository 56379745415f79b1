package services

import (
	"context"

	"evently/server/internal/db/repositories"
	"evently/server/internal/models/dtos/requests"
	"evently/server/internal/models/dtos/responses"
	gormModels "evently/server/internal/models/gorm"
)

type VenueService struct {
	venues *repositories.VenueRepository
}

func NewVenueService(venues *repositories.VenueRepository) *VenueService {
	return &VenueService{venues: venues}
}

func (svc *VenueService) Create(ctx context.Context, creatorID string, req *requests.CreateVenueRequest) (*gormModels.Venue, error) {
	venue := &gormModels.Venue{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Capacity:    req.Capacity,
		Description: req.Description,
		CreatedBy:   creatorID,
	}
	if req.ImageURL != "" {
		venue.ImageURL = &req.ImageURL
	}

	if err := svc.venues.Create(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

// Update lets the creating organizer or an admin edit a venue.
func (svc *VenueService) Update(ctx context.Context, actorID string, isAdmin bool, venueID string, req *requests.CreateVenueRequest) (*gormModels.Venue, error) {
	venue, err := svc.venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !isAdmin && venue.CreatedBy != actorID {
		return nil, ErrForbidden
	}

	venue.Name = req.Name
	venue.Address = req.Address
	venue.City = req.City
	venue.Capacity = req.Capacity
	venue.Description = req.Description
	if req.ImageURL != "" {
		venue.ImageURL = &req.ImageURL
	}

	if err := svc.venues.Save(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

func (svc *VenueService) Delete(ctx context.Context, actorID string, isAdmin bool, venueID string) error {
	venue, err := svc.venues.GetByID(ctx, venueID)
	if err != nil {
		return ErrNotFound
	}
	if !isAdmin && venue.CreatedBy != actorID {
		return ErrForbidden
	}
	return svc.venues.Delete(ctx, venueID)
}

func (svc *VenueService) List(ctx context.Context) ([]gormModels.Venue, error) {
	return svc.venues.List(ctx)
}

func (svc *VenueService) GetByID(ctx context.Context, venueID string) (*gormModels.Venue, error) {
	venue, err := svc.venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, ErrNotFound
	}
	return venue, nil
}

func ToVenueResponse(v *gormModels.Venue) responses.VenueResponse {
	resp := responses.VenueResponse{
		ID:          v.ID,
		Name:        v.Name,
		Address:     v.Address,
		City:        v.City,
		Capacity:    v.Capacity,
		Description: v.Description,
		CreatedBy:   v.CreatedBy,
	}
	if v.ImageURL != nil {
		resp.ImageURL = *v.ImageURL
	}
	return resp
}
