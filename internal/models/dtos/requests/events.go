package requests

import "time"

type CreateEventRequest struct {
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description" validate:"required"`
	Category     string    `json:"category" validate:"required"`
	StartTime    time.Time `json:"start_time" validate:"required"`
	EndTime      time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	VenueID      string    `json:"venue_id,omitempty" validate:"omitempty,uuid"`
	Price        float64   `json:"price" validate:"gte=0"`
	TotalTickets int       `json:"total_tickets" validate:"required,gt=0"`
	ImageURL     string    `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateEventRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description  *string    `json:"description,omitempty"`
	Category     *string    `json:"category,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Price        *float64   `json:"price,omitempty" validate:"omitempty,gte=0"`
	TotalTickets *int       `json:"total_tickets,omitempty" validate:"omitempty,gt=0"`
	ImageURL     *string    `json:"image_url,omitempty" validate:"omitempty,url"`
}

type CreateVenueRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	Capacity    int    `json:"capacity" validate:"required,gt=0"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type RequestVenueBookingRequest struct {
	VenueID string `json:"venue_id" validate:"required,uuid"`
}

type PurchaseTicketsRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0,lte=10"`
}

type BookingDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type RecommendationRequest struct {
	Interests []string `json:"interests" validate:"required,min=1,dive,required"`
	City      string   `json:"city,omitempty"`
}
