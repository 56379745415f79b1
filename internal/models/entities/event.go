package entities

import (
	"time"

	"evently/server/internal/constants"
)

type Event struct {
	ID                 string                  `db:"id"`
	Title              string                  `db:"title"`
	Description        string                  `db:"description"`
	Category           string                  `db:"category"`
	StartTime          time.Time               `db:"start_time"`
	EndTime            time.Time               `db:"end_time"`
	VenueID            *string                 `db:"venue_id"`
	OrganizerID        string                  `db:"organizer_id"`
	Price              float64                 `db:"price"`
	TotalTickets       int                     `db:"total_tickets"`
	TicketsSold        int                     `db:"tickets_sold"`
	VenueBookingStatus constants.BookingStatus `db:"venue_booking_status"`
	ImageURL           *string                 `db:"image_url"`
	CreatedAt          time.Time               `db:"created_at"`
	UpdatedAt          time.Time               `db:"updated_at"`
}

// EventWithVenue is the browse/search projection joining the venue.
type EventWithVenue struct {
	Event
	VenueName *string `db:"venue_name"`
	VenueCity *string `db:"venue_city"`
}
