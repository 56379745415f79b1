package responses

import (
	"time"

	"evently/server/internal/session"
)

// SessionResponse is the polling view of the session/role state. While
// IsLoading is true clients render a waiting state and poll again.
type SessionResponse struct {
	User      *session.User `json:"user"`
	Role      string        `json:"role,omitempty"`
	IsLoading bool          `json:"is_loading"`
	LandingAt string        `json:"landing_at,omitempty"`
}

type EventResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	VenueID            string    `json:"venue_id,omitempty"`
	VenueName          string    `json:"venue_name,omitempty"`
	VenueCity          string    `json:"venue_city,omitempty"`
	OrganizerID        string    `json:"organizer_id"`
	Price              float64   `json:"price"`
	TotalTickets       int       `json:"total_tickets"`
	TicketsSold        int       `json:"tickets_sold"`
	VenueBookingStatus string    `json:"venue_booking_status,omitempty"`
	Purchasable        bool      `json:"purchasable"`
	ImageURL           string    `json:"image_url,omitempty"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type VenueResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	CreatedBy   string `json:"created_by"`
}

type PurchaseResponse struct {
	PurchaseID string  `json:"purchase_id"`
	EventID    string  `json:"event_id"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

type TicketResponse struct {
	PurchaseID  string    `json:"purchase_id"`
	EventID     string    `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	StartTime   time.Time `json:"start_time"`
	Quantity    int       `json:"quantity"`
	TotalPrice  float64   `json:"total_price"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type UserSummary struct {
	AccountID   string `json:"account_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryCount struct {
	Category string `json:"category" db:"category"`
	Total    int    `json:"total" db:"total"`
}

type OrganizerStat struct {
	Organizer   string `json:"organizer" db:"organizer"`
	Events      int    `json:"events" db:"events"`
	TicketsSold int    `json:"tickets_sold" db:"tickets_sold"`
}

type AnalyticsOverview struct {
	TotalUsers    int             `json:"total_users"`
	TotalEvents   int             `json:"total_events"`
	TicketsSold   int             `json:"tickets_sold"`
	TotalRevenue  float64         `json:"total_revenue"`
	ByCategory    []CategoryCount `json:"by_category"`
	TopOrganizers []OrganizerStat `json:"top_organizers"`
}

type RecommendationResponse struct {
	Suggestions []string `json:"suggestions"`
	Source      string   `json:"source"`
}
