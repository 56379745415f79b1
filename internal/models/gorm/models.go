package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"evently/server/internal/constants"
)

// Account is owned by the account store. Application code reads it only
// through the store contract; it is modelled here so migrations and
// tests can build the full schema.
type Account struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Email         string    `gorm:"column:email;uniqueIndex"`
	PasswordHash  string    `gorm:"column:password_hash"`
	EmailVerified bool      `gorm:"column:email_verified;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string { return "accounts" }

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

type Profile struct {
	AccountID         string         `gorm:"column:account_id;primaryKey"`
	Email             string         `gorm:"column:email"`
	DisplayName       string         `gorm:"column:display_name"`
	Role              constants.Role `gorm:"column:role"`
	OrganizationName  *string        `gorm:"column:organization_name"`
	Bio               *string        `gorm:"column:bio"`
	ProfilePictureURL *string        `gorm:"column:profile_picture_url"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string { return "users" }

type Venue struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Address     string    `gorm:"column:address"`
	City        string    `gorm:"column:city"`
	Capacity    int       `gorm:"column:capacity"`
	Description string    `gorm:"column:description"`
	ImageURL    *string   `gorm:"column:image_url"`
	CreatedBy   string    `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Venue) TableName() string { return "venues" }

func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

type Event struct {
	ID                 string                  `gorm:"column:id;primaryKey"`
	Title              string                  `gorm:"column:title"`
	Description        string                  `gorm:"column:description"`
	Category           string                  `gorm:"column:category;index"`
	StartTime          time.Time               `gorm:"column:start_time;index"`
	EndTime            time.Time               `gorm:"column:end_time"`
	VenueID            *string                 `gorm:"column:venue_id"`
	OrganizerID        string                  `gorm:"column:organizer_id;index"`
	Price              float64                 `gorm:"column:price"`
	TotalTickets       int                     `gorm:"column:total_tickets"`
	TicketsSold        int                     `gorm:"column:tickets_sold;default:0"`
	VenueBookingStatus constants.BookingStatus `gorm:"column:venue_booking_status"`
	ImageURL           *string                 `gorm:"column:image_url"`
	CreatedAt          time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Venue *Venue `gorm:"foreignKey:VenueID"`
}

func (Event) TableName() string { return "events" }

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

type TicketPurchase struct {
	ID             string    `gorm:"column:id;primaryKey"`
	EventID        string    `gorm:"column:event_id;index"`
	AttendeeUserID string    `gorm:"column:attendee_user_id;index"`
	Quantity       int       `gorm:"column:quantity"`
	TotalPrice     float64   `gorm:"column:total_price"`
	PurchasedAt    time.Time `gorm:"column:purchased_at;autoCreateTime"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID"`
}

func (TicketPurchase) TableName() string { return "ticket_purchases" }

func (t *TicketPurchase) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
