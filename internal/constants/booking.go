package constants

import (
	"database/sql/driver"
	"fmt"
)

// BookingStatus mirrors the Postgres ENUM 'venue_booking_status'. Empty
// means the event never touched the venue booking flow (legacy rows).
type BookingStatus string

const (
	BookingPending      BookingStatus = "pending"
	BookingApproved     BookingStatus = "approved"
	BookingRejected     BookingStatus = "rejected"
	BookingNotRequested BookingStatus = "not_requested"
)

func (s BookingStatus) String() string { return string(s) }

// AllowsPurchase reports whether ticket sales are open for an event in
// this booking state. Pending and rejected bookings block sales.
func (s BookingStatus) AllowsPurchase() bool {
	switch s {
	case BookingApproved, BookingNotRequested, "":
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface
func (s *BookingStatus) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = BookingStatus(v)
	case []byte:
		*s = BookingStatus(v)
	default:
		return fmt.Errorf("BookingStatus: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s BookingStatus) Value() (driver.Value, error) {
	if s == "" {
		return nil, nil
	}
	return string(s), nil
}
