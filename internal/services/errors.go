package services

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("not allowed")
	ErrSalesClosed = errors.New("ticket sales are not open for this event")
	ErrSoldOut     = errors.New("not enough tickets remaining")
	ErrNoBooking   = errors.New("event has no venue booking to decide")
)
