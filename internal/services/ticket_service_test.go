package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"evently/server/internal/constants"
	"evently/server/internal/metrics"
	gormModels "evently/server/internal/models/gorm"
	"evently/server/internal/session"
)

// One registry per test binary; prometheus collectors register globally.
var testMetrics = metrics.NewMetricsRegistry()

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&gormModels.Venue{},
		&gormModels.Event{},
		&gormModels.TicketPurchase{},
		&gormModels.Profile{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, status constants.BookingStatus, totalTickets, sold int) *gormModels.Event {
	t.Helper()

	event := &gormModels.Event{
		Title:              "Test Event",
		Description:        "desc",
		Category:           "music",
		StartTime:          time.Now().Add(24 * time.Hour),
		EndTime:            time.Now().Add(26 * time.Hour),
		OrganizerID:        "org-1",
		Price:              25.0,
		TotalTickets:       totalTickets,
		TicketsSold:        sold,
		VenueBookingStatus: status,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
	return event
}

func testAttendee() *session.User {
	return &session.User{
		ID:    "att-1",
		Email: "ada@example.com",
		Name:  "Ada",
		Role:  constants.RoleAttendee,
	}
}

func TestPurchaseBlockedWhileBookingPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTicketService(db, nil, testMetrics)
	event := seedEvent(t, db, constants.BookingPending, 100, 0)

	_, err := svc.Purchase(context.Background(), event.ID, testAttendee(), 2)
	if !errors.Is(err, ErrSalesClosed) {
		t.Fatalf("expected ErrSalesClosed for pending booking, got %v", err)
	}

	var got gormModels.Event
	if err := db.First(&got, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("Failed to reload event: %v", err)
	}
	if got.TicketsSold != 0 {
		t.Errorf("blocked purchase must not touch tickets_sold, got %d", got.TicketsSold)
	}
}

func TestPurchaseBlockedWhenBookingRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTicketService(db, nil, testMetrics)
	event := seedEvent(t, db, constants.BookingRejected, 100, 0)

	_, err := svc.Purchase(context.Background(), event.ID, testAttendee(), 1)
	if !errors.Is(err, ErrSalesClosed) {
		t.Fatalf("expected ErrSalesClosed for rejected booking, got %v", err)
	}
}

func TestPurchaseAllowedStatuses(t *testing.T) {
	statuses := []constants.BookingStatus{
		constants.BookingApproved,
		constants.BookingNotRequested,
		// Events predating the booking flow have no status at all.
		"",
	}

	for _, status := range statuses {
		db := setupTestDB(t)
		svc := NewTicketService(db, nil, testMetrics)
		event := seedEvent(t, db, status, 100, 0)

		purchase, err := svc.Purchase(context.Background(), event.ID, testAttendee(), 3)
		if err != nil {
			t.Fatalf("status %q: expected purchase to succeed, got %v", status, err)
		}
		if purchase.Quantity != 3 {
			t.Errorf("status %q: quantity = %d, want 3", status, purchase.Quantity)
		}
		if purchase.TotalPrice != 75.0 {
			t.Errorf("status %q: total = %v, want 75", status, purchase.TotalPrice)
		}
	}
}

func TestPurchaseIncrementsTicketsSold(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTicketService(db, nil, testMetrics)
	event := seedEvent(t, db, constants.BookingApproved, 10, 4)

	if _, err := svc.Purchase(context.Background(), event.ID, testAttendee(), 2); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	var got gormModels.Event
	if err := db.First(&got, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("Failed to reload event: %v", err)
	}
	if got.TicketsSold != 6 {
		t.Errorf("tickets_sold = %d, want 6", got.TicketsSold)
	}

	var count int64
	db.Model(&gormModels.TicketPurchase{}).Where("event_id = ?", event.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected one purchase row, got %d", count)
	}
}

func TestPurchaseSoldOut(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTicketService(db, nil, testMetrics)
	event := seedEvent(t, db, constants.BookingApproved, 10, 9)

	_, err := svc.Purchase(context.Background(), event.ID, testAttendee(), 2)
	if !errors.Is(err, ErrSoldOut) {
		t.Fatalf("expected ErrSoldOut, got %v", err)
	}

	var got gormModels.Event
	db.First(&got, "id = ?", event.ID)
	if got.TicketsSold != 9 {
		t.Errorf("failed purchase must not change tickets_sold, got %d", got.TicketsSold)
	}
}

func TestPurchaseUnknownEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTicketService(db, nil, testMetrics)

	_, err := svc.Purchase(context.Background(), "missing-id", testAttendee(), 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByAttendeeReturnsOwnPurchasesOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTicketService(db, nil, testMetrics)
	event := seedEvent(t, db, constants.BookingApproved, 100, 0)

	if _, err := svc.Purchase(context.Background(), event.ID, testAttendee(), 1); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	other := &session.User{ID: "att-2", Email: "bob@example.com", Name: "Bob"}
	if _, err := svc.Purchase(context.Background(), event.ID, other, 2); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	purchases, err := svc.ListByAttendee(context.Background(), "att-1")
	if err != nil {
		t.Fatalf("ListByAttendee failed: %v", err)
	}
	if len(purchases) != 1 {
		t.Fatalf("expected 1 purchase, got %d", len(purchases))
	}
	if purchases[0].Event.Title != "Test Event" {
		t.Errorf("expected preloaded event, got %+v", purchases[0].Event)
	}
}
