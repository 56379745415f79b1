package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"evently/server/internal/common"
	"evently/server/internal/constants"
	"evently/server/internal/logging"
	"evently/server/internal/metrics"
	gormModels "evently/server/internal/models/gorm"
	"evently/server/internal/session"
)

// TicketService sells tickets. The venue-booking gate and the capacity
// check run inside the same transaction as the sale, so two concurrent
// purchases cannot oversell an event.
type TicketService struct {
	db         *gorm.DB
	queue      *common.ConfirmationQueueService
	metricsReg *metrics.MetricsRegistry
}

func NewTicketService(db *gorm.DB, queue *common.ConfirmationQueueService, metricsReg *metrics.MetricsRegistry) *TicketService {
	return &TicketService{db: db, queue: queue, metricsReg: metricsReg}
}

// Purchase sells quantity tickets of an event to the attendee. An event
// only accepts purchases when its venue booking is approved, was never
// requested, or predates the booking flow entirely; pending and
// rejected bookings block sales regardless of who asks.
func (svc *TicketService) Purchase(ctx context.Context, eventID string, attendee *session.User, quantity int) (*gormModels.TicketPurchase, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	var purchase gormModels.TicketPurchase
	var eventTitle string

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event gormModels.Event
		if err := tx.Where("id = ?", eventID).First(&event).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch event: %w", err)
		}

		if !event.VenueBookingStatus.AllowsPurchase() {
			return ErrSalesClosed
		}
		if event.TicketsSold+quantity > event.TotalTickets {
			return ErrSoldOut
		}

		event.TicketsSold += quantity
		if err := tx.Model(&gormModels.Event{}).
			Where("id = ?", event.ID).
			Update("tickets_sold", event.TicketsSold).Error; err != nil {
			return fmt.Errorf("failed to update ticket count: %w", err)
		}

		purchase = gormModels.TicketPurchase{
			EventID:        event.ID,
			AttendeeUserID: attendee.ID,
			Quantity:       quantity,
			TotalPrice:     float64(quantity) * event.Price,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return fmt.Errorf("failed to record purchase: %w", err)
		}

		eventTitle = event.Title
		return nil
	})
	if err != nil {
		switch err {
		case ErrSalesClosed:
			svc.metricsReg.PurchasesBlockedTotal.WithLabelValues("sales_closed").Inc()
		case ErrSoldOut:
			svc.metricsReg.PurchasesBlockedTotal.WithLabelValues("sold_out").Inc()
		}
		return nil, err
	}

	svc.metricsReg.TicketsSoldTotal.Add(float64(quantity))

	// Confirmation delivery is best effort; the sale already committed.
	if svc.queue != nil {
		item := &common.ConfirmationItem{
			PurchaseID: purchase.ID,
			EventID:    purchase.EventID,
			EventTitle: eventTitle,
			Email:      attendee.Email,
			Name:       attendee.Name,
			Quantity:   purchase.Quantity,
			TotalPrice: purchase.TotalPrice,
		}
		if err := svc.queue.Enqueue(ctx, constants.ConfirmationStream, item); err != nil {
			logging.Warn("failed to enqueue purchase confirmation",
				"purchase_id", purchase.ID, "error", err.Error())
		}
	}

	return &purchase, nil
}

// ListByAttendee returns an attendee's purchases with their events.
func (svc *TicketService) ListByAttendee(ctx context.Context, attendeeID string) ([]gormModels.TicketPurchase, error) {
	var purchases []gormModels.TicketPurchase
	err := svc.db.WithContext(ctx).
		Preload("Event").
		Where("attendee_user_id = ?", attendeeID).
		Order("purchased_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}
