package workers

import (
	"context"
	"fmt"
	"time"

	"evently/server/internal/common"
	"evently/server/internal/constants"
	"evently/server/internal/logging"
)

const confirmationGroup = "confirmation_workers"

// ConfirmationWorker drains the ticket-confirmation stream and sends
// purchase emails. Sales never wait on it; a purchase that loses its
// confirmation is still a purchase.
type ConfirmationWorker struct {
	queue    *common.ConfirmationQueueService
	mailer   *common.Mailer
	consumer string
}

func NewConfirmationWorker(queue *common.ConfirmationQueueService, mailer *common.Mailer, consumer string) *ConfirmationWorker {
	return &ConfirmationWorker{queue: queue, mailer: mailer, consumer: consumer}
}

// Start consumes the stream until the context is cancelled.
func (w *ConfirmationWorker) Start(ctx context.Context) {
	if err := w.queue.EnsureGroup(ctx, constants.ConfirmationStream, confirmationGroup); err != nil {
		logging.Error("confirmation worker could not create consumer group", "error", err.Error())
		return
	}
	logging.Info("confirmation worker started", "consumer", w.consumer)

	for {
		select {
		case <-ctx.Done():
			logging.Info("confirmation worker stopped")
			return
		default:
		}

		item, msgID, err := w.queue.Dequeue(ctx, constants.ConfirmationStream, confirmationGroup, w.consumer, 5*time.Second)
		if err != nil {
			logging.Warn("confirmation dequeue failed", "error", err.Error())
			time.Sleep(2 * time.Second)
			continue
		}
		if item == nil {
			continue
		}

		w.handle(ctx, item)

		if err := w.queue.Ack(ctx, constants.ConfirmationStream, confirmationGroup, msgID); err != nil {
			logging.Warn("confirmation ack failed", "message_id", msgID, "error", err.Error())
		}
	}
}

func (w *ConfirmationWorker) handle(ctx context.Context, item *common.ConfirmationItem) {
	subject := fmt.Sprintf("Your tickets for %s", item.EventTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\nYou bought %d ticket(s) for %s.\nTotal: %.2f\nOrder: %s\n\nSee you there!",
		item.Name, item.Quantity, item.EventTitle, item.TotalPrice, item.PurchaseID,
	)

	if !w.mailer.Enabled() {
		logging.Info("confirmation processed without email delivery",
			"purchase_id", item.PurchaseID, "email", item.Email)
		return
	}

	if err := w.mailer.Send(ctx, item.Email, subject, body); err != nil {
		logging.Warn("confirmation email failed",
			"purchase_id", item.PurchaseID, "error", err.Error())
		return
	}
	logging.Info("confirmation email sent", "purchase_id", item.PurchaseID)
}
