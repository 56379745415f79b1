package workers

import (
	"context"
	"os"

	"evently/server/internal/common"
)

type WorkersContainer struct {
	Confirmations *ConfirmationWorker
}

func InitWorkers(queue *common.ConfirmationQueueService, mailer *common.Mailer) *WorkersContainer {
	consumer, _ := os.Hostname()
	if consumer == "" {
		consumer = "evently-worker"
	}

	confirmations := NewConfirmationWorker(queue, mailer, consumer)
	go confirmations.Start(context.Background())

	return &WorkersContainer{Confirmations: confirmations}
}
