package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConfirmationQueueService carries ticket purchase confirmations to the
// background worker over a Redis stream, so the purchase transaction
// never waits on delivery.
type ConfirmationQueueService struct {
	client *redis.Client
}

func NewConfirmationQueueService(client *redis.Client) *ConfirmationQueueService {
	return &ConfirmationQueueService{client: client}
}

// ConfirmationItem is one purchase confirmation to deliver.
type ConfirmationItem struct {
	PurchaseID string  `json:"purchase_id"`
	EventID    string  `json:"event_id"`
	EventTitle string  `json:"event_title"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

func (s *ConfirmationQueueService) Enqueue(ctx context.Context, streamName string, item *ConfirmationItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{"data": string(data)},
	}
	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

// EnsureGroup creates the consumer group if it does not exist yet.
func (s *ConfirmationQueueService) EnsureGroup(ctx context.Context, streamName, groupName string) error {
	err := s.client.XGroupCreateMkStream(ctx, streamName, groupName, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// Dequeue reads one confirmation via the consumer group, blocking up to
// blockTime. Returns (nil, "", nil) on timeout.
func (s *ConfirmationQueueService) Dequeue(ctx context.Context, streamName, groupName, consumerName string, blockTime time.Duration) (*ConfirmationItem, string, error) {
	args := &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{streamName, ">"},
		Count:    1,
		Block:    blockTime,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]
	raw, _ := msg.Values["data"].(string)

	var item ConfirmationItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, msg.ID, fmt.Errorf("failed to unmarshal confirmation: %w", err)
	}
	return &item, msg.ID, nil
}

// Ack marks a confirmation as processed.
func (s *ConfirmationQueueService) Ack(ctx context.Context, streamName, groupName, messageID string) error {
	if err := s.client.XAck(ctx, streamName, groupName, messageID).Err(); err != nil {
		return fmt.Errorf("failed to ack message: %w", err)
	}
	return nil
}
