package service

import (
	"context"
	"encoding/json"
	"log"

	"hive-food/internal/domain"

	"github.com/segmentio/kafka-go"
)

// Consumer feeds order events into the activity counters. It is the
// only long-lived goroutine in the process and stops when its context
// is cancelled.
type Consumer struct {
	Reader *kafka.Reader
	Store  ActivityRecorder
}

func NewConsumer(reader *kafka.Reader, store ActivityRecorder) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting activity consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Error reading message: %v", err)
			continue
		}

		var event domain.SessionEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Error unmarshaling event: %v", err)
			continue
		}

		c.ProcessEvent(ctx, event)
	}
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.SessionEvent) {
	switch event.Type {
	case domain.EventItemAdded, domain.EventItemUpdated, domain.EventItemDeleted:
		if err := c.Store.RecordItemEvent(ctx, event); err != nil {
			log.Printf("Error recording item event: %v", err)
		}
	case domain.EventSessionClosed:
		if err := c.Store.RecordSessionClosed(ctx, event); err != nil {
			log.Printf("Error recording session close: %v", err)
		}
	default:
		log.Printf("Skipping unknown event type %q", event.Type)
	}
}
