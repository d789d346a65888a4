package broker

import (
	"context"

	"booking-service/internal/models"
)

// EventPublisher publishes booking events to Kafka and serves as a notification sink
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishBookingCreated publishes a BookingCreated event keyed by booking id
func (ep *EventPublisher) PublishBookingCreated(ctx context.Context, event *models.BookingCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, event.BookingID, event)
}

func (ep *EventPublisher) Name() string {
	return "kafka"
}

func (ep *EventPublisher) Send(ctx context.Context, event *models.BookingCreatedEvent) error {
	return ep.PublishBookingCreated(ctx, event)
}
