package notifier

import (
	"context"

	"booking-service/internal/models"
)

// Sink delivers one booking event to an external channel
type Sink interface {
	Name() string
	Send(ctx context.Context, event *models.BookingCreatedEvent) error
}
