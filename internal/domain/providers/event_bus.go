package providers

import (
	"context"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// prescription workflow events.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.PrescriptionEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.PrescriptionEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelPrescriptionUpdates is the channel for all prescription transitions
	EventChannelPrescriptionUpdates = "prescription:updates"

	// EventChannelPrescriptionPrefix is the prefix for prescription-specific channels
	EventChannelPrescriptionPrefix = "prescription:"
)

// GetPrescriptionChannel returns the channel name for a specific prescription.
func GetPrescriptionChannel(prescriptionID string) string {
	return EventChannelPrescriptionPrefix + prescriptionID
}
