package broker

import (
	"context"

	"inventory-service/internal/models"
)

// EventPublisher publishes order lifecycle events keyed by invoice number,
// so all events for one order land on the same partition in order.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderSubmitted publishes an OrderSubmitted event
func (ep *EventPublisher) PublishOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error {
	return ep.producer.PublishEvent(ctx, event.InvoiceNumber, event)
}

// PublishOrderRevised publishes an OrderRevised event
func (ep *EventPublisher) PublishOrderRevised(ctx context.Context, event *models.OrderRevisedEvent) error {
	return ep.producer.PublishEvent(ctx, event.InvoiceNumber, event)
}

// PublishOrderDeleted publishes an OrderDeleted event
func (ep *EventPublisher) PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	return ep.producer.PublishEvent(ctx, event.InvoiceNumber, event)
}
