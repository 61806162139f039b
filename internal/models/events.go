package models

import "time"

// Event types
const (
	EventTypeOrderSubmitted = "ORDER_SUBMITTED"
	EventTypeOrderRevised   = "ORDER_REVISED"
	EventTypeOrderDeleted   = "ORDER_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderSubmittedEvent is published after a new order is persisted.
type OrderSubmittedEvent struct {
	BaseEvent
	InvoiceNumber string      `json:"invoice_number"`
	TotalPrice    float64     `json:"total_price"`
	Items         []OrderItem `json:"items"`
}

// OrderRevisedEvent is published after an order is replaced with a new
// item list. Items are the new line items, not the originals.
type OrderRevisedEvent struct {
	BaseEvent
	InvoiceNumber string      `json:"invoice_number"`
	TotalPrice    float64     `json:"total_price"`
	Items         []OrderItem `json:"items"`
}

// OrderDeletedEvent is published after an order is removed. Deletion does
// not restore inventory, so the event carries no items.
type OrderDeletedEvent struct {
	BaseEvent
	InvoiceNumber string `json:"invoice_number"`
}
