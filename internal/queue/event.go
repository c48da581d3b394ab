// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// CatalogQueue is the durable queue catalog events are published to.
const CatalogQueue = "catalog.events"

// Catalog event types.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
	ReviewCreated  = "review.created"
)

// CatalogEvent is published after a product aggregate or review write has
// committed.  It carries enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type CatalogEvent struct {
	Type        string `json:"type"`
	ProductID   uint64 `json:"product_id"`
	UserID      uint64 `json:"user_id"` // acting user: seller or reviewer
	ProductName string `json:"product_name,omitempty"`
	Rating      int    `json:"rating,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

// NewCatalogEvent stamps an event with the current UTC time.
func NewCatalogEvent(typ string, productID, userID uint64) CatalogEvent {
	return CatalogEvent{
		Type:       typ,
		ProductID:  productID,
		UserID:     userID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
