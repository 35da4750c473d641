package repository

import (
	"context"

	"stockd/internal/model"
)

// InventoryRepository is the storage contract for stock levels and the
// add-event log. Implementations report absence via domain.ErrItemNotFound
// and unusable stored values via domain.ErrInvalidQuantity.
type InventoryRepository interface {
	// AddQuantity increments the stored quantity, creating the entry if
	// absent, appends a log entry, and returns the new quantity.
	AddQuantity(ctx context.Context, item string, qty int64) (int64, error)
	// RemoveQuantity decrements the stored quantity and deletes the entry
	// when the result drops to zero or below. Returns the remaining
	// quantity (zero after deletion).
	RemoveQuantity(ctx context.Context, item string, qty int64) (int64, error)
	// Quantity returns the stored quantity, or zero for absent items.
	Quantity(ctx context.Context, item string) (int64, error)
	// List returns every item with its quantity in the store's natural
	// iteration order.
	List(ctx context.Context) ([]model.Item, error)
	// LowStock returns the items with quantity strictly below threshold.
	LowStock(ctx context.Context, threshold int64) ([]model.Item, error)
	// ListLog returns add-event log entries in append order.
	ListLog(ctx context.Context) ([]model.LogEntry, error)
	// Snapshot captures the full mapping for persistence.
	Snapshot(ctx context.Context) (model.Snapshot, error)
	// Replace swaps the full mapping for the given snapshot.
	Replace(ctx context.Context, snap model.Snapshot) error
}
