package domain

import "errors"

// DefaultLowStockThreshold is applied when a low-stock query names no
// threshold of its own.
const DefaultLowStockThreshold = 5

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

var (
	ErrEmptyItem        = errors.New("item name is empty")
	ErrNegativeQuantity = errors.New("cannot add negative quantity")
	ErrItemNotFound     = errors.New("item not found in inventory")
	ErrInvalidQuantity  = errors.New("invalid quantity data")
)

func IsValidAction(value string) bool {
	switch value {
	case ActionAdd, ActionRemove:
		return true
	default:
		return false
	}
}

// ValidateAdd rejects additions before they reach a store. Removal has no
// sign check: removing a negative quantity increases stock, matching the
// historical behavior of the system this replaces.
func ValidateAdd(item string, qty int64) error {
	if item == "" {
		return ErrEmptyItem
	}
	if qty < 0 {
		return ErrNegativeQuantity
	}
	return nil
}
