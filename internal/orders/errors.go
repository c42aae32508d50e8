package orders

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUserNotFound  = errors.New("user not found")

	// ErrForbidden: caller non-privileged mencoba akses order milik user lain.
	ErrForbidden = errors.New("not allowed to access this order")

	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrInvalidQty       = errors.New("quantity must be positive")
	ErrMissingProductID = errors.New("order item missing product id")
)

// ProductNotFoundError: line order menunjuk produk yang tidak ada.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

// InsufficientStockError: qty diminta melebihi stok. Retryable untuk caller;
// engine tidak retry sendiri.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}
