package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest covers non-positive quantities and empty updates.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound means the referenced sweet does not exist.
	ErrNotFound = errors.New("sweet not found")

	// ErrForbidden means the caller's role does not permit the operation.
	ErrForbidden = errors.New("not enough permissions")

	// ErrTransactionFailed means a store write was rejected; any earlier
	// write of the same operation has been compensated.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrDegradedState means a purchase insert failed AND the compensating
	// quantity restore also failed: stock is decremented with no matching
	// purchase record. Requires manual reconciliation.
	ErrDegradedState = errors.New("degraded state: stock decremented without purchase record")
)

// InsufficientStockError reports how many units were actually available so
// the caller can adjust the request.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock, available: %d", e.Available)
}
