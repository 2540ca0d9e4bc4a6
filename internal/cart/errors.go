package cart

import (
	"errors"
	"fmt"
)

var (
	ErrFetchFailed         = errors.New("fetch cart failed")
	ErrUpdateFailed        = errors.New("update quantity failed")
	ErrRemoveFailed        = errors.New("remove item failed")
	ErrClearFailed         = errors.New("clear cart failed")
	ErrAddFailed           = errors.New("add item failed")
	ErrOrderCreationFailed = errors.New("order creation failed")

	ErrOperationInProgress = errors.New("operation already in progress")
	ErrStockLimitExceeded  = errors.New("stock limit exceeded")
	ErrLineNotFound        = errors.New("product is not in the cart")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
)

// StockLimitError is returned before any request is sent when the requested
// quantity exceeds the stock snapshot of the line.
type StockLimitError struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("only %d in stock for product %s, requested %d", e.Available, e.ProductID, e.Requested)
}

func (e *StockLimitError) Is(target error) bool {
	return target == ErrStockLimitExceeded
}

// OperationError wraps a remote failure. Op is one of the Err*Failed sentinels,
// Message is safe to show to the user.
type OperationError struct {
	Op      error
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%v: %s: %v", e.Op, e.Message, e.Err)
}

func (e *OperationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Op}
	}
	return []error{e.Op, e.Err}
}
