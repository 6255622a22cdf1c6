package models

import "fmt"

var (
	ErrInvalidQuantity    = fmt.Errorf("quantity must be greater than 0")
	ErrInvalidSide        = fmt.Errorf("side must be 'buy' or 'sell'")
	ErrQuoteUnavailable   = fmt.Errorf("market data unavailable")
	ErrInsufficientFunds  = fmt.Errorf("insufficient funds")
	ErrInsufficientShares = fmt.Errorf("insufficient shares")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrOrderNotFound      = fmt.Errorf("order not found")
)
