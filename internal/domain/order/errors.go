package order

import "errors"

var (
	ErrNoActiveOrder   = errors.New("no active order")
	ErrOrderLocked     = errors.New("order is assigned to a delivery person and cannot be modified")
	ErrItemNotFound    = errors.New("order item not found")
	ErrGroupNotFound   = errors.New("menu group not found")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)
