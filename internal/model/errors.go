package model

import "errors"

var (
	ErrRatingOutOfRange   = errors.New("rating out of range")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrOrderNotReturnable = errors.New("order is not returnable")
	ErrUnknownStatus      = errors.New("unknown order status")
)
