package domain

import "errors"

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidObservation  = errors.New("invalid observation")
)
