package engine

import "errors"

var (
	// ErrInvalidInput is returned before any month is simulated.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNumericAnomaly means a payment would drive a balance below zero by
	// more than a cent. The payment cap makes this unreachable.
	ErrNumericAnomaly = errors.New("numeric anomaly")
)
