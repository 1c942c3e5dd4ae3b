package core

import "errors"

var (
	// ErrInvalidAmount is returned when a payment amount is not positive or
	// exceeds the balance it is applied against.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNoOutstandingBalance is returned when a bulk payment targets a vehicle
	// whose services are all settled.
	ErrNoOutstandingBalance = errors.New("no outstanding balance")

	// ErrMalformedDescription is returned by ParseServiceList. Formatting code
	// recovers from it by falling back to the raw description.
	ErrMalformedDescription = errors.New("malformed multi-service description")
)

// Placeholder is substituted in report rows for references that cannot be resolved.
const Placeholder = "N/A"
