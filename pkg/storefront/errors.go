package storefront

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrProductFetch is returned when the catalog is unreachable or answers
	// with a non-OK status
	ErrProductFetch = errors.New("failed to fetch products")

	// ErrProductNotFound is returned when a SKU is absent from the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderSubmission is returned when the order endpoint answers with a
	// non-OK status
	ErrOrderSubmission = errors.New("order submission failed")

	// ErrOrderNotFound is returned when an order number is unknown
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnauthorized is returned when the server rejects the session token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAuthFailed is returned when an OTP request or verification fails
	ErrAuthFailed = errors.New("authentication failed")
)
