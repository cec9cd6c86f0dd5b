// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and travel in the error envelope next to
// the status so clients can branch without parsing messages:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "validation",
//	  "message": "frequency_per_week must be between 1 and 7"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// ErrCodeValidation reports input the core rejected (bad frequency,
	// malformed date, empty title).
	ErrCodeValidation = "validation"
	// ErrCodeUnavailable means storage stayed locked past the retry budget;
	// the request is safe to retry.
	ErrCodeUnavailable = "unavailable"
)
