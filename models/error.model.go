package models

// ErrorKind is the machine-readable classification carried by every error
// response, alongside a human-readable message.
type ErrorKind string

const (
	ErrInvalidJSON     ErrorKind = "InvalidJSON"
	ErrMissingFields   ErrorKind = "MissingFields"
	ErrInvalidAmount   ErrorKind = "InvalidAmount"
	ErrInvalidType     ErrorKind = "InvalidType"
	ErrInvalidDate     ErrorKind = "InvalidDate"
	ErrMissingOwner    ErrorKind = "MissingOwner"
	ErrInvalidCode     ErrorKind = "InvalidCode"
	ErrUnauthorized    ErrorKind = "Unauthorized"
	ErrNotFound        ErrorKind = "NotFound"
	ErrNotConfigured   ErrorKind = "NotConfigured"
	ErrInternal        ErrorKind = "Internal"
	ErrStoreFailure    ErrorKind = "StoreFailure"
	ErrUpstreamFailure ErrorKind = "UpstreamFailure"
)

type APIError struct {
	Kind     ErrorKind `json:"error"`
	Message  string    `json:"message"`
	Required []string  `json:"required,omitempty"`
	Received []string  `json:"received,omitempty"`
	Details  string    `json:"details,omitempty"`
}
