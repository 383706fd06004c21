package common

// Reasons reported by the data source in the error envelope
const (
	ReasonInvalidRequest = "invalid_request"
	ReasonUnknownView    = "unknown_view"
	ReasonInternalError  = "internal_error"
)

// RequestError is an error reported back to the client with a reason code
type RequestError struct {
	Reason  string
	Message string
}

// Error returns the error message
func (e *RequestError) Error() string {
	return e.Reason + ": " + e.Message
}

// NewRequestError creates a request error
func NewRequestError(reason string, message string) *RequestError {
	return &RequestError{
		Reason:  reason,
		Message: message,
	}
}
