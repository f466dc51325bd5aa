package model

// UpstreamError wraps a transport or HTTP failure from the guard-tour
// service behind a fixed, user-safe message. The raw cause is retained for
// logging via Unwrap but must never reach chat output.
type UpstreamError struct {
	Message string
	Err     error
}

// NewUpstreamError wraps err behind the given user-safe message.
func NewUpstreamError(message string, err error) *UpstreamError {
	return &UpstreamError{Message: message, Err: err}
}

func (e *UpstreamError) Error() string { return e.Message }

func (e *UpstreamError) Unwrap() error { return e.Err }
