package session

import "fmt"

// SessionCause classifies why a session could not be established or used.
type SessionCause int

const (
	SessionCauseUnclassified SessionCause = iota
	SessionCauseAuth
	SessionCauseMaintenance
	SessionCauseTimeout
	SessionCauseCertificate
)

func (c SessionCause) String() string {
	switch c {
	case SessionCauseAuth:
		return "authentication"
	case SessionCauseMaintenance:
		return "maintenance"
	case SessionCauseTimeout:
		return "timeout"
	case SessionCauseCertificate:
		return "certificate"
	default:
		return "unclassified"
	}
}

// SessionError is the closed failure type for session establishment and
// session-level calls. The underlying cause is preserved for diagnostics.
type SessionError struct {
	Cause SessionCause
	Err   error
}

func (e *SessionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("session unavailable (%s)", e.Cause)
	}
	return fmt.Sprintf("session unavailable (%s): %v", e.Cause, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// NewSessionError wraps err with a session failure cause.
func NewSessionError(cause SessionCause, err error) *SessionError {
	return &SessionError{Cause: cause, Err: err}
}

// OrderCause classifies a submission-time failure.
type OrderCause int

const (
	OrderCauseUnclassified OrderCause = iota
	OrderCauseContractGone
	OrderCauseTimeout
	OrderCauseNotAuthorized
	OrderCauseRejected
)

func (c OrderCause) String() string {
	switch c {
	case OrderCauseContractGone:
		return "contract not exist"
	case OrderCauseTimeout:
		return "timeout"
	case OrderCauseNotAuthorized:
		return "account not authorized"
	case OrderCauseRejected:
		return "rejected"
	default:
		return "unclassified"
	}
}

// OrderError is the closed failure type for order submission. All sub-causes
// surface uniformly to callers; the cause is kept for logging and metrics.
type OrderError struct {
	Cause OrderCause
	Err   error
}

func (e *OrderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("order failed (%s)", e.Cause)
	}
	return fmt.Sprintf("order failed (%s): %v", e.Cause, e.Err)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError wraps err with an order failure cause.
func NewOrderError(cause OrderCause, err error) *OrderError {
	return &OrderError{Cause: cause, Err: err}
}
