package emailclient

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrInvalidConfig is returned by constructors for unusable settings.
	ErrInvalidConfig = errors.New("emailclient: invalid configuration")
	// ErrTransport matches any DispatchError of KindTransport.
	ErrTransport = errors.New("emailclient: transport failure")
	// ErrProviderRejected matches any DispatchError of KindProviderRejected.
	ErrProviderRejected = errors.New("emailclient: provider rejected request")
)

// DispatchKind classifies a failed send.
type DispatchKind int

const (
	// KindTransport covers DNS, connection, TLS, timeout and cancellation failures.
	KindTransport DispatchKind = iota + 1
	// KindProviderRejected means the provider answered with a non-2xx status.
	KindProviderRejected
)

func (k DispatchKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProviderRejected:
		return "provider_rejected"
	default:
		return "unknown"
	}
}

// DispatchError is returned by SendEmail for every failed attempt.
type DispatchError struct {
	Kind DispatchKind
	// StatusCode is set for KindProviderRejected when the provider returned one.
	StatusCode int
	Err        error
}

func (e *DispatchError) Error() string {
	switch e.Kind {
	case KindProviderRejected:
		if e.StatusCode != 0 {
			return fmt.Sprintf("email provider rejected request with status %d", e.StatusCode)
		}
		return fmt.Sprintf("email provider rejected request: %v", e.Err)
	default:
		return fmt.Sprintf("email dispatch transport failure: %v", e.Err)
	}
}

func (e *DispatchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	switch e.Kind {
	case KindTransport:
		errs = append(errs, ErrTransport)
	case KindProviderRejected:
		errs = append(errs, ErrProviderRejected)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Timeout reports whether the failure was the client timeout firing.
func (e *DispatchError) Timeout() bool {
	var netErr net.Error
	return e.Kind == KindTransport && errors.As(e.Err, &netErr) && netErr.Timeout()
}

func transportError(err error) *DispatchError {
	return &DispatchError{Kind: KindTransport, Err: err}
}

func rejectedError(status int, err error) *DispatchError {
	return &DispatchError{Kind: KindProviderRejected, StatusCode: status, Err: err}
}
