// Package faults defines the closed error taxonomy shared by the client-state
// components and the backend gateway. Every fallible operation resolves to a
// success value or a Fault; handlers switch on the kind instead of probing
// response shapes.
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind enumerates the failure classes surfaced to handlers.
type Kind int

const (
	// KindUnknown covers errors produced outside this taxonomy.
	KindUnknown Kind = iota
	// KindValidation is malformed input caught before any network call.
	KindValidation
	// KindCapacity is a cart mutation rejected or clamped by a stock ceiling.
	KindCapacity
	// KindAuth is a 401/403-class response; protected flows redirect to login.
	KindAuth
	// KindBusiness is a 4xx response whose message is shown verbatim.
	KindBusiness
	// KindTransport is a network failure or 5xx; retry at the user's discretion.
	KindTransport
)

// String names the kind for logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCapacity:
		return "capacity"
	case KindAuth:
		return "auth"
	case KindBusiness:
		return "business"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Fault carries a classified, human-readable failure.
type Fault struct {
	Kind    Kind
	Message string
	// Status is the backend HTTP status when the fault originated remotely.
	Status int
	err    error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Message != "" {
		return fmt.Sprintf("%s: %s", f.Kind, f.Message)
	}
	if f.err != nil {
		return fmt.Sprintf("%s: %v", f.Kind, f.err)
	}
	return f.Kind.String()
}

// Unwrap exposes the underlying error, if any.
func (f *Fault) Unwrap() error { return f.err }

// Validation builds a client-local validation fault.
func Validation(message string) *Fault {
	return &Fault{Kind: KindValidation, Message: message}
}

// Capacity builds a stock-ceiling fault.
func Capacity(message string) *Fault {
	return &Fault{Kind: KindCapacity, Message: message}
}

// Auth builds an authentication/authorization fault.
func Auth(status int, message string) *Fault {
	if message == "" {
		message = "please sign in to continue"
	}
	return &Fault{Kind: KindAuth, Message: message, Status: status}
}

// Business wraps a backend-reported 4xx whose message is displayed verbatim.
func Business(status int, message string) *Fault {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Fault{Kind: KindBusiness, Message: message, Status: status}
}

// Transport wraps a network or 5xx failure behind a generic message.
func Transport(err error) *Fault {
	return &Fault{Kind: KindTransport, Message: "request failed, please try again", err: err}
}

// KindOf classifies err, returning KindUnknown for errors outside this
// taxonomy.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing message for err, falling back to a
// generic failure line.
func MessageOf(err error) string {
	var f *Fault
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return "something went wrong, please try again"
}
