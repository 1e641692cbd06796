package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed remote call.
type ErrorKind int

const (
	// NetworkFailure means no response reached the client.
	NetworkFailure ErrorKind = iota + 1

	// Rejected means the server answered with a non-2xx status.
	Rejected

	// MalformedResponse means a 2xx body could not be decoded.
	MalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case Rejected:
		return "rejected"
	case MalformedResponse:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Error is the typed outcome of a failed remote call.
type Error struct {
	Kind    ErrorKind
	Op      string // e.g. "GET /workspaces"
	Status  int    // HTTP status for Rejected
	Message string // optional server-provided message
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case Rejected:
		if e.Message != "" {
			return fmt.Sprintf("%s: %d: %s", e.Op, e.Status, e.Message)
		}
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool { return KindOf(err) == NetworkFailure }

// IsRejected reports whether err is a non-2xx response.
func IsRejected(err error) bool { return KindOf(err) == Rejected }

// IsMalformed reports whether err is an undecodable response.
func IsMalformed(err error) bool { return KindOf(err) == MalformedResponse }

// StatusOf returns the HTTP status of a rejected call, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == Rejected {
		return e.Status
	}
	return 0
}

// MessageOf returns the server-provided message of a rejected call, if any.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
