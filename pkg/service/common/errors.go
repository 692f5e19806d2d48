// Package common holds types shared by all services, most importantly the
// tagged error kinds that transport layers map to wire-level responses.
package common

import (
	"github.com/pkg/errors"
)

// Kind classifies a service failure. Transport mapping (4xx vs 5xx and the
// OID4VCI error code) is a pure function of the kind, never of the
// underlying error's type identity.
type Kind string

const (
	// KindInvalidRequest indicates malformed or missing input.
	KindInvalidRequest Kind = "invalid_request"
	// KindUnauthorized indicates an invalid, expired, or revoked access token.
	KindUnauthorized Kind = "unauthorized"
	// KindInsufficientScope indicates a verified token missing a required scope.
	KindInsufficientScope Kind = "insufficient_scope"
	// KindNotFound indicates an unknown configuration, offer, or resource.
	KindNotFound Kind = "not_found"
	// KindDependencyUnavailable indicates a required collaborator is not wired.
	KindDependencyUnavailable Kind = "dependency_unavailable"
	// KindUpstreamFailure indicates a collaborator call failed.
	KindUpstreamFailure Kind = "upstream_failure"
	// KindUnsupported indicates a format with no registered handler.
	KindUnsupported Kind = "unsupported"
	// KindSigningFailure indicates a cryptographic operation failed.
	KindSigningFailure Kind = "signing_failure"
	// KindUnknown is returned for errors that carry no kind.
	KindUnknown Kind = "unknown"
)

// Error is a service error tagged with a Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a tagged error with the given message.
func NewError(kind Kind, msg string) error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

// NewErrorf creates a tagged error with a formatted message.
func NewErrorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

// WrapError wraps err with a message and tags the result. A nil err yields
// a new error so callers can wrap unconditionally.
func WrapError(kind Kind, err error, msg string) error {
	if err == nil {
		return NewError(kind, msg)
	}
	return &Error{Kind: kind, Err: errors.Wrap(err, msg)}
}

// WrapErrorf wraps err with a formatted message and tags the result.
func WrapErrorf(kind Kind, err error, format string, args ...any) error {
	return WrapError(kind, err, errors.Errorf(format, args...).Error())
}

// KindOf returns the kind of an error, unwrapping as needed. Untagged errors
// report KindUnknown. When an error is wrapped more than once, the outermost
// tag wins, so boundary reclassification sticks.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindUnknown
}

// IsKind reports whether the error carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsClientError reports whether the kind maps to a 4xx-style response.
func (k Kind) IsClientError() bool {
	switch k {
	case KindInvalidRequest, KindUnauthorized, KindInsufficientScope, KindNotFound, KindUnsupported:
		return true
	default:
		return false
	}
}
