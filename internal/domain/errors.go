package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks configuration validation failures.
var ErrInvalidConfig = errors.New("invalid config")

// ErrorKind is a coarse-grained categorization for errors.
//
// The fprint kinds mirror the device service's error namespace one to one;
// the remaining kinds classify local failures (config, filesystem).
type ErrorKind string

const (
	KindPermissionDenied ErrorKind = "permission_denied"
	KindAlreadyInUse     ErrorKind = "already_in_use"
	KindInternal         ErrorKind = "internal"
	KindNoEnrolledPrints ErrorKind = "no_enrolled_prints"
	KindClaimDevice      ErrorKind = "claim_device"
	KindPrintsNotDeleted ErrorKind = "prints_not_deleted"
	KindTimeout          ErrorKind = "timeout"
	KindDeviceNotFound   ErrorKind = "device_not_found"
	KindConnectDbus      ErrorKind = "connect_dbus"
	KindUnknown          ErrorKind = "unknown"

	KindNotFound      ErrorKind = "not_found"
	KindInvalidConfig ErrorKind = "invalid_config"
)

// RemoteErrorPrefix is the error namespace used by the fingerprint service.
const RemoteErrorPrefix = "net.reactivated.Fprint.Error."

var remoteKinds = map[string]ErrorKind{
	RemoteErrorPrefix + "PermissionDenied": KindPermissionDenied,
	RemoteErrorPrefix + "AlreadyInUse":     KindAlreadyInUse,
	RemoteErrorPrefix + "Internal":         KindInternal,
	RemoteErrorPrefix + "NoEnrolledPrints": KindNoEnrolledPrints,
	RemoteErrorPrefix + "ClaimDevice":      KindClaimDevice,
	RemoteErrorPrefix + "PrintsNotDeleted": KindPrintsNotDeleted,
	RemoteErrorPrefix + "Timeout":          KindTimeout,
	RemoteErrorPrefix + "DeviceNotFound":   KindDeviceNotFound,
}

// KindFromRemoteName maps a remote error name to its kind.
// The boolean is false for names outside the fprint error namespace.
func KindFromRemoteName(name string) (ErrorKind, bool) {
	k, ok := remoteKinds[name]
	return k, ok
}

// Error is the structured error reported to the presentation layer.
// Only KindConnectDbus and KindUnknown carry a Detail.
type Error struct {
	Kind   ErrorKind
	Detail string
}

// NewError returns a payload-free error of the given kind.
func NewError(kind ErrorKind) *Error {
	return &Error{Kind: kind}
}

// Unknown wraps raw diagnostic text.
func Unknown(msg string) *Error {
	return &Error{Kind: KindUnknown, Detail: msg}
}

// ConnectDbus reports a failure to reach the bus.
func ConnectDbus(detail string) *Error {
	return &Error{Kind: KindConnectDbus, Detail: detail}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message()
}

// Message returns the fixed status line for the error kind.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindPermissionDenied:
		return "Permission denied."
	case KindAlreadyInUse:
		return "Device is already in use by another application."
	case KindInternal:
		return "Internal error in the fingerprint service."
	case KindNoEnrolledPrints:
		return "No fingerprints enrolled."
	case KindClaimDevice:
		return "Could not claim the fingerprint device."
	case KindPrintsNotDeleted:
		return "Fingerprints could not be deleted."
	case KindTimeout:
		return "The operation timed out."
	case KindDeviceNotFound:
		return "Fingerprint device not found."
	case KindConnectDbus:
		return fmt.Sprintf("Failed to connect to the system bus: %s", e.Detail)
	default:
		return e.Detail
	}
}

// WithContext prepends note to an Unknown error's message.
// Every other kind keeps its fixed message and is returned unchanged.
func (e *Error) WithContext(note string) *Error {
	if e == nil || e.Kind != KindUnknown {
		return e
	}
	return &Error{Kind: KindUnknown, Detail: note + ": " + e.Detail}
}

// AsError converts any error into a structured one.
// Structured errors (possibly wrapped) pass through; anything else becomes Unknown.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return Unknown(err.Error())
}

// OpError wraps an underlying local error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}
