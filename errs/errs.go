package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed required field, or a
// state-transition guard violation. Detected before any side effect.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports an ownership mismatch or a missing connected
// account for a requested platform.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

func Authorization(format string, args ...any) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an absent content, schedule or analytics record.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ProviderUnavailableError reports that no configured provider satisfies a
// requested capability.
type ProviderUnavailableError struct {
	Capability string
}

func (e *ProviderUnavailableError) Error() string {
	return "no " + e.Capability + " provider available"
}

// ExternalServiceError wraps a failed AI-provider or platform call,
// preserving the service name and the underlying cause.
type ExternalServiceError struct {
	Service string
	Phase   string // optional, for multi-phase adapter calls
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e.Phase != "" {
		return fmt.Sprintf("%s: %s failed: %v", e.Service, e.Phase, e.Err)
	}
	return fmt.Sprintf("%s call failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func External(service string, err error) error {
	return &ExternalServiceError{Service: service, Err: err}
}

func ExternalPhase(service, phase string, err error) error {
	return &ExternalServiceError{Service: service, Phase: phase, Err: err}
}

// UnsupportedPlatformError reports a platform with no adapter.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return "platform not supported: " + e.Platform
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsAuthorization(err error) bool {
	var a *AuthorizationError
	return errors.As(err, &a)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsProviderUnavailable(err error) bool {
	var p *ProviderUnavailableError
	return errors.As(err, &p)
}

func IsExternal(err error) bool {
	var x *ExternalServiceError
	return errors.As(err, &x)
}

func IsUnsupportedPlatform(err error) bool {
	var u *UnsupportedPlatformError
	return errors.As(err, &u)
}
