package serviceerr

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrConflict = errors.New("already exists")
var ErrNotFound = errors.New("not found")
var ErrReservedIdentifier = errors.New("reserved identifier")
var ErrSessionExpired = errors.New("session expired")
var ErrUnauthorized = errors.New("unauthorized")

// AuthError carries the identity provider's rejection message verbatim so
// that it reaches the user unchanged.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// ProfileProvisioningError reports the second step of the signup saga
// failing after the identity was already created. The identity stands and
// is not rolled back; callers treat this as a degraded success.
type ProfileProvisioningError struct {
	UserID string
	Err    error
}

func (e *ProfileProvisioningError) Error() string {
	return fmt.Sprintf("provisioning client profile for user %s: %v", e.UserID, e.Err)
}

func (e *ProfileProvisioningError) Unwrap() error {
	return e.Err
}

// DataLoadError wraps the first failed read of a dashboard load cycle. Reads
// that completed before the failure keep their results.
type DataLoadError struct {
	Collection string
	Err        error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Collection, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps a service error to the status code the HTTP API responds
// with. A ProfileProvisioningError is deliberately absent: the signup it
// belongs to still succeeds.
func HTTPStatus(err error) int {
	var authErr *AuthError
	var loadErr *DataLoadError

	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrReservedIdentifier):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrSessionExpired):
		return http.StatusGone
	case errors.As(err, &loadErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
