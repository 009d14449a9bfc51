package serviceerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zenorapm/zenora/internal/serviceerr"
)

func TestAuthError_Error(t *testing.T) {
	err := &serviceerr.AuthError{Message: "Invalid login credentials"}
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestProfileProvisioningError_Unwrap(t *testing.T) {
	cause := errors.New("insert failed")
	err := &serviceerr.ProfileProvisioningError{UserID: "user-1", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "user-1")
}

func TestDataLoadError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &serviceerr.DataLoadError{Collection: "properties", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "properties")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "auth error",
			err:        &serviceerr.AuthError{Message: "Invalid login credentials"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrapped auth error",
			err:        fmt.Errorf("signing in: %w", &serviceerr.AuthError{Message: "nope"}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unauthorized",
			err:        serviceerr.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "reserved identifier",
			err:        serviceerr.ErrReservedIdentifier,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "not found",
			err:        serviceerr.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "conflict",
			err:        serviceerr.ErrConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "session expired",
			err:        serviceerr.ErrSessionExpired,
			wantStatus: http.StatusGone,
		},
		{
			name:       "data load error",
			err:        &serviceerr.DataLoadError{Collection: "documents", Err: errors.New("boom")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, serviceerr.HTTPStatus(tt.err))
		})
	}
}
