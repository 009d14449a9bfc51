package client

import "time"

// Profile is the backend-owned record keyed by the identity's user id. At
// most one row exists per user id; creation happens once at signup time and
// is best-effort.
type Profile struct {
	ID        string
	Email     string
	FullName  string
	Phone     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
