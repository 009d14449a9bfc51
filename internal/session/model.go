package session

import "time"

// Mirror is the server-side copy of a provider-issued session, keyed by the
// opaque cookie value handed to the browser. The provider stays the owner
// of the session; the mirror only lets the HTTP surface resolve a cookie to
// a user between round-trips.
type Mirror struct {
	ID           string
	UserID       string
	Email        string
	FullName     string
	Admin        bool
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	LastVisited  time.Time
}

func (m Mirror) Expired(now time.Time) bool {
	return now.After(m.Expiry)
}
