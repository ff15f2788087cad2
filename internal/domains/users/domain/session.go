package domain

import "time"

// Session binds a bearer token to an authenticated subject.
type Session struct {
	Token     string
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Principal is the identity attached to an authenticated request.
type Principal struct {
	Subject string
	Role    Role
}
