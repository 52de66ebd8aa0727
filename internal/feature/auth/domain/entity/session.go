package entity

import "time"

// Session represents one authenticated browser session.
// Its ID is the opaque value stored in the client's session cookie;
// authorization for protected routes is re-checked against the stored
// session on every request.
type Session struct {
	ID        string     // Opaque session token (UUID)
	UserID    uint       // Owning user ID
	UserAgent string     // Client's User-Agent header at login
	IPAddress string     // Client's IP address at login
	CreatedAt time.Time  // Session creation time
	ExpiresAt time.Time  // Session expiration time
	RevokedAt *time.Time // Revocation time (nil while active)
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsRevoked returns true if the session has been revoked by a logout.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid returns true if the session is neither expired nor revoked.
func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}
