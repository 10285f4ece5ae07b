package model

import "time"

// Role is the closed set of roles a user may hold.  Roles gate access to
// owner and admin endpoints.  Keeping the type closed (constants plus an
// explicit parser) avoids the typo-class bugs that come with comparing raw
// role strings scattered across handlers.
type Role string

const (
	RoleAdmin        Role = "admin"         // platform administrator, moderates listings and may manage any booking
	RoleListingOwner Role = "listing_owner" // owns one or more listings
	RoleCustomer     Role = "customer"      // books listings
)

// ParseRole converts a raw string into a Role.  Unknown values return
// false so callers reject them instead of propagating bad data.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleListingOwner, RoleCustomer:
		return Role(s), true
	}
	return "", false
}

// User represents a row in the `users` table.  The json tags are omitted
// because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name, collected at registration.
//  LastName     – family name, collected at registration.
//  Phone        – optional contact number.
//  Role         – one of the Role constants.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Phone        *string   // users.phone (nullable)
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// FullName joins the user's first and last name for display.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Principal is the authenticated identity attached to a request.  It is
// reconstructed from access-token claims only: email and name were
// verified against the users table when the token was issued, so no
// per-request database lookup is needed and no placeholder values are
// ever fabricated.
type Principal struct {
	ID    uint64 // users.id from the token subject
	Email string // verified email embedded at issuance
	Name  string // verified full name embedded at issuance
	Role  Role   // role claim
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
