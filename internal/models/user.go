package models

// Role is the authorization role of a user within the fund.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// Status is the membership state of a user profile.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// User represents the profile of a signed-in identity.
//
// Profiles are keyed by the identity id, so two near-simultaneous first
// sign-ins of the same identity write the same document. Profiles are never
// deleted; removing a member sets Status to StatusRejected.
type User struct {
	// ID is the identity id issued by the identity provider.
	ID string

	// DisplayName is the human-readable name of the user.
	DisplayName string

	// Email is the user's email address as reported by the identity provider.
	Email string

	// Role is member for everyone except fund administrators.
	Role Role

	// Status gates access to the ledger. Only approved users see the fund.
	Status Status
}

// NewPendingUser returns the profile created on a first sign-in.
func NewPendingUser(id, displayName, email string) *User {
	return &User{
		ID:          id,
		DisplayName: displayName,
		Email:       email,
		Role:        RoleMember,
		Status:      StatusPending,
	}
}

// Name returns the display name, falling back to the email and then the id.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
