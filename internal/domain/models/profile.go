package models

import "time"

// Role determines which mutating operations an actor may perform.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// ValidRole reports whether the value is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Profile is an authenticated actor of the back office.
type Profile struct {
	ID           string    `bson:"_id" json:"id"`
	Role         Role      `bson:"role" json:"role"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Actor is the resolved identity attached to a request.
type Actor struct {
	ID   string
	Role Role
	Name string
}

// ProfilePatch carries a partial profile update.
type ProfilePatch struct {
	Role  *Role   `json:"role,omitempty"`
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Apply merges the patch into a copy of the profile.
func (p ProfilePatch) Apply(pr Profile) Profile {
	if p.Role != nil {
		pr.Role = *p.Role
	}
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Email != nil {
		pr.Email = *p.Email
	}
	return pr
}
