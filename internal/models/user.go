package models

import "time"

// UserRole represents the roles recognised by the auth subsystem.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User is the account record shared with the external auth subsystem.
type User struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	EmailVerified bool      `db:"email_verified" json:"emailVerified"`
	Image         *string   `db:"image" json:"image"`
	ImageCldPubID *string   `db:"image_cld_pub_id" json:"imageCldPubId"`
	Role          UserRole  `db:"role" json:"role"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Search string
	Role   UserRole
	Page   int
	Limit  int
}

// RosterScope selects which entity a role roster is resolved against.
type RosterScope string

const (
	RosterScopeClass   RosterScope = "class"
	RosterScopeSubject RosterScope = "subject"
)

// RosterFilter lists the teachers or students attached to a class or subject.
type RosterFilter struct {
	Scope   RosterScope
	ScopeID int64
	Role    UserRole
	Page    int
	Limit   int
}
