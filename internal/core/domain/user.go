package domain

import (
	"errors"
	"time"
)

// Canonical role set. The "All" wildcard is only valid as a notification
// visibility tag, never as a user role.
const (
	RoleAdmin   = "Admin"
	RoleOfficer = "Officer"
	RoleCitizen = "Citizen"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

var ErrValidation = errors.New("validation failed")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnauthorized = errors.New("unauthorized")

// User models an account in the portal. Accounts created through the Google
// flow get a hashed random placeholder password; login for them proceeds only
// through the provider.
type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	GoogleID           string     `json:"google_id,omitempty"`
	FirstName          string     `json:"first_name,omitempty"`
	LastName           string     `json:"last_name,omitempty"`
	Gender             string     `json:"gender,omitempty"`
	Role               string     `json:"role,omitempty"`
	ProfilePic         string     `json:"profile_pic,omitempty"`
	GoogleAccessToken  string     `json:"-"`
	GoogleRefreshToken string     `json:"-"`
	LoggedIn           bool       `json:"logged_in"`
	Active             bool       `json:"active"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ProfileComplete reports whether the account has finished first-login setup.
// Gender and role are both unset for users created through the Google flow.
func (u *User) ProfileComplete() bool {
	return u.Gender != "" && u.Role != ""
}

// ValidRole reports whether r is one of the canonical user roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleOfficer || r == RoleCitizen
}

// ValidGender reports whether g is one of the accepted gender values.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// ApplyRolePolicy enforces role-derived account state: Admin accounts are
// always active, regardless of what the caller supplied. Invoked before
// every persisted write.
func ApplyRolePolicy(u *User) {
	if u.Role == RoleAdmin {
		u.Active = true
	}
}
