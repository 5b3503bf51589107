package models

import (
	"strings"

	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
)

// Role distinguishes library staff from members.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// IsValid checks the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// User is a registered borrower or administrator. Users are immutable once
// created; re-registration and deletion go through the user service.
//
// Password is the stored credential compared by a single equality check.
// There is no authentication protocol beyond that comparison.
type User struct {
	ID       id.UserID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	Password string    `json:"-"`
}

// NewUser constructs a user, validating required fields.
func NewUser(userID id.UserID, name, email string, role Role, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if strings.TrimSpace(userID.String()) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "password is required")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid role")
	}

	return &User{
		ID:       userID,
		Name:     name,
		Email:    email,
		Role:     role,
		Password: password,
	}, nil
}

// CredentialMatches performs the single equality comparison this system uses
// as its credential check.
func (u *User) CredentialMatches(password string) bool {
	return u.Password == password
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
