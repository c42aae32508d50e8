package users

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailTaken  = errors.New("user already exists")
	ErrInvalidUser = errors.New("invalid user")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// NewUser memvalidasi field saat konstruksi; hash password diisi terpisah
// oleh AuthService.
func NewUser(email, firstName, lastName string, role Role) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email", ErrInvalidUser)
	}
	if len(strings.TrimSpace(firstName)) < 2 {
		return nil, fmt.Errorf("%w: first name too short", ErrInvalidUser)
	}
	if len(strings.TrimSpace(lastName)) < 2 {
		return nil, fmt.Errorf("%w: last name too short", ErrInvalidUser)
	}
	if role == "" {
		role = RoleClient
	}
	if role != RoleAdmin && role != RoleClient {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidUser, role)
	}
	return &User{
		Email:     email,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      role,
	}, nil
}
