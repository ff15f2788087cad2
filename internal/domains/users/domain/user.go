package domain

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role determines which API areas an account may reach.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleDriver   Role = "driver"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
	ErrInvalidRole   = errors.New("role is invalid")
)

// User is a customer or administrator account.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	NickName     string
	DateOfBirth  string
	Gender       string
	Image        string
}

// ProfileUpdate carries self-service profile edits. Blank fields are ignored.
type ProfileUpdate struct {
	Name        string
	NickName    string
	DateOfBirth string
	Phone       string
	Gender      string
	Image       string
}

// ApplyProfile overwrites every non-blank field of p.
func (u *User) ApplyProfile(p ProfileUpdate) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&u.Name, p.Name)
	set(&u.NickName, p.NickName)
	set(&u.DateOfBirth, p.DateOfBirth)
	set(&u.Phone, p.Phone)
	set(&u.Gender, p.Gender)
	set(&u.Image, p.Image)
}

// NewUser builds a user ensuring required invariants and hashing the password.
func NewUser(id, name, email, phone, password string, role Role) (*User, error) {
	user := &User{ID: id, Phone: strings.TrimSpace(phone)}
	if err := user.Rename(name); err != nil {
		return nil, err
	}
	if err := user.ChangeEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := user.SetRole(role); err != nil {
		return nil, err
	}
	return user, nil
}

// Rename trims and validates the display name.
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.Name = name
	return nil
}

// ChangeEmail normalises the email to lower case.
func (u *User) ChangeEmail(email string) error {
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// SetPassword validates strength and stores a bcrypt hash.
func (u *User) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < 6 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// SetRole defaults to customer.
func (u *User) SetRole(role Role) error {
	if role == "" {
		role = RoleCustomer
	}
	switch role {
	case RoleCustomer, RoleAdmin:
	default:
		return ErrInvalidRole
	}
	u.Role = role
	return nil
}

// CheckPassword compares the supplied password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	password = strings.TrimSpace(password)
	if password == "" || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
