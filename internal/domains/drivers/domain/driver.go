package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// VehicleType classifies the vehicle a driver operates.
type VehicleType string

const (
	VehicleBike  VehicleType = "bike"
	VehicleCar   VehicleType = "car"
	VehicleVan   VehicleType = "van"
	VehicleTruck VehicleType = "truck"
)

// Valid reports whether v is a supported vehicle type.
func (v VehicleType) Valid() bool {
	switch v {
	case VehicleBike, VehicleCar, VehicleVan, VehicleTruck:
		return true
	}
	return false
}

// Status is the administrative approval state of a driver account.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var (
	ErrEmptyUsername      = errors.New("username is required")
	ErrInvalidEmail       = errors.New("email is invalid")
	ErrEmptyPhone         = errors.New("phone is required")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and include uppercase, lowercase, number, and special character")
	ErrInvalidVehicleType = errors.New("vehicle type must be one of bike, car, van, truck")
	ErrEmptyVehicleNumber = errors.New("vehicle number is required")
	ErrEmptyIDProof       = errors.New("id proof is required")
	ErrInvalidStatus      = errors.New("status must be approved or rejected")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Driver is an approved, pending or rejected courier account.
type Driver struct {
	ID            string
	Username      string
	Email         string
	Phone         string
	PasswordHash  string
	VehicleType   VehicleType
	VehicleNumber string
	IDProof       string
	Status        Status
	PushToken     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Approved reports whether the driver may log in and receive shipments.
func (d *Driver) Approved() bool {
	return d != nil && d.Status == StatusApproved
}

// CheckPassword compares password against the stored bcrypt hash.
func (d *Driver) CheckPassword(password string) bool {
	if d == nil || d.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)) == nil
}

// Decision is the status an administrator may set.
func (s Status) Decision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Registration holds sign-up data awaiting email verification.
type Registration struct {
	Username      string
	Email         string
	Phone         string
	PasswordHash  string
	VehicleType   VehicleType
	VehicleNumber string
	IDProof       string
	Code          string
	ExpiresAt     time.Time
}

// RegistrationInput is the raw sign-up request.
type RegistrationInput struct {
	Username      string
	Email         string
	Phone         string
	Password      string
	VehicleType   VehicleType
	VehicleNumber string
	IDProof       string
}

// NewRegistration validates input, hashes the password and attaches the code.
func NewRegistration(in RegistrationInput, code string, expiresAt time.Time) (*Registration, error) {
	reg := &Registration{
		Username:      strings.TrimSpace(in.Username),
		Email:         NormalizeEmail(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		VehicleType:   VehicleType(strings.ToLower(strings.TrimSpace(string(in.VehicleType)))),
		VehicleNumber: NormalizeVehicleNumber(in.VehicleNumber),
		IDProof:       strings.TrimSpace(in.IDProof),
		Code:          code,
		ExpiresAt:     expiresAt,
	}
	switch {
	case reg.Username == "":
		return nil, ErrEmptyUsername
	case !emailPattern.MatchString(reg.Email):
		return nil, ErrInvalidEmail
	case reg.Phone == "":
		return nil, ErrEmptyPhone
	case !StrongPassword(in.Password):
		return nil, ErrWeakPassword
	case !reg.VehicleType.Valid():
		return nil, ErrInvalidVehicleType
	case reg.VehicleNumber == "":
		return nil, ErrEmptyVehicleNumber
	case reg.IDProof == "":
		return nil, ErrEmptyIDProof
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	reg.PasswordHash = string(hash)
	return reg, nil
}

// HashPassword enforces StrongPassword and returns the bcrypt hash.
func HashPassword(password string) (string, error) {
	if !StrongPassword(password) {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Expired reports whether the verification code can no longer be used.
func (r *Registration) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// ToDriver converts a verified registration into a pending driver.
func (r *Registration) ToDriver(id string, now time.Time) *Driver {
	return &Driver{
		ID:            id,
		Username:      r.Username,
		Email:         r.Email,
		Phone:         r.Phone,
		PasswordHash:  r.PasswordHash,
		VehicleType:   r.VehicleType,
		VehicleNumber: r.VehicleNumber,
		IDProof:       r.IDProof,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// StrongPassword requires 8+ characters with lower, upper, digit and symbol.
func StrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeVehicleNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}
