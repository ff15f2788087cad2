// Package verification issues and checks short-lived emailed codes used by
// password resets.
package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Purpose namespaces codes so a driver reset code cannot reset a customer.
type Purpose string

const (
	PurposeUserPasswordReset   Purpose = "user-password-reset"
	PurposeDriverPasswordReset Purpose = "driver-password-reset"
)

// DefaultTTL bounds how long an emailed code is accepted.
const DefaultTTL = 15 * time.Minute

var (
	ErrCodeNotFound = errors.New("verification code not found")
	ErrCodeExpired  = errors.New("verification code expired")
	ErrInvalidCode  = errors.New("invalid verification code")
)

// Code is a pending verification for one email address.
type Code struct {
	Email     string
	Value     string
	ExpiresAt time.Time
}

// Store keeps at most one code per purpose and email.
type Store interface {
	Save(ctx context.Context, purpose Purpose, code Code) error
	Get(ctx context.Context, purpose Purpose, email string) (*Code, error)
	Delete(ctx context.Context, purpose Purpose, email string) error
}

// NewCode returns a random six digit code.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Consume checks value against the stored code and deletes it on success.
// An expired code is deleted as well.
func Consume(ctx context.Context, store Store, purpose Purpose, email, value string, now time.Time) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrInvalidCode
	}
	code, err := store.Get(ctx, purpose, email)
	if err != nil {
		return err
	}
	if !now.Before(code.ExpiresAt) {
		_ = store.Delete(ctx, purpose, email)
		return ErrCodeExpired
	}
	if code.Value != value {
		return ErrInvalidCode
	}
	return store.Delete(ctx, purpose, email)
}
