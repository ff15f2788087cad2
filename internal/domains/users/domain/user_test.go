package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewUser_HashesPassword(t *testing.T) {
	user, err := NewUser("u-1", " Thandi ", " Thandi@Example.com ", "0821234567", "s3cret!", "")
	require.NoError(t, err)
	require.Equal(t, "Thandi", user.Name)
	require.Equal(t, "thandi@example.com", user.Email)
	require.Equal(t, RoleCustomer, user.Role)
	require.NotEqual(t, "s3cret!", user.PasswordHash)
	require.True(t, user.CheckPassword("s3cret!"))
	require.False(t, user.CheckPassword("wrong"))
}

func TestNewUser_Invariants(t *testing.T) {
	_, err := NewUser("u-1", "", "a@b.c", "", "s3cret!", "")
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewUser("u-1", "A", "invalid", "", "s3cret!", "")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("u-1", "A", "a@b.c", "", "123", "")
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = NewUser("u-1", "A", "a@b.c", "", "123456", RoleDriver)
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	require.False(t, Session{}.Expired(now))
	require.True(t, Session{ExpiresAt: now}.Expired(now))
	require.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
}

func TestUser_ApplyProfileIgnoresBlanks(t *testing.T) {
	user := &User{Name: "Thandi", Phone: "0821234567", Image: "old.png"}
	user.ApplyProfile(ProfileUpdate{Name: " Thandi M ", Image: " ", DateOfBirth: "1990-02-01"})
	require.Equal(t, "Thandi M", user.Name)
	require.Equal(t, "0821234567", user.Phone)
	require.Equal(t, "old.png", user.Image)
	require.Equal(t, "1990-02-01", user.DateOfBirth)
}
