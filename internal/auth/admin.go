package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any username or password mismatch.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// AdminVerifier checks login attempts against the single configured admin.
type AdminVerifier struct {
	username string
	hash     []byte
}

// NewAdminVerifier accepts either a bcrypt hash or a plaintext password.
// A plaintext password is hashed once here so that Verify always takes the
// bcrypt path.
func NewAdminVerifier(username, password, passwordHash string) (*AdminVerifier, error) {
	if username == "" {
		return nil, errors.New("admin username is empty")
	}
	var hash []byte
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		hash = []byte(passwordHash)
	case password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = h
	default:
		return nil, errors.New("admin password is empty")
	}
	return &AdminVerifier{username: username, hash: hash}, nil
}

// Username is the configured admin name.
func (v *AdminVerifier) Username() string {
	return v.username
}

// Verify returns ErrInvalidCredentials unless both values match. The
// password hash is compared even for a wrong username.
func (v *AdminVerifier) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(v.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IsAdmin reports whether subject names the configured admin.
func (v *AdminVerifier) IsAdmin(subject string) bool {
	return subtle.ConstantTimeCompare([]byte(subject), []byte(v.username)) == 1
}
