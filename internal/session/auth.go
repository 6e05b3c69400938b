package session

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator checks the single configured admin account.
type Authenticator struct {
	username string
	hash     []byte
}

// NewAuthenticator hashes password once at startup so it is never held in
// plain text after configuration load.
func NewAuthenticator(username, password string) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Authenticator{username: username, hash: hash}, nil
}

// Check reports whether the credentials match.
func (a *Authenticator) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	return userOK && passErr == nil
}
