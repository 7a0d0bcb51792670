// Package security provides password hashing, input validation and the
// session audit log.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"

	apperrors "drawdown-console/internal/errors"
)

const (
	// KeySize is the size of a derived password hash in bytes.
	KeySize = 32
	// SaltSize is the size of the salt for key derivation.
	SaltSize = 16
	// PBKDF2Iterations is the number of iterations for key derivation.
	PBKDF2Iterations = 100000
)

// deriveKey derives a hash from a password using PBKDF2.
func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeySize, sha256.New)
}

// HashPassword returns the hash of password under a fresh random salt.
func HashPassword(password string) (hash, salt []byte, err error) {
	salt = make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, apperrors.NewSecurityError("generating salt", err)
	}
	return deriveKey(password, salt), salt, nil
}

// VerifyPassword reports whether password matches hash under salt.
func VerifyPassword(password string, hash, salt []byte) bool {
	if len(hash) == 0 || len(salt) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(deriveKey(password, salt), hash) == 1
}
