package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. Iterations follow current OWASP guidance for SHA-256.
const (
	Iterations = 100_000
	SaltLength = 16
	KeyLength  = 32
)

// HashPassword derives a PBKDF2-SHA256 hash of the password. A random
// hex-encoded salt is generated when salt is empty; the same salt always
// yields the same hash.
func HashPassword(password, salt string) (string, string, error) {
	if salt == "" {
		raw := make([]byte, SaltLength)
		if _, err := rand.Read(raw); err != nil {
			return "", "", err
		}
		salt = hex.EncodeToString(raw)
	}

	key := pbkdf2.Key([]byte(password), []byte(salt), Iterations, KeyLength, sha256.New)
	return hex.EncodeToString(key), salt, nil
}

// VerifyPassword recomputes the hash with the stored salt and compares in
// constant time.
func VerifyPassword(password, hash, salt string) bool {
	computed, _, err := HashPassword(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// EncodeCredential packs hash and salt into the single stored column form.
func EncodeCredential(hash, salt string) string {
	return hash + ":" + salt
}

// DecodeCredential splits a stored credential back into hash and salt.
func DecodeCredential(credential string) (string, string, error) {
	hash, salt, ok := strings.Cut(credential, ":")
	if !ok || hash == "" || salt == "" {
		return "", "", errors.New("invalid credential format")
	}
	return hash, salt, nil
}
