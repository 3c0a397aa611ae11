package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength   = 16
	keyLength    = 32
	pbkdf2Rounds = 100000
)

// HashPassword derives a PBKDF2-HMAC-SHA256 digest from a password using a
// freshly generated random salt. Returns (digest, salt), both hex-encoded.
func HashPassword(password string) (string, string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", "", err
	}
	saltHex := hex.EncodeToString(salt)

	return HashPasswordWithSalt(password, saltHex), saltHex, nil
}

// HashPasswordWithSalt reproduces the digest for a known salt. The same
// (password, salt) pair always yields the same digest.
func HashPasswordWithSalt(password, saltHex string) string {
	hash := pbkdf2.Key([]byte(password), []byte(saltHex), pbkdf2Rounds, keyLength, sha256.New)
	return hex.EncodeToString(hash)
}

// VerifyPassword checks a password against a stored digest and salt.
// Fails closed: any decode problem or mismatch returns false.
func VerifyPassword(password, saltHex, storedHex string) bool {
	stored, err := hex.DecodeString(storedHex)
	if err != nil || len(stored) != keyLength {
		return false
	}

	computed := pbkdf2.Key([]byte(password), []byte(saltHex), pbkdf2Rounds, keyLength, sha256.New)

	// Constant-time comparison
	return subtle.ConstantTimeCompare(computed, stored) == 1
}
