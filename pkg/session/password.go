package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

const (
	saltBytes  = 16
	tokenBytes = 32 // 256-bit session tokens
)

// NewSalt returns a random per-user salt, hex encoded
func NewSalt() (string, error) {
	return randomHex(saltBytes)
}

// NewToken returns a random opaque session token, hex encoded.
// It identifies nobody until it is stored on a user record.
func NewToken() (string, error) {
	return randomHex(tokenBytes)
}

// HashPassword returns hex(HMAC-SHA-256(key=salt, password)).
// The same salt and password always produce the same digest.
func HashPassword(password, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPassword reports whether password hashes to digest under salt
func VerifyPassword(password, salt, digest string) bool {
	return hmac.Equal([]byte(HashPassword(password, salt)), []byte(digest))
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
