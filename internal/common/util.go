package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates a random hexadecimal string from size random
// bytes. The resulting string length is twice the size, since each byte
// expands to two hex characters.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewUserID mints an opaque user identifier. The "user_" prefix plus twelve
// hex characters matches the identifier format the frontend already stores.
func NewUserID() (string, error) {
	suffix, err := MakeRandHexString(6)
	if err != nil {
		return "", err
	}
	return "user_" + suffix, nil
}
