package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// ValidationCodeLength is the exact length of a delivery validation code.
const ValidationCodeLength = 6

// no 0/O, 1/I/L
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewValidationCode returns a random code drawn from an unambiguous alphabet.
func NewValidationCode() (string, error) {
	buf := make([]byte, ValidationCodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate validation code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// MatchValidationCode compares a submitted code with the stored one.
// Only an exact match of ValidationCodeLength bytes is accepted.
func MatchValidationCode(stored, submitted string) bool {
	if len(stored) != ValidationCodeLength || len(submitted) != ValidationCodeLength {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
