package utils

import (
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

// HashPassword returns a bcrypt hash of the password using the given cost.
// The input is NFC-normalized first so that canonically equivalent Unicode
// spellings of the same password hash to the same credential. bcrypt
// generates a fresh salt per call, so two hashes of the same password
// always differ.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(norm.NFC.String(plain)), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a stored bcrypt hash against a candidate
// password after the same NFC normalization. It returns false for any
// mismatch, including a malformed stored hash; a wrong password never
// produces an error, only false.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(norm.NFC.String(plain))) == nil
}
