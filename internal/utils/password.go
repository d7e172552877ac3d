package utils

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is bcrypt's input limit; longer passwords are rejected.
const MaxPasswordBytes = 72

// HashPassword returns bcrypt hash using the given cost.  Every call uses a
// fresh salt, so hashing the same password twice gives different strings.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.  A
// malformed hash is reported as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
