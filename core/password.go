package core

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted bcrypt digest with the given cost. Each call
// salts freshly, so equal inputs produce different digests.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	return string(b), err
}

// CheckPassword reports whether plain matches the bcrypt digest. A malformed
// digest simply fails the check; comparison time does not depend on where a
// mismatch occurs.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
