package pkg

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash stored on a profile row.
func HashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	return string(b), err
}

// ComparePassword checks a login attempt against the stored hash.
func ComparePassword(hash, pw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}
