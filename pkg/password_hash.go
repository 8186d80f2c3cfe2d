package pkg

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const PasswordHashCost = 14

var ErrEmptyPassword = errors.New("password empty")

// HashPassword hashes with bcrypt, cost 0 means PasswordHashCost
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if cost == 0 {
		cost = PasswordHashCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash compares in constant time, a malformed hash never matches
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsPasswordHash reports whether s looks like a bcrypt hash usable by CheckPasswordHash
func IsPasswordHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
