package auth

import (
	"crypto/subtle"

	"github.com/2beens/portfolio/pkg"
)

// Admin is the single admin identity, loaded once on startup.
type Admin struct {
	Email        string
	PasswordHash string
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Matches compares the email exactly and the password against the bcrypt hash.
// Both checks always run, so the result does not tell which one failed.
func (a *Admin) Matches(creds Credentials) bool {
	if a == nil {
		return false
	}

	emailOK := subtle.ConstantTimeCompare([]byte(creds.Email), []byte(a.Email)) == 1
	passwordOK := pkg.CheckPasswordHash(creds.Password, a.PasswordHash)

	return emailOK && passwordOK
}
