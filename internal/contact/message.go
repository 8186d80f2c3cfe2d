package contact

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/portfolio/pkg"
)

const (
	maxNameLen       = 100
	maxEmailLen      = 254
	minMessageLen    = 10
	maxMessageLength = 5000
)

type Message struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Input is what a visitor submits through the contact form.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (in Input) Normalize() Input {
	return Input{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: strings.TrimSpace(in.Message),
	}
}

// Validate expects a normalized input.
func (in Input) Validate() error {
	verr := &pkg.ValidationError{}

	switch {
	case in.Name == "":
		verr.Add("name", "required")
	case utf8.RuneCountInString(in.Name) > maxNameLen:
		verr.Add("name", "too long")
	}

	switch {
	case in.Email == "":
		verr.Add("email", "required")
	case len(in.Email) > maxEmailLen || !isPlainAddress(in.Email):
		verr.Add("email", "invalid email address")
	}

	messageLen := utf8.RuneCountInString(in.Message)
	switch {
	case in.Message == "":
		verr.Add("message", "required")
	case messageLen < minMessageLen:
		verr.Add("message", "too short")
	case messageLen > maxMessageLength:
		verr.Add("message", "too long")
	}

	return verr.Err()
}

func (in Input) toMessage() *Message {
	return &Message{
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
	}
}

// isPlainAddress accepts a bare address only, no display name or angle brackets.
func isPlainAddress(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == email
}
