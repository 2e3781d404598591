package password

import (
	"errors"

	"salonbook/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

// hashCost stays at the bcrypt default. Raising it must come with a
// rehash-on-login pass, or stored credentials keep the old cost forever.
const hashCost = bcrypt.DefaultCost

var (
	ErrEmpty    = errs.New("password must not be empty")
	ErrMismatch = errs.New("password does not match")
)

func Hash(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmpty
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), hashCost)
	if err != nil {
		return "", errs.Wrap(err, "failed to hash password")
	}
	return string(hashed), nil
}

// Verify returns ErrMismatch for a wrong password; any other bcrypt failure
// (malformed stored hash) is passed through wrapped so it surfaces as an
// internal error, not bad credentials.
func Verify(hash, raw string) error {
	if hash == "" || raw == "" {
		return ErrEmpty
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return errs.Wrap(err, "failed to verify password")
	}
	return nil
}
