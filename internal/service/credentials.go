package service

import (
	"context"
	"crypto/subtle"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/totegamma/fantalega/internal/domain"
)

// StaticCredentials verifies admin logins against one configured identity.
// When a bcrypt hash is configured it takes precedence over the plain
// password.
type StaticCredentials struct {
	username     []byte
	password     []byte
	passwordHash []byte
}

func NewStaticCredentials(username, password, passwordHash string) *StaticCredentials {
	return &StaticCredentials{
		username:     []byte(username),
		password:     []byte(password),
		passwordHash: []byte(passwordHash),
	}
}

func (s *StaticCredentials) Verify(ctx context.Context, username, password string) error {
	if len(s.username) == 0 {
		return domain.ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare(s.username, []byte(username)) == 1

	var passOK bool
	if len(s.passwordHash) > 0 {
		err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
		switch {
		case err == nil:
			passOK = true
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			passOK = false
		default:
			return errors.Wrap(err, "admin password hash is unusable")
		}
	} else {
		passOK = len(s.password) > 0 && subtle.ConstantTimeCompare(s.password, []byte(password)) == 1
	}

	if !userOK || !passOK {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for admin.passwordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
