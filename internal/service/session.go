package service

import (
	"net/http"
	"time"

	"github.com/totegamma/fantalega/internal/domain"
	"github.com/totegamma/fantalega/internal/usecase"
)

// SessionStore is the only component that reads or writes session cookies.
type SessionStore struct {
	secure     bool
	userCookie string
	adminTTL   time.Duration
}

func NewSessionStore(secure bool, userCookie string, adminTTL time.Duration) *SessionStore {
	if userCookie == "" {
		userCookie = domain.DefaultUserSessionCookie
	}
	return &SessionStore{
		secure:     secure,
		userCookie: userCookie,
		adminTTL:   adminTTL,
	}
}

// Tokens extracts the raw session values carried by r.
func (s *SessionStore) Tokens(r *http.Request) usecase.SessionTokens {
	var tokens usecase.SessionTokens
	if c, err := r.Cookie(domain.AdminSessionCookie); err == nil {
		tokens.Admin = c.Value
	}
	if c, err := r.Cookie(s.userCookie); err == nil {
		tokens.User = c.Value
	}
	return tokens
}

func (s *SessionStore) SetAdmin(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     domain.AdminSessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.adminTTL > 0 {
		cookie.MaxAge = int(s.adminTTL.Seconds())
	}
	http.SetCookie(w, cookie)
}

func (s *SessionStore) ClearAdmin(w http.ResponseWriter) {
	s.clear(w, domain.AdminSessionCookie)
}

func (s *SessionStore) ClearUser(w http.ResponseWriter) {
	s.clear(w, s.userCookie)
}

func (s *SessionStore) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
