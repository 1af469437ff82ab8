package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"

	"github.com/grvup/classroom/config"
)

// ErrNoSession the request carries no usable session cookie
var ErrNoSession = errors.New("no session cookie")

// Manager writes and reads the session cookie. The cookie carries the
// opaque session token, signed so a tampered value is rejected before it
// reaches the user store.
type Manager struct {
	name     string
	maxAge   int // seconds
	secure   bool
	sameSite http.SameSite
	codec    *securecookie.SecureCookie
}

// NewManager creates a cookie manager. With an empty hash key a random key
// is generated, so cookies do not survive a restart.
func NewManager(cfg *config.CookieConfig) *Manager {
	hashKey := []byte(cfg.HashKey)
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}

	maxAge := int(cfg.MaxAge.Seconds())
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(maxAge)

	return &Manager{
		name:     cfg.Name,
		maxAge:   maxAge,
		secure:   cfg.Secure,
		sameSite: parseSameSite(cfg.SameSite),
		codec:    codec,
	}
}

// Name returns the cookie name
func (m *Manager) Name() string { return m.name }

// SetCookie stores token in the session cookie
func (m *Manager) SetCookie(w http.ResponseWriter, token string) error {
	encoded, err := m.codec.Encode(m.name, token)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	})
	return nil
}

// ReadCookie returns the session token carried by r
func (m *Manager) ReadCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.name)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSession
	}
	var token string
	if err := m.codec.Decode(m.name, cookie.Value, &token); err != nil {
		return "", ErrNoSession
	}
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

// ClearCookie expires the session cookie in the browser
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	})
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
