package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvup/classroom/config"
)

func newTestManager() *Manager {
	return NewManager(&config.CookieConfig{
		Name:     "SESSION_ID",
		MaxAge:   15 * time.Minute,
		SameSite: "Lax",
		HashKey:  "test-hash-key-for-unit-testing-0123456789",
	})
}

// ── Password hashing ──

func TestHashPassword_MatchesHMAC(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("salt"))
	mac.Write([]byte("secret"))
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, HashPassword("secret", "salt"))
	assert.Equal(t, HashPassword("secret", "salt"), HashPassword("secret", "salt"))
	assert.NotEqual(t, HashPassword("secret", "salt"), HashPassword("secret", "other"))
}

func TestVerifyPassword(t *testing.T) {
	digest := HashPassword("Admin", "abc")
	assert.True(t, VerifyPassword("Admin", "abc", digest))
	assert.False(t, VerifyPassword("admin", "abc", digest))
	assert.False(t, VerifyPassword("Admin", "abd", digest))
}

func TestNewSaltAndToken(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 32)

	tok1, err := NewToken()
	require.NoError(t, err)
	tok2, err := NewToken()
	require.NoError(t, err)
	assert.Len(t, tok1, 64)
	assert.NotEqual(t, tok1, tok2)
}

// ── Cookie round trip ──

func TestManager_SetAndReadCookie(t *testing.T) {
	m := newTestManager()

	w := httptest.NewRecorder()
	require.NoError(t, m.SetCookie(w, "token-1"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "SESSION_ID", c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 900, c.MaxAge)
	assert.NotEqual(t, "token-1", c.Value)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	token, err := m.ReadCookie(r)
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
}

func TestManager_ReadCookie_Tampered(t *testing.T) {
	m := newTestManager()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "SESSION_ID", Value: "forged"})
	_, err := m.ReadCookie(r)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_ReadCookie_Missing(t *testing.T) {
	m := newTestManager()

	_, err := m.ReadCookie(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_ClearCookie(t *testing.T) {
	m := newTestManager()

	w := httptest.NewRecorder()
	m.ClearCookie(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}
