package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grvup/classroom/config"
	"github.com/grvup/classroom/internal/api/handler"
	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/service"
	"github.com/grvup/classroom/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Stubs ──

type stubAuth struct {
	service.AuthService
	users map[string]*model.User
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*model.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, service.ErrUnauthenticated
}

type stubClasses struct {
	service.ClassService
}

func (s *stubClasses) ListClasses(_ context.Context, _ *model.User) ([]model.Class, error) {
	return []model.Class{}, nil
}

func setup(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{MaxUploadBytes: 1 << 20},
		Redis:  config.RedisConfig{LoginRateLimit: 10, LoginRateWindow: time.Minute},
	}
	sessions := session.NewManager(&config.CookieConfig{
		Name:    "SESSION_ID",
		MaxAge:  15 * time.Minute,
		HashKey: "router-test-hash-key-0123456789abcdef",
	})
	auth := &stubAuth{users: map[string]*model.User{
		"principal": {ID: "p", Name: "P", Role: model.RolePrincipal},
		"teacher":   {ID: "t", Name: "T", Role: model.RoleTeacher},
	}}
	svc := &service.Service{Auth: auth, Class: &stubClasses{}}

	r, err := Setup(cfg, handler.NewHandler(svc, sessions), sessions, auth, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return r, sessions
}

func request(t *testing.T, r *gin.Engine, sessions *session.Manager, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		rec := httptest.NewRecorder()
		if err := sessions.SetCookie(rec, token); err != nil {
			t.Fatalf("cookie: %v", err)
		}
		req.AddCookie(rec.Result().Cookies()[0])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── Routes ──

func TestRouter_PublicPages(t *testing.T) {
	r, sessions := setup(t)
	for _, path := range []string{"/intro", "/login", "/signup", "/livestream", "/troll", "/health", "/metrics"} {
		if w := request(t, r, sessions, http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestRouter_ProtectedRoutesRedirect(t *testing.T) {
	r, sessions := setup(t)
	paths := []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodGet, "/class/c1"},
		{http.MethodPost, "/addclass"},
		{http.MethodPost, "/addstudent/c1"},
		{http.MethodPost, "/addlesson/c1"},
		{http.MethodGet, "/class/c1/lesson/l1"},
		{http.MethodPost, "/class/c1/lesson/l1"},
		{http.MethodGet, "/class/c1/student/s1"},
		{http.MethodDelete, "/class/c1/student/s1"},
		{http.MethodGet, "/class/c1/export/attendance.xlsx"},
		{http.MethodGet, "/class/c1/lessons.ics"},
		{http.MethodGet, "/accounts/new"},
	}
	for _, p := range paths {
		w := request(t, r, sessions, p.method, p.path, "")
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/intro" {
			t.Errorf("%s %s: expected redirect to /intro, got %d %q", p.method, p.path, w.Code, w.Header().Get("Location"))
		}
	}
}

func TestRouter_Home(t *testing.T) {
	r, sessions := setup(t)
	if w := request(t, r, sessions, http.MethodGet, "/", "teacher"); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRouter_AccountsPrincipalOnly(t *testing.T) {
	r, sessions := setup(t)
	if w := request(t, r, sessions, http.MethodGet, "/accounts/new", "teacher"); w.Code != http.StatusForbidden {
		t.Errorf("teacher: expected 403, got %d", w.Code)
	}
	if w := request(t, r, sessions, http.MethodGet, "/accounts/new", "principal"); w.Code != http.StatusOK {
		t.Errorf("principal: expected 200, got %d", w.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	r, sessions := setup(t)
	if w := request(t, r, sessions, http.MethodGet, "/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRouter_SignedInLoginGoesHome(t *testing.T) {
	r, sessions := setup(t)
	w := request(t, r, sessions, http.MethodGet, "/login", "teacher")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Errorf("expected redirect home, got %d", w.Code)
	}
}
