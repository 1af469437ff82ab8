package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/grvup/classroom/config"
	"github.com/grvup/classroom/internal/dto"
	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/repository"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
	"github.com/grvup/classroom/pkg/session"
)

// ── Authentication errors ──

var (
	ErrEmailNotFound      = errors.New("Email address not found!")
	ErrInvalidCredentials = errors.New("Invalid credentials!")
	ErrEmailTaken         = errors.New("Email address is already taken!")
	ErrPasswordMismatch   = errors.New("Passwords do not match!")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService identity and session operations
type AuthService interface {
	// Signup creates a Principal account and opens a session for it
	Signup(ctx context.Context, req *dto.SignupRequest) (*model.User, string, error)
	// Login verifies credentials and rotates the session token
	Login(ctx context.Context, req *dto.LoginRequest) (*model.User, string, error)
	// Authenticate resolves the user owning a session token
	Authenticate(ctx context.Context, token string) (*model.User, error)
	// Logout forgets the session token server-side; an unknown token is not an error
	Logout(ctx context.Context, token string) error
	// EnsureDefaultPrincipal seeds the administrative account once
	EnsureDefaultPrincipal(ctx context.Context) (bool, error)
	// CreateAccount a principal creates an account with an explicit role
	CreateAccount(ctx context.Context, req *dto.CreateAccountRequest) (*model.User, error)
	// CreateUser creates an account without a session
	CreateUser(ctx context.Context, email, name, password string, role model.Role) (*model.User, error)
	ResetPassword(ctx context.Context, email, password string) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuthService creates the AuthService
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
	}
}

// ═══════════════════════════════════════════════════════════
// Signup
// ═══════════════════════════════════════════════════════════
//
// Check order: field rules, email uniqueness, password confirmation.
// Public signups always get the Principal role.

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*model.User, string, error) {
	if err := s.checkNewAccount(ctx, req); err != nil {
		return nil, "", err
	}

	token, err := session.NewToken()
	if err != nil {
		return nil, "", err
	}

	user, err := s.insertUser(ctx, req.Email, fullName(req.FirstName, req.LastName), req.Password, token, model.RolePrincipal)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, token, nil
}

func (s *authService) checkNewAccount(ctx context.Context, req *dto.SignupRequest) error {
	if err := validateForm(req); err != nil {
		return err
	}

	_, err := s.repo.User.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case !errors.Is(err, pkgerrors.ErrNotFound):
		s.logger.Error("lookup email failed", zap.Error(err))
		return err
	}

	if req.Password != req.PasswordConfirm {
		return ErrPasswordMismatch
	}
	return nil
}

// ═══════════════════════════════════════════════════════════
// Login / Authenticate / Logout
// ═══════════════════════════════════════════════════════════

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*model.User, string, error) {
	// 1. email must exist
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, "", ErrEmailNotFound
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, "", err
	}

	// 2. digest must match
	if !session.VerifyPassword(req.Password, user.Salt, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	// 3. rotate the session token
	token, err := session.NewToken()
	if err != nil {
		return nil, "", err
	}
	if err := s.repo.User.UpdateSession(ctx, user.ID, token); err != nil {
		s.logger.Error("store session failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, "", err
	}
	user.SessionID = token

	return user, token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.repo.User.GetBySessionID(ctx, token)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	user, err := s.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return nil
		}
		return err
	}
	return s.repo.User.UpdateSession(ctx, user.ID, "")
}

// ═══════════════════════════════════════════════════════════
// Account administration
// ═══════════════════════════════════════════════════════════

func (s *authService) EnsureDefaultPrincipal(ctx context.Context) (bool, error) {
	p := s.cfg.Auth.DefaultPrincipal

	_, err := s.repo.User.GetByEmail(ctx, p.Email)
	if err == nil {
		s.logger.Info("principal account already exists", zap.String("email", p.Email))
		return false, nil
	}
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		s.logger.Error("lookup principal failed", zap.Error(err))
		return false, err
	}

	token, err := session.NewToken()
	if err != nil {
		return false, err
	}
	if _, err := s.insertUser(ctx, p.Email, p.Name, p.Password, token, model.RolePrincipal); err != nil {
		// another process seeded it between the lookup and the insert
		if errors.Is(err, ErrEmailTaken) {
			s.logger.Info("principal account already exists", zap.String("email", p.Email))
			return false, nil
		}
		s.logger.Error("create principal failed", zap.Error(err))
		return false, err
	}

	s.logger.Info("principal account created", zap.String("email", p.Email))
	return true, nil
}

func (s *authService) CreateAccount(ctx context.Context, req *dto.CreateAccountRequest) (*model.User, error) {
	if err := validateForm(req); err != nil {
		return nil, err
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}
	if err := s.checkNewAccount(ctx, &req.SignupRequest); err != nil {
		return nil, err
	}

	user, err := s.insertUser(ctx, req.Email, fullName(req.FirstName, req.LastName), req.Password, "", role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

func (s *authService) CreateUser(ctx context.Context, email, name, password string, role model.Role) (*model.User, error) {
	if _, err := model.ParseRole(string(role)); err != nil {
		return nil, ErrInvalidRole
	}
	return s.insertUser(ctx, email, name, password, "", role)
}

func (s *authService) ResetPassword(ctx context.Context, email, password string) error {
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	salt, err := session.NewSalt()
	if err != nil {
		return err
	}
	if err := s.repo.User.UpdatePassword(ctx, user.ID, session.HashPassword(password, salt), salt); err != nil {
		return err
	}
	s.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

// ── Helpers ──

func (s *authService) insertUser(ctx context.Context, email, name, password, token string, role model.Role) (*model.User, error) {
	salt, err := session.NewSalt()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     email,
		Password:  session.HashPassword(password, salt),
		Salt:      salt,
		Name:      name,
		SessionID: token,
		Role:      role,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
