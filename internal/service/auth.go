package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/online_pharmacy/internal/events"
	"github.com/Skotchmaster/online_pharmacy/internal/models"
	"github.com/Skotchmaster/online_pharmacy/internal/repo"
	"github.com/Skotchmaster/online_pharmacy/internal/session"
	"github.com/Skotchmaster/online_pharmacy/internal/transport"
	pkg_hash "github.com/Skotchmaster/online_pharmacy/pkg/hash"
	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
)

type AuthService struct {
	Users      repo.UserRepo
	Sessions   *session.Manager
	Events     events.Publisher
	BcryptCost int

	dummyOnce sync.Once
	dummyHash string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type userEvent struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Signup registers a user; the admin flag is taken from the request as-is.
func (s *AuthService) Signup(ctx context.Context, req transport.CredentialsRequest) (*models.User, error) {
	u, err := s.createUser(ctx, req, req.IsAdmin)
	if err != nil {
		return nil, err
	}
	events.Emit(ctx, s.Events, events.TopicUsers, u.ID, events.UserRegistered, userEvent{u.ID, u.Username, u.IsAdmin})
	return u, nil
}

func (s *AuthService) CreateAdmin(ctx context.Context, req transport.CredentialsRequest) (*models.User, error) {
	u, err := s.createUser(ctx, req, true)
	if err != nil {
		return nil, err
	}
	events.Emit(ctx, s.Events, events.TopicUsers, u.ID, events.AdminCreated, userEvent{u.ID, u.Username, u.IsAdmin})
	return u, nil
}

func (s *AuthService) createUser(ctx context.Context, req transport.CredentialsRequest, isAdmin bool) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if len(req.Password) > pkg_hash.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	pwHash, err := pkg_hash.HashPassword(req.Password, s.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		IsAdmin:      isAdmin,
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("username %q is taken: %w", req.Username, ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login checks the password of every account, admins included, and opens a session.
func (s *AuthService) Login(ctx context.Context, req transport.CredentialsRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", req.Username)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.Users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// same bcrypt cost as a real check
			pkg_hash.CheckPassword(s.unknownUserHash(), req.Password)
			l.Info("login_rejected", "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Info("login_rejected", "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	events.Emit(ctx, s.Events, events.TopicUsers, user.ID, events.UserLoggedIn, userEvent{user.ID, user.Username, user.IsAdmin})
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		h, err := pkg_hash.HashPassword(uuid.NewString(), s.BcryptCost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Sessions.Destroy(ctx, token)
}

// CurrentUser resolves a session token to its user. A session whose user no
// longer exists is destroyed.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.Sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			_ = s.Sessions.Destroy(ctx, token)
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
