// Package service implements account registration, login and token issuing.
package service

import (
	"context"
	"time"

	"cotizador_backend/internal/auth/repository"
	"cotizador_backend/internal/auth/transport"
	"cotizador_backend/platform/apperr"
	"cotizador_backend/platform/config"
	"cotizador_backend/platform/httpkit"
	"cotizador_backend/platform/logger"
	"cotizador_backend/platform/phone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentialsMsg = "invalid email or password"

// Service provides authentication business logic.
type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Register creates a customer account and returns a signed session.
// Self-registration always yields the customer role; other roles are
// provisioned by an admin through CreateUser.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (*transport.AuthResponse, error) {
	user, err := s.createUser(ctx, transport.CreateUserRequest{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Role:        httpkit.RoleCustomer,
	})
	if err != nil {
		s.log.AuthEvent("register", req.Email, false, err.Error())
		return nil, err
	}

	s.log.AuthEvent("register", req.Email, true, "")
	return s.buildAuthResponse(user)
}

// CreateUser provisions an account with an explicit role. Admin only;
// the handler enforces the role guard.
func (s *Service) CreateUser(ctx context.Context, req transport.CreateUserRequest) (*transport.UserResponse, error) {
	user, err := s.createUser(ctx, req)
	if err != nil {
		return nil, err
	}
	resp := buildUserResponse(user)
	return &resp, nil
}

func (s *Service) createUser(ctx context.Context, req transport.CreateUserRequest) (*repository.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	now := time.Now()
	user := &repository.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		CompanyName:  req.CompanyName,
		Phone:        phone.NormalizeE164(req.Phone),
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed session.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (*transport.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.log.AuthEvent("login", req.Email, false, "unknown email")
		// Same error for unknown email and bad password
		return nil, apperr.Unauthorized(invalidCredentialsMsg)
	}

	if !user.IsActive {
		s.log.AuthEvent("login", req.Email, false, "account disabled")
		return nil, apperr.Unauthorized(invalidCredentialsMsg)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.AuthEvent("login", req.Email, false, "wrong password")
		return nil, apperr.Unauthorized(invalidCredentialsMsg)
	}

	s.log.AuthEvent("login", req.Email, true, "")
	return s.buildAuthResponse(user)
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := buildUserResponse(user)
	return &resp, nil
}

// SetActive enables or disables an account. Admin only.
func (s *Service) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, userID, active)
}

func (s *Service) buildAuthResponse(user *repository.User) (*transport.AuthResponse, error) {
	token, err := s.signAccessToken(user)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}
	return &transport.AuthResponse{
		AccessToken: token,
		User:        buildUserResponse(user),
	}, nil
}

func (s *Service) signAccessToken(user *repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func buildUserResponse(u *repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		CompanyName: u.CompanyName,
		Phone:       u.Phone,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}
