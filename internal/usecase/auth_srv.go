package usecase

import (
	"context"
	"fmt"
	"time"

	"ticketbooth/internal/data/entity"
	"ticketbooth/internal/data/repository"
	"ticketbooth/internal/dto/request"
	"ticketbooth/internal/dto/response"
	"ticketbooth/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, userAgent, ipAddress string) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo          *repository.Repository
	sessionExpiry time.Duration
	log           *zap.Logger
}

func NewAuthService(repo *repository.Repository, sessionExpiry time.Duration, log *zap.Logger) AuthService {
	return &authService{
		repo:          repo,
		sessionExpiry: sessionExpiry,
		log:           log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Message: "validation failed: " + utils.FormatValidationErrors(errs), Fields: errs}
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, &ValidationError{Message: "email already registered"}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return s.newSession(ctx, user, nil, nil)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, userAgent, ipAddress string) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Message: "validation failed: " + utils.FormatValidationErrors(errs), Fields: errs}
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.IsActive {
		// Same message for unknown email and wrong password.
		return nil, &ValidationError{Message: "invalid email or password"}
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		s.log.Warn("Login failed, wrong password", zap.String("email", req.Email))
		return nil, &ValidationError{Message: "invalid email or password"}
	}

	var ua, ip *string
	if userAgent != "" {
		ua = &userAgent
	}
	if ipAddress != "" {
		ip = &ipAddress
	}

	return s.newSession(ctx, user, ua, ip)
}

func (s *authService) newSession(ctx context.Context, user *entity.User, userAgent, ipAddress *string) (*response.AuthResponse, error) {
	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     utils.GenerateSessionToken(),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: now.Add(s.sessionExpiry),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &response.AuthResponse{
		UserID:    user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
