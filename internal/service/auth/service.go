package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jwalitptl/salon-api/internal/email"
	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/pkg/auth"
	"github.com/jwalitptl/salon-api/pkg/clock"
	"github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/security"

	"github.com/google/uuid"
)

const resetTokenTTL = time.Hour

type Service struct {
	users  repository.UserRepository
	tokens repository.TokenRepository

	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	emailSvc email.Service
	clock    clock.Clock
	logger   *logger.Logger

	// resetBaseURL is the frontend page the reset email links to; the
	// plain token is appended as a query parameter.
	resetBaseURL string
}

func NewService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
	emailSvc email.Service,
	clk clock.Clock,
	log *logger.Logger,
	resetBaseURL string,
) *Service {
	return &Service{
		users:        users,
		tokens:       tokens,
		jwtSvc:       jwtSvc,
		hasher:       hasher,
		emailSvc:     emailSvc,
		clock:        clk,
		logger:       log,
		resetBaseURL: resetBaseURL,
	}
}

// Register creates a user account. The role defaults to customer when
// omitted; admin accounts cannot be self-registered.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	role := model.UserRole(req.Role)
	if req.Role == "" {
		role = model.RoleCustomer
	}
	if !role.Valid() || role == model.RoleAdmin {
		return nil, errors.Validation("invalid role")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	now := s.clock.Now()
	user := &model.User{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName:    req.FirstName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errors.Validation("email already registered")
		}
		return nil, errors.Internal(err)
	}

	token, err := s.jwtSvc.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return &model.AuthResponse{User: user, Token: token}, nil
}

// Login verifies credentials and issues a JWT.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.Unauthorized("invalid credentials")
		}
		return nil, errors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, errors.Unauthorized("invalid credentials")
	}

	token, err := s.jwtSvc.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}

	return &model.AuthResponse{User: user, Token: token}, nil
}

// ForgotPassword issues a reset token and emails it. An unknown email
// succeeds silently so the endpoint cannot be used to enumerate accounts.
func (s *Service) ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest) error {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return errors.Internal(err)
	}

	plain, err := newResetToken()
	if err != nil {
		return errors.Internal(err)
	}

	expiresAt := s.clock.Now().Add(resetTokenTTL)
	if err := s.tokens.StoreResetToken(ctx, user.ID, hashToken(plain), expiresAt); err != nil {
		return errors.Internal(err)
	}

	resetURL := fmt.Sprintf("%s?token=%s", s.resetBaseURL, plain)
	if err := s.emailSvc.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		return errors.Internal(fmt.Errorf("failed to send reset email: %w", err))
	}
	return nil
}

// ResetPassword consumes a live reset token and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	userID, err := s.tokens.ConsumeResetToken(ctx, hashToken(req.Token))
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.Validation("invalid or expired reset token")
		}
		return errors.Internal(err)
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return errors.Internal(err)
	}
	if user.Email != req.Email {
		return errors.Validation("invalid or expired reset token")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return errors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return errors.Internal(err)
	}

	if err := s.emailSvc.SendPasswordResetConfirmation(ctx, user.Email); err != nil {
		s.logger.Error(err, "failed to send reset confirmation", "user_id", user.ID)
	}
	return nil
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
