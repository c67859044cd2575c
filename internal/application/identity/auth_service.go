package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/infrastructure/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates a user by email and password and issues an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("login attempt for unknown email", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if user.Disabled {
		s.logger.Warn("login attempt for disabled account", zap.String("email", input.Email))
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account has been disabled")
	}

	if !user.CheckPassword(input.Password) {
		s.logger.Warn("invalid password attempt", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role.String(),
	})
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate token")
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds; the timestamp is informational
		s.logger.Error("failed to record login time", zap.Error(err))
	}

	return &LoginResult{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}
