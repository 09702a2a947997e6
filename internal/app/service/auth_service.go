package service

import (
	"context"
	"errors"
	"time"

	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/gmp-artesanias/gmp-backend/pkg/util"
	"gorm.io/gorm"
)

// TokenRevoker remembers revoked token ids until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type LoginResult struct {
	User   *model.AdminUser `json:"user"`
	Tokens *util.TokenPair  `json:"tokens"`
}

type AuthService interface {
	Login(email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, tokens ...string) error
	Me(userID uint) (*model.AdminUser, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type authService struct {
	adminRepo repository.AdminUserRepository
	cfg       config.JWTConfig
	revoker   TokenRevoker
	now       func() time.Time
}

// NewAuthService builds the admin auth service. revoker may be nil, in which
// case logout only discards tokens client side.
func NewAuthService(adminRepo repository.AdminUserRepository, cfg config.JWTConfig, revoker TokenRevoker) AuthService {
	return &authService{
		adminRepo: adminRepo,
		cfg:       cfg,
		revoker:   revoker,
		now:       time.Now,
	}
}

func (s *authService) Login(email, password string) (*LoginResult, error) {
	admin, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login attempt for unknown admin", map[string]interface{}{
				"email": email,
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifyPassword(admin.PasswordHash, password) {
		logger.Warn("Login attempt with wrong password", map[string]interface{}{
			"user_id": admin.ID,
		})
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issue(admin)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.adminRepo.TouchLastLogin(admin.ID, now); err != nil {
		logger.Warn("Failed to record last login", map[string]interface{}{
			"user_id": admin.ID,
			"error":   err.Error(),
		})
	} else {
		admin.LastLoginAt = &now
	}

	logger.Info("Admin logged in", map[string]interface{}{
		"user_id": admin.ID,
	})
	return &LoginResult{User: admin, Tokens: tokens}, nil
}

// Refresh trades a valid refresh token for a new pair and revokes the old one.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := s.parse(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != util.RefreshToken {
		return nil, ErrInvalidToken
	}

	admin, err := s.Me(claims.UserID)
	if err != nil {
		return nil, err
	}
	tokens, err := s.issue(admin)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, claims)
	return tokens, nil
}

// Logout revokes every token given. Tokens that no longer parse are skipped.
func (s *authService) Logout(ctx context.Context, tokens ...string) error {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		claims, err := util.ValidateToken(token, s.cfg.Secret)
		if err != nil {
			continue
		}
		s.revoke(ctx, claims)
		logger.Info("Admin token revoked", map[string]interface{}{
			"user_id":    claims.UserID,
			"token_type": claims.TokenType,
		})
	}
	return nil
}

func (s *authService) Me(userID uint) (*model.AdminUser, error) {
	admin, err := s.adminRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

func (s *authService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.revoker == nil || tokenID == "" {
		return false, nil
	}
	return s.revoker.IsRevoked(ctx, tokenID)
}

func (s *authService) issue(admin *model.AdminUser) (*util.TokenPair, error) {
	return util.GenerateTokenPair(admin.ID, admin.Email, model.RoleAdmin, s.cfg.Secret,
		s.cfg.AccessTokenExpiry, s.cfg.RefreshTokenExpiry)
}

func (s *authService) parse(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, s.cfg.Secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	revoked, err := s.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *authService) revoke(ctx context.Context, claims *util.Claims) {
	if s.revoker == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		logger.Warn("Failed to revoke token", map[string]interface{}{
			"user_id": claims.UserID,
			"error":   err.Error(),
		})
	}
}
