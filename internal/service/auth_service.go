package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/config"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type profileReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService verifies access tokens minted by the hosted identity provider
// and resolves them into application identities.
type AuthService struct {
	profiles profileReader
	config   config.AuthConfig
	logger   *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(profiles profileReader, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{profiles: profiles, config: cfg, logger: logger}
}

// ValidateToken parses and verifies an access token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAuthLookupFailed.Code, appErrors.ErrAuthLookupFailed.Status, "invalid access token")
	}

	claims, ok := token.Claims.(*models.AccessClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrAuthLookupFailed, "invalid token claims")
	}
	if s.config.Issuer != "" && claims.Issuer != s.config.Issuer {
		return nil, appErrors.Clone(appErrors.ErrAuthLookupFailed, "token issued by unknown issuer")
	}
	if claims.Subject == "" {
		return nil, appErrors.Clone(appErrors.ErrAuthLookupFailed, "token has no subject")
	}

	return claims, nil
}

// ResolveIdentity verifies the token and loads the matching profile row.
// A verified token without a profile row means the user never completed
// onboarding; role routes treat that as a distinct failure.
func (s *AuthService) ResolveIdentity(ctx context.Context, tokenString string) (*models.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.profiles.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileNotFound, "profile not found for authenticated user")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	return &models.Identity{
		UserID: user.ID,
		Email:  claims.Email,
		Role:   user.Role,
		Name:   user.Name,
	}, nil
}
