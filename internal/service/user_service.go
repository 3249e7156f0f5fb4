package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// OnboardRequest assigns a role and creates the profile row for a freshly
// authenticated user. Operator profiles are provisioned out of band and can
// not be self-assigned.
type OnboardRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
	Role  string `json:"role" validate:"required,oneof=learner instructor"`
}

// UserService handles onboarding and profile lookups.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Onboard creates the profile row for the authenticated subject.
func (s *UserService) Onboard(ctx context.Context, userID string, req OnboardRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, validationDetails(err))
	}

	if _, err := s.repo.FindByID(ctx, userID); err == nil {
		return nil, appErrors.New("ONBOARDING_ALREADY_COMPLETED", appErrors.ErrConflict.Status, "profile already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, "ONBOARDING_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to check existing profile")
	}

	user := &models.User{
		ID:    userID,
		Name:  req.Name,
		Phone: req.Phone,
		Role:  models.UserRole(req.Role),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, "ONBOARDING_CREATE_FAILED", appErrors.ErrInternal.Status, "failed to create profile")
	}

	s.logger.Info("profile created", zap.String("user_id", userID), zap.String("role", req.Role))
	return user, nil
}

// Profile returns the caller's own profile row.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, "PROFILE_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load profile")
	}
	return user, nil
}
