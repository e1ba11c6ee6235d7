package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) (bool, error)
}

var userConstraints = constraintErrors{
	"users_email_unique":      appErrors.Conflict("Email already exists"),
	"classes_teacher_id_fkey": appErrors.Conflict("User still teaches classes"),
}

// UserService handles user management workflows.
type UserService struct {
	pager
	repo      userRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &UserService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, q dto.UserListQuery) ([]models.User, *models.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, validationError(err)
	}
	page, limit, err := s.resolve(q.PageQuery)
	if err != nil {
		return nil, nil, err
	}
	users, total, err := s.repo.List(ctx, models.UserFilter{
		Search: strings.TrimSpace(q.Search),
		Role:   models.UserRole(q.Role),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, nil, appErrors.Internal(err, "Failed to fetch users")
	}
	return users, models.NewPagination(page, limit, total), nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch user")
	}
	if user == nil {
		return nil, appErrors.NotFound("User not found")
	}
	return user, nil
}

// Create registers a user record. Credentials live with the external auth service.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.ensureEmailAvailable(ctx, email, ""); err != nil {
		return nil, err
	}

	role := models.RoleStudent
	if req.Role != "" {
		role = models.UserRole(req.Role)
	}
	user := &models.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         email,
		EmailVerified: req.EmailVerified,
		Image:         req.Image,
		ImageCldPubID: req.ImageCldPubID,
		Role:          role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, writeError(err, "Failed to create user", userConstraints)
	}
	invalidateStats(ctx, s.cache)
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Update applies the supplied fields to a user.
func (s *UserService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*models.User, error) {
	if req.Empty() {
		return nil, errEmptyUpdate
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if err := s.ensureEmailAvailable(ctx, email, id); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.EmailVerified != nil {
		user.EmailVerified = *req.EmailVerified
	}
	if req.Role != nil {
		user.Role = models.UserRole(*req.Role)
	}
	if req.Image.Set {
		user.Image = req.Image.Value
	}
	if req.ImageCldPubID.Set {
		user.ImageCldPubID = req.ImageCldPubID.Value
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, writeError(err, "Failed to update user", userConstraints)
	}
	invalidateStats(ctx, s.cache)
	return s.Get(ctx, id)
}

// Delete removes a user and their enrollments.
func (s *UserService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return writeError(err, "Failed to delete user", userConstraints)
	}
	if !deleted {
		return appErrors.NotFound("User not found")
	}
	invalidateStats(ctx, s.cache)
	return nil
}

func (s *UserService) ensureEmailAvailable(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return appErrors.Internal(err, "Failed to check email")
	}
	if existing != nil && existing.ID != selfID {
		return appErrors.Conflict("Email already exists")
	}
	return nil
}
