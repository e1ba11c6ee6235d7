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

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	FindByClassAndStudent(ctx context.Context, classID int64, studentID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type enrollmentClassRepository interface {
	FindByID(ctx context.Context, id int64) (*models.ClassDetail, error)
	FindByInviteCode(ctx context.Context, code string) (*models.Class, error)
	CountEnrollments(ctx context.Context, classID int64) (int, error)
}

var enrollmentConstraints = constraintErrors{
	"enrollments_student_class_unique": appErrors.Conflict("Student is already enrolled in this class"),
	"enrollments_class_id_fkey":        appErrors.NotFound("Class not found"),
	"enrollments_student_id_fkey":      appErrors.NotFound("Student not found"),
}

// EnrollmentService manages class enrollments.
type EnrollmentService struct {
	pager
	repo      enrollmentRepository
	classes   enrollmentClassRepository
	users     userFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs an enrollment service.
func NewEnrollmentService(repo enrollmentRepository, classes enrollmentClassRepository, users userFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, classes: classes, users: users, cache: cache, validator: validate, logger: logger}
}

// List returns enrollments with their class and student.
func (s *EnrollmentService) List(ctx context.Context, q dto.EnrollmentListQuery) ([]models.EnrollmentDetail, *models.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, validationError(err)
	}
	page, limit, err := s.resolve(q.PageQuery)
	if err != nil {
		return nil, nil, err
	}
	filter := models.EnrollmentFilter{StudentID: strings.TrimSpace(q.StudentID), Page: page, Limit: limit}
	if q.ClassID != nil {
		filter.ClassID = *q.ClassID
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.Error(err))
		return nil, nil, appErrors.Internal(err, "Failed to fetch enrollments")
	}
	return items, models.NewPagination(page, limit, total), nil
}

// Get returns one enrollment.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch enrollment")
	}
	if enrollment == nil {
		return nil, appErrors.NotFound("Enrollment not found")
	}
	return enrollment, nil
}

// Create enrolls a student into a class by id.
func (s *EnrollmentService) Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch class")
	}
	if class == nil {
		return nil, appErrors.NotFound("Class not found")
	}
	return s.enroll(ctx, &class.Class, req.StudentID)
}

// Join enrolls a student into the active class holding the invite code.
func (s *EnrollmentService) Join(ctx context.Context, req dto.JoinClassRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	class, err := s.classes.FindByInviteCode(ctx, strings.TrimSpace(req.InviteCode))
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch class")
	}
	if class == nil {
		return nil, appErrors.NotFound("Class not found")
	}
	if class.Status != models.ClassStatusActive {
		return nil, appErrors.Conflict("Class is not accepting enrollments")
	}
	return s.enroll(ctx, class, req.StudentID)
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return writeError(err, "Failed to delete enrollment", enrollmentConstraints)
	}
	if !deleted {
		return appErrors.NotFound("Enrollment not found")
	}
	invalidateStats(ctx, s.cache)
	return nil
}

func (s *EnrollmentService) enroll(ctx context.Context, class *models.Class, studentID string) (*models.EnrollmentDetail, error) {
	student, err := s.users.FindByID(ctx, strings.TrimSpace(studentID))
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch student")
	}
	if student == nil {
		return nil, appErrors.NotFound("Student not found")
	}
	if student.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "User is not a student")
	}

	existing, err := s.repo.FindByClassAndStudent(ctx, class.ID, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to check enrollment")
	}
	if existing != nil {
		return nil, appErrors.Conflict("Student is already enrolled in this class")
	}
	if class.Capacity != nil {
		enrolled, err := s.classes.CountEnrollments(ctx, class.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "Failed to check class capacity")
		}
		if enrolled >= *class.Capacity {
			return nil, appErrors.Conflict("Class is full")
		}
	}

	enrollment := &models.Enrollment{ClassID: class.ID, StudentID: student.ID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, writeError(err, "Failed to create enrollment", enrollmentConstraints)
	}
	invalidateStats(ctx, s.cache)
	s.logger.Info("student enrolled", zap.Int64("class_id", class.ID), zap.String("student_id", student.ID))
	return s.Get(ctx, enrollment.ID)
}
