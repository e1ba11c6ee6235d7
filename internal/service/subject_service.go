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

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.SubjectDetail, error)
	FindByCode(ctx context.Context, code string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id int64) (bool, error)
	CountClasses(ctx context.Context, id int64) (int, error)
}

type departmentFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Department, error)
}

type subjectClassLister interface {
	ListBySubject(ctx context.Context, subjectID int64, page, limit int) ([]models.ClassWithTeacher, int, error)
}

var subjectConstraints = constraintErrors{
	"subjects_code_unique":        appErrors.Conflict("Subject code already exists"),
	"subjects_department_id_fkey": appErrors.NotFound("Department not found"),
	"classes_subject_id_fkey":     appErrors.Conflict("Subject still has classes"),
}

// SubjectService coordinates subject workflows.
type SubjectService struct {
	pager
	repo        subjectRepository
	departments departmentFinder
	classes     subjectClassLister
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubjectService constructs a subject service.
func NewSubjectService(repo subjectRepository, departments departmentFinder, classes subjectClassLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, departments: departments, classes: classes, cache: cache, validator: validate, logger: logger}
}

// List returns subjects with their department.
func (s *SubjectService) List(ctx context.Context, q dto.SubjectListQuery) ([]models.SubjectDetail, *models.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, validationError(err)
	}
	page, limit, err := s.resolve(q.PageQuery)
	if err != nil {
		return nil, nil, err
	}
	filter := models.SubjectFilter{
		Search:     strings.TrimSpace(q.Search),
		Department: strings.TrimSpace(q.Department),
		Page:       page,
		Limit:      limit,
	}
	if q.DepartmentID != nil {
		filter.DepartmentID = *q.DepartmentID
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list subjects failed", zap.Error(err))
		return nil, nil, appErrors.Internal(err, "Failed to fetch subjects")
	}
	return items, models.NewPagination(page, limit, total), nil
}

// Get returns the subject view with its class total.
func (s *SubjectService) Get(ctx context.Context, id int64) (*models.SubjectOverview, error) {
	subject, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	classes, err := s.repo.CountClasses(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch subject")
	}
	return &models.SubjectOverview{Subject: subject, Totals: models.SubjectTotals{Classes: classes}}, nil
}

// ListClasses returns the classes of a subject with their teacher.
func (s *SubjectService) ListClasses(ctx context.Context, id int64, q dto.PageQuery) ([]models.ClassWithTeacher, *models.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, validationError(err)
	}
	page, limit, err := s.resolve(q)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, nil, err
	}
	items, total, err := s.classes.ListBySubject(ctx, id, page, limit)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "Failed to fetch subject classes")
	}
	return items, models.NewPagination(page, limit, total), nil
}

// Create validates references and persists a subject.
func (s *SubjectService) Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.SubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := s.ensureDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if err := s.ensureCodeAvailable(ctx, code, 0); err != nil {
		return nil, err
	}

	subject := &models.Subject{
		DepartmentID: req.DepartmentID,
		Name:         strings.TrimSpace(req.Name),
		Code:         code,
		Description:  req.Description,
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, writeError(err, "Failed to create subject", subjectConstraints)
	}
	invalidateStats(ctx, s.cache)
	s.logger.Info("subject created", zap.Int64("subject_id", subject.ID), zap.String("code", subject.Code))
	return s.find(ctx, subject.ID)
}

// Update applies the supplied fields to a subject.
func (s *SubjectService) Update(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.SubjectDetail, error) {
	if req.Empty() {
		return nil, errEmptyUpdate
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	subject := current.Subject

	if req.DepartmentID != nil && *req.DepartmentID != subject.DepartmentID {
		if err := s.ensureDepartment(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		subject.DepartmentID = *req.DepartmentID
	}
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code != subject.Code {
			if err := s.ensureCodeAvailable(ctx, code, id); err != nil {
				return nil, err
			}
		}
		subject.Code = code
	}
	if req.Name != nil {
		subject.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description.Set {
		subject.Description = req.Description.Value
	}

	if err := s.repo.Update(ctx, &subject); err != nil {
		return nil, writeError(err, "Failed to update subject", subjectConstraints)
	}
	invalidateStats(ctx, s.cache)
	return s.find(ctx, id)
}

// Delete removes a subject that no class references.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return writeError(err, "Failed to delete subject", subjectConstraints)
	}
	if !deleted {
		return appErrors.NotFound("Subject not found")
	}
	invalidateStats(ctx, s.cache)
	return nil
}

func (s *SubjectService) find(ctx context.Context, id int64) (*models.SubjectDetail, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch subject")
	}
	if subject == nil {
		return nil, appErrors.NotFound("Subject not found")
	}
	return subject, nil
}

func (s *SubjectService) ensureDepartment(ctx context.Context, id int64) error {
	department, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "Failed to fetch department")
	}
	if department == nil {
		return appErrors.NotFound("Department not found")
	}
	return nil
}

func (s *SubjectService) ensureCodeAvailable(ctx context.Context, code string, selfID int64) error {
	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return appErrors.Internal(err, "Failed to check subject code")
	}
	if existing != nil && existing.ID != selfID {
		return appErrors.Conflict("Subject code already exists")
	}
	return nil
}
