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

type departmentRepository interface {
	List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	FindByCode(ctx context.Context, code string) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id int64) (bool, error)
	CountSubjects(ctx context.Context, id int64) (int, error)
}

var departmentConstraints = constraintErrors{
	"departments_code_unique":     appErrors.Conflict("Department code already exists"),
	"subjects_department_id_fkey": appErrors.Conflict("Department still has subjects"),
}

// DepartmentService coordinates department workflows.
type DepartmentService struct {
	pager
	repo      departmentRepository
	subjects  subjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs a department service.
func NewDepartmentService(repo departmentRepository, subjects subjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, subjects: subjects, cache: cache, validator: validate, logger: logger}
}

// List returns departments matching the query.
func (s *DepartmentService) List(ctx context.Context, q dto.DepartmentListQuery) ([]models.Department, *models.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, validationError(err)
	}
	page, limit, err := s.resolve(q.PageQuery)
	if err != nil {
		return nil, nil, err
	}
	items, total, err := s.repo.List(ctx, models.DepartmentFilter{Search: strings.TrimSpace(q.Search), Page: page, Limit: limit})
	if err != nil {
		s.logger.Error("list departments failed", zap.Error(err))
		return nil, nil, appErrors.Internal(err, "Failed to fetch departments")
	}
	return items, models.NewPagination(page, limit, total), nil
}

// Get returns a department with its subject total.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*models.DepartmentDetail, error) {
	department, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	subjects, err := s.repo.CountSubjects(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch department")
	}
	return &models.DepartmentDetail{Department: department, Totals: models.DepartmentTotals{Subjects: subjects}}, nil
}

// ListSubjects returns the subjects owned by a department.
func (s *DepartmentService) ListSubjects(ctx context.Context, id int64, q dto.PageQuery) ([]models.SubjectDetail, *models.Pagination, error) {
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
	items, total, err := s.subjects.List(ctx, models.SubjectFilter{DepartmentID: id, Page: page, Limit: limit})
	if err != nil {
		return nil, nil, appErrors.Internal(err, "Failed to fetch department subjects")
	}
	return items, models.NewPagination(page, limit, total), nil
}

// Create validates and persists a department.
func (s *DepartmentService) Create(ctx context.Context, req dto.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	code := strings.TrimSpace(req.Code)
	if err := s.ensureCodeAvailable(ctx, code, 0); err != nil {
		return nil, err
	}

	department := &models.Department{Code: code, Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, writeError(err, "Failed to create department", departmentConstraints)
	}
	invalidateStats(ctx, s.cache)
	s.logger.Info("department created", zap.Int64("department_id", department.ID))
	return department, nil
}

// Update applies the supplied fields to a department.
func (s *DepartmentService) Update(ctx context.Context, id int64, req dto.UpdateDepartmentRequest) (*models.Department, error) {
	if req.Empty() {
		return nil, errEmptyUpdate
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	department, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code != department.Code {
			if err := s.ensureCodeAvailable(ctx, code, id); err != nil {
				return nil, err
			}
		}
		department.Code = code
	}
	if req.Name != nil {
		department.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description.Set {
		department.Description = req.Description.Value
	}

	if err := s.repo.Update(ctx, department); err != nil {
		return nil, writeError(err, "Failed to update department", departmentConstraints)
	}
	invalidateStats(ctx, s.cache)
	return s.find(ctx, id)
}

// Delete removes a department that owns no subjects.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return writeError(err, "Failed to delete department", departmentConstraints)
	}
	if !deleted {
		return appErrors.NotFound("Department not found")
	}
	invalidateStats(ctx, s.cache)
	return nil
}

func (s *DepartmentService) find(ctx context.Context, id int64) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch department")
	}
	if department == nil {
		return nil, appErrors.NotFound("Department not found")
	}
	return department, nil
}

func (s *DepartmentService) ensureCodeAvailable(ctx context.Context, code string, selfID int64) error {
	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return appErrors.Internal(err, "Failed to check department code")
	}
	if existing != nil && existing.ID != selfID {
		return appErrors.Conflict("Department code already exists")
	}
	return nil
}
