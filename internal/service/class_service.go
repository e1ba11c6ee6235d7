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

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	FindByID(ctx context.Context, id int64) (*models.ClassDetail, error)
	FindByInviteCode(ctx context.Context, code string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type subjectFinder interface {
	FindByID(ctx context.Context, id int64) (*models.SubjectDetail, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

var classConstraints = constraintErrors{
	"classes_invite_code_unique": appErrors.Conflict("Invite code already exists"),
	"classes_subject_id_fkey":    appErrors.NotFound("Subject not found"),
	"classes_teacher_id_fkey":    appErrors.NotFound("Teacher not found"),
}

// ClassOptions tunes invite code generation.
type ClassOptions struct {
	InviteCodes    InviteCodeGenerator
	InviteAttempts int
	Metrics        *MetricsService
}

// ClassService coordinates class workflows.
type ClassService struct {
	pager
	repo      classRepository
	subjects  subjectFinder
	users     userFinder
	codes     InviteCodeGenerator
	attempts  int
	metrics   *MetricsService
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a class service.
func NewClassService(repo classRepository, subjects subjectFinder, users userFinder, cache *CacheService, opts ClassOptions, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.InviteCodes == nil {
		opts.InviteCodes = RandomInviteCodes{Length: 7}
	}
	if opts.InviteAttempts <= 0 {
		opts.InviteAttempts = 5
	}
	return &ClassService{
		repo:      repo,
		subjects:  subjects,
		users:     users,
		codes:     opts.InviteCodes,
		attempts:  opts.InviteAttempts,
		metrics:   opts.Metrics,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// List returns classes matching the query.
func (s *ClassService) List(ctx context.Context, q dto.ClassListQuery) ([]models.Class, *models.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, validationError(err)
	}
	page, limit, err := s.resolve(q.PageQuery)
	if err != nil {
		return nil, nil, err
	}
	filter := models.ClassFilter{
		Search:    strings.TrimSpace(q.Search),
		TeacherID: strings.TrimSpace(q.TeacherID),
		Status:    models.ClassStatus(q.Status),
		Page:      page,
		Limit:     limit,
	}
	if q.SubjectID != nil {
		filter.SubjectID = *q.SubjectID
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list classes failed", zap.Error(err))
		return nil, nil, appErrors.Internal(err, "Failed to fetch classes")
	}
	return items, models.NewPagination(page, limit, total), nil
}

// Get returns the canonical class view.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.ClassDetail, error) {
	return s.find(ctx, id)
}

// GetByInviteCode resolves a class from its invite code.
func (s *ClassService) GetByInviteCode(ctx context.Context, code string) (*models.ClassDetail, error) {
	class, err := s.repo.FindByInviteCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch class")
	}
	if class == nil {
		return nil, appErrors.NotFound("Class not found")
	}
	return s.find(ctx, class.ID)
}

// Create validates references, assigns a unique invite code and persists a class.
func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*models.ClassDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := s.ensureSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}
	teacherID := strings.TrimSpace(req.TeacherID)
	if err := s.ensureTeacher(ctx, teacherID); err != nil {
		return nil, err
	}
	code, err := s.uniqueInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	class := &models.Class{
		SubjectID:      req.SubjectID,
		TeacherID:      teacherID,
		InviteCode:     code,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		BannerURL:      req.BannerURL,
		BannerCldPubID: req.BannerCldPubID,
		Capacity:       req.Capacity,
		Status:         models.ClassStatusActive,
		Schedules:      models.Schedules{},
	}
	if req.Status != nil {
		class.Status = models.ClassStatus(*req.Status)
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, writeError(err, "Failed to create class", classConstraints)
	}
	invalidateStats(ctx, s.cache)
	s.logger.Info("class created", zap.Int64("class_id", class.ID), zap.String("invite_code", class.InviteCode))
	return s.find(ctx, class.ID)
}

// Update applies the supplied fields to a class.
func (s *ClassService) Update(ctx context.Context, id int64, req dto.UpdateClassRequest) (*models.ClassDetail, error) {
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
	class := current.Class

	if req.SubjectID != nil && *req.SubjectID != class.SubjectID {
		if err := s.ensureSubject(ctx, *req.SubjectID); err != nil {
			return nil, err
		}
		class.SubjectID = *req.SubjectID
	}
	if req.TeacherID != nil {
		if teacherID := strings.TrimSpace(*req.TeacherID); teacherID != class.TeacherID {
			if err := s.ensureTeacher(ctx, teacherID); err != nil {
				return nil, err
			}
			class.TeacherID = teacherID
		}
	}
	if req.InviteCode != nil {
		code := strings.TrimSpace(*req.InviteCode)
		if code != class.InviteCode {
			existing, err := s.repo.FindByInviteCode(ctx, code)
			if err != nil {
				return nil, appErrors.Internal(err, "Failed to check invite code")
			}
			if existing != nil && existing.ID != id {
				return nil, appErrors.Conflict("Invite code already exists")
			}
		}
		class.InviteCode = code
	}
	if req.Name != nil {
		class.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description.Set {
		class.Description = req.Description.Value
	}
	if req.BannerURL.Set {
		class.BannerURL = req.BannerURL.Value
	}
	if req.BannerCldPubID.Set {
		class.BannerCldPubID = req.BannerCldPubID.Value
	}
	if req.Capacity != nil {
		class.Capacity = req.Capacity
	}
	if req.Status != nil {
		class.Status = models.ClassStatus(*req.Status)
	}
	if req.Schedules != nil {
		class.Schedules = trimSchedules(*req.Schedules)
	}

	if err := s.repo.Update(ctx, &class); err != nil {
		return nil, writeError(err, "Failed to update class", classConstraints)
	}
	invalidateStats(ctx, s.cache)
	return s.find(ctx, id)
}

func trimSchedules(in []models.Schedule) models.Schedules {
	out := make(models.Schedules, len(in))
	for i, slot := range in {
		out[i] = models.Schedule{
			Day:       strings.TrimSpace(slot.Day),
			StartTime: strings.TrimSpace(slot.StartTime),
			EndTime:   strings.TrimSpace(slot.EndTime),
		}
	}
	return out
}

// Delete removes a class together with its enrollments.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return writeError(err, "Failed to delete class", classConstraints)
	}
	if !deleted {
		return appErrors.NotFound("Class not found")
	}
	invalidateStats(ctx, s.cache)
	return nil
}

// uniqueInviteCode draws codes until one is unused or the attempts run out.
func (s *ClassService) uniqueInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.attempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return "", appErrors.Internal(err, "Failed to generate invite code")
		}
		existing, err := s.repo.FindByInviteCode(ctx, code)
		if err != nil {
			return "", appErrors.Internal(err, "Failed to check invite code")
		}
		if existing == nil {
			return code, nil
		}
		s.metrics.RecordInviteCollision()
	}
	s.logger.Error("invite code generation exhausted", zap.Int("attempts", s.attempts))
	return "", appErrors.ErrInviteCodeExhausted
}

func (s *ClassService) find(ctx context.Context, id int64) (*models.ClassDetail, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch class")
	}
	if class == nil {
		return nil, appErrors.NotFound("Class not found")
	}
	return class, nil
}

func (s *ClassService) ensureSubject(ctx context.Context, id int64) error {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "Failed to fetch subject")
	}
	if subject == nil {
		return appErrors.NotFound("Subject not found")
	}
	return nil
}

func (s *ClassService) ensureTeacher(ctx context.Context, id string) error {
	teacher, err := s.users.FindByID(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "Failed to fetch teacher")
	}
	if teacher == nil {
		return appErrors.NotFound("Teacher not found")
	}
	return nil
}
