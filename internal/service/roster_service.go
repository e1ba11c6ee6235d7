package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/export"
)

type rosterRepository interface {
	ListRoster(ctx context.Context, filter models.RosterFilter) ([]models.User, int, error)
}

type classFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ClassDetail, error)
}

// RosterFile is a rendered roster ready to be sent as an attachment.
type RosterFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// RosterService lists and exports the teachers or students attached to a class or subject.
type RosterService struct {
	pager
	users     rosterRepository
	classes   classFinder
	subjects  subjectFinder
	exporters map[string]export.Exporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs a roster service rendering csv and pdf exports.
func NewRosterService(users rosterRepository, classes classFinder, subjects subjectFinder, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		users:    users,
		classes:  classes,
		subjects: subjects,
		exporters: map[string]export.Exporter{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		validator: validate,
		logger:    logger,
	}
}

// ListForClass returns the teachers or students of a class.
func (s *RosterService) ListForClass(ctx context.Context, classID int64, q dto.RosterQuery) ([]models.User, *models.Pagination, error) {
	if err := s.ensureClass(ctx, classID); err != nil {
		return nil, nil, err
	}
	return s.list(ctx, models.RosterScopeClass, classID, q)
}

// ListForSubject returns the teachers or students across every class of a subject.
func (s *RosterService) ListForSubject(ctx context.Context, subjectID int64, q dto.RosterQuery) ([]models.User, *models.Pagination, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "Failed to fetch subject")
	}
	if subject == nil {
		return nil, nil, appErrors.NotFound("Subject not found")
	}
	return s.list(ctx, models.RosterScopeSubject, subjectID, q)
}

// ExportClass renders the complete class roster for one role.
func (s *RosterService) ExportClass(ctx context.Context, classID int64, q dto.RosterExportQuery) (*RosterFile, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, validationError(err)
	}
	format := q.Format
	if format == "" {
		format = "csv"
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of [csv pdf]")
	}

	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch class")
	}
	if class == nil {
		return nil, appErrors.NotFound("Class not found")
	}

	role := models.UserRole(q.Role)
	users, err := s.collect(ctx, classID, role)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("%s (%s) %ss", class.Name, class.InviteCode, role),
		Headers: []string{"name", "email", "role", "joined"},
	}
	for _, user := range users {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"name":   user.Name,
			"email":  user.Email,
			"role":   string(user.Role),
			"joined": user.CreatedAt.UTC().Format(time.DateOnly),
		})
	}

	body, err := exporter.Render(dataset)
	if err != nil {
		s.logger.Error("render roster failed", zap.Int64("class_id", classID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Internal(err, "Failed to export roster")
	}
	return &RosterFile{
		Filename:    fmt.Sprintf("%s-%ss.%s", slug(class.Name, class.InviteCode), role, exporter.Extension()),
		ContentType: exporter.ContentType(),
		Body:        body,
	}, nil
}

func (s *RosterService) list(ctx context.Context, scope models.RosterScope, id int64, q dto.RosterQuery) ([]models.User, *models.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, validationError(err)
	}
	page, limit, err := s.resolve(q.PageQuery)
	if err != nil {
		return nil, nil, err
	}
	users, total, err := s.users.ListRoster(ctx, models.RosterFilter{
		Scope:   scope,
		ScopeID: id,
		Role:    models.UserRole(q.Role),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		s.logger.Error("list roster failed", zap.String("scope", string(scope)), zap.Int64("id", id), zap.Error(err))
		return nil, nil, appErrors.Internal(err, "Failed to fetch users")
	}
	return users, models.NewPagination(page, limit, total), nil
}

// collect walks every roster page at the maximum page size.
func (s *RosterService) collect(ctx context.Context, classID int64, role models.UserRole) ([]models.User, error) {
	limit := s.limits.Max
	if limit <= 0 {
		limit = DefaultPageLimits.Max
	}
	var all []models.User
	for page := 1; ; page++ {
		users, total, err := s.users.ListRoster(ctx, models.RosterFilter{
			Scope:   models.RosterScopeClass,
			ScopeID: classID,
			Role:    role,
			Page:    page,
			Limit:   limit,
		})
		if err != nil {
			return nil, appErrors.Internal(err, "Failed to fetch users")
		}
		all = append(all, users...)
		if len(users) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func (s *RosterService) ensureClass(ctx context.Context, id int64) error {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "Failed to fetch class")
	}
	if class == nil {
		return appErrors.NotFound("Class not found")
	}
	return nil
}

func slug(name, fallback string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return fallback
	}
	return out
}
