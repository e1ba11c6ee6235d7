package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

const subjectDetailFrom = " FROM subjects s JOIN departments d ON d.id = s.department_id"

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func subjectDetailSelect() string {
	return "SELECT " + selectList("s", subjectColumns) + ", " + nestedList("d", "department", departmentColumns)
}

// List returns subjects with their department. Department filters apply to the
// joined department, so the count query carries the same join.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error) {
	var where predicate
	if filter.Search != "" {
		where = where.and(ilikeAny(filter.Search, "s.name", "s.code"))
	}
	if filter.Department != "" {
		where = where.and(ilikeAny(filter.Department, "d.name"))
	}
	if filter.DepartmentID > 0 {
		where = where.and(eq("s.department_id", filter.DepartmentID))
	}

	return listPage[models.SubjectDetail](ctx, r.db, pageSpec{
		name:    "subjects",
		count:   "SELECT COUNT(*)" + subjectDetailFrom,
		query:   subjectDetailSelect() + subjectDetailFrom,
		where:   where,
		orderBy: "s.created_at DESC, s.id DESC",
		page:    filter.Page,
		limit:   filter.Limit,
	})
}

// FindByID returns the subject with its department, or nil when absent.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.SubjectDetail, error) {
	query := subjectDetailSelect() + subjectDetailFrom + " WHERE s.id = $1"
	subject, err := getOne[models.SubjectDetail](ctx, r.db, query, id)
	if err != nil {
		return nil, fmt.Errorf("find subject: %w", err)
	}
	return subject, nil
}

// FindByCode returns the subject owning code or nil when absent.
func (r *SubjectRepository) FindByCode(ctx context.Context, code string) (*models.Subject, error) {
	query := "SELECT " + strings.Join(subjectColumns, ", ") + " FROM subjects WHERE code = $1"
	subject, err := getOne[models.Subject](ctx, r.db, query, code)
	if err != nil {
		return nil, fmt.Errorf("find subject by code: %w", err)
	}
	return subject, nil
}

// Create persists a new subject and fills its generated fields.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (department_id, name, code, description, created_at, updated_at) VALUES (:department_id, :name, :code, :description, :created_at, :updated_at) RETURNING id`
	if err := insertReturning(ctx, r.db, query, subject, &subject.ID); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update writes every mutable column of subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET department_id = :department_id, name = :name, code = :code, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject, reporting whether a row was deleted.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := deleteByID(ctx, r.db, "subjects", id)
	if err != nil {
		return false, fmt.Errorf("delete subject: %w", err)
	}
	return deleted, nil
}

// CountClasses returns number of classes teaching the subject.
func (r *SubjectRepository) CountClasses(ctx context.Context, id int64) (int, error) {
	count, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM classes WHERE subject_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("count subject classes: %w", err)
	}
	return count, nil
}
