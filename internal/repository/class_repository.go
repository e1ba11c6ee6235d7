package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

const classDetailFrom = ` FROM classes c
JOIN subjects s ON s.id = c.subject_id
JOIN departments d ON d.id = s.department_id
JOIN users u ON u.id = c.teacher_id`

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching filter criteria.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	var where predicate
	if filter.Search != "" {
		where = where.and(ilikeAny(filter.Search, "c.name", "c.invite_code"))
	}
	if filter.SubjectID > 0 {
		where = where.and(eq("c.subject_id", filter.SubjectID))
	}
	if filter.TeacherID != "" {
		where = where.and(eq("c.teacher_id", filter.TeacherID))
	}
	if filter.Status != "" {
		where = where.and(eq("c.status", string(filter.Status)))
	}

	return listPage[models.Class](ctx, r.db, pageSpec{
		name:    "classes",
		count:   "SELECT COUNT(*) FROM classes c",
		query:   "SELECT " + selectList("c", classColumns) + " FROM classes c",
		where:   where,
		orderBy: "c.created_at DESC, c.id DESC",
		page:    filter.Page,
		limit:   filter.Limit,
	})
}

// ListBySubject returns the classes of a subject with their teacher.
func (r *ClassRepository) ListBySubject(ctx context.Context, subjectID int64, page, limit int) ([]models.ClassWithTeacher, int, error) {
	where := predicate{eq("c.subject_id", subjectID)}
	return listPage[models.ClassWithTeacher](ctx, r.db, pageSpec{
		name:    "subject classes",
		count:   "SELECT COUNT(*) FROM classes c",
		query:   "SELECT " + selectList("c", classColumns) + ", " + nestedList("u", "teacher", userColumns) + " FROM classes c JOIN users u ON u.id = c.teacher_id",
		where:   where,
		orderBy: "c.created_at DESC, c.id DESC",
		page:    page,
		limit:   limit,
	})
}

// FindByID returns the canonical class view or nil when absent.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	query := "SELECT " + selectList("c", classColumns) + ", " +
		nestedList("s", "subject", subjectColumns) + ", " +
		nestedList("d", "department", departmentColumns) + ", " +
		nestedList("u", "teacher", userColumns) +
		classDetailFrom + " WHERE c.id = $1"
	class, err := getOne[models.ClassDetail](ctx, r.db, query, id)
	if err != nil {
		return nil, fmt.Errorf("find class: %w", err)
	}
	return class, nil
}

// FindByInviteCode returns the class holding code or nil when absent.
func (r *ClassRepository) FindByInviteCode(ctx context.Context, code string) (*models.Class, error) {
	query := "SELECT " + strings.Join(classColumns, ", ") + " FROM classes WHERE invite_code = $1"
	class, err := getOne[models.Class](ctx, r.db, query, code)
	if err != nil {
		return nil, fmt.Errorf("find class by invite code: %w", err)
	}
	return class, nil
}

// Create persists a class record and fills its generated fields.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now
	if class.Schedules == nil {
		class.Schedules = models.Schedules{}
	}
	if class.Status == "" {
		class.Status = models.ClassStatusActive
	}

	const query = `INSERT INTO classes (subject_id, teacher_id, invite_code, name, banner_cld_pub_id, banner_url, description, capacity, status, schedules, created_at, updated_at)
VALUES (:subject_id, :teacher_id, :invite_code, :name, :banner_cld_pub_id, :banner_url, :description, :capacity, :status, :schedules, :created_at, :updated_at) RETURNING id`
	if err := insertReturning(ctx, r.db, query, class, &class.ID); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update writes every mutable column of class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET subject_id = :subject_id, teacher_id = :teacher_id, invite_code = :invite_code, name = :name,
banner_cld_pub_id = :banner_cld_pub_id, banner_url = :banner_url, description = :description, capacity = :capacity,
status = :status, schedules = :schedules, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class record; enrollments cascade.
func (r *ClassRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := deleteByID(ctx, r.db, "classes", id)
	if err != nil {
		return false, fmt.Errorf("delete class: %w", err)
	}
	return deleted, nil
}

// CountEnrollments returns how many students are enrolled in the class.
func (r *ClassRepository) CountEnrollments(ctx context.Context, classID int64) (int, error) {
	count, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM enrollments WHERE class_id = $1`, classID)
	if err != nil {
		return 0, fmt.Errorf("count class enrollments: %w", err)
	}
	return count, nil
}
