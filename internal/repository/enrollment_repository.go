package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

const enrollmentDetailFrom = ` FROM enrollments e
JOIN classes c ON c.id = e.class_id
JOIN users u ON u.id = e.student_id`

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func enrollmentDetailSelect() string {
	return "SELECT " + selectList("e", enrollmentColumns) + ", " +
		nestedList("c", "class", classColumns) + ", " +
		nestedList("u", "student", userColumns)
}

// List returns enrollments filtered by the provided criteria.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	var where predicate
	if filter.ClassID > 0 {
		where = where.and(eq("e.class_id", filter.ClassID))
	}
	if filter.StudentID != "" {
		where = where.and(eq("e.student_id", filter.StudentID))
	}

	return listPage[models.EnrollmentDetail](ctx, r.db, pageSpec{
		name:    "enrollments",
		count:   "SELECT COUNT(*) FROM enrollments e",
		query:   enrollmentDetailSelect() + enrollmentDetailFrom,
		where:   where,
		orderBy: "e.created_at DESC, e.id DESC",
		page:    filter.Page,
		limit:   filter.Limit,
	})
}

// FindByID returns an enrollment with its class and student, or nil when absent.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect() + enrollmentDetailFrom + " WHERE e.id = $1"
	enrollment, err := getOne[models.EnrollmentDetail](ctx, r.db, query, id)
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return enrollment, nil
}

// FindByClassAndStudent returns the enrollment linking the pair or nil.
func (r *EnrollmentRepository) FindByClassAndStudent(ctx context.Context, classID int64, studentID string) (*models.Enrollment, error) {
	query := "SELECT " + strings.Join(enrollmentColumns, ", ") + " FROM enrollments WHERE class_id = $1 AND student_id = $2"
	enrollment, err := getOne[models.Enrollment](ctx, r.db, query, classID, studentID)
	if err != nil {
		return nil, fmt.Errorf("find enrollment by class and student: %w", err)
	}
	return enrollment, nil
}

// Create persists an enrollment and fills its generated fields.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO enrollments (student_id, class_id, created_at) VALUES (:student_id, :class_id, :created_at) RETURNING id`
	if err := insertReturning(ctx, r.db, query, enrollment, &enrollment.ID); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment, reporting whether a row was deleted.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := deleteByID(ctx, r.db, "enrollments", id)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	return deleted, nil
}
