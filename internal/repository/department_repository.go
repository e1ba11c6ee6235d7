package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

// DepartmentRepository manages persistence for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a department repository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns departments matching filter with the total count.
func (r *DepartmentRepository) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error) {
	var where predicate
	if filter.Search != "" {
		where = where.and(ilikeAny(filter.Search, "d.name", "d.code"))
	}

	return listPage[models.Department](ctx, r.db, pageSpec{
		name:    "departments",
		count:   "SELECT COUNT(*) FROM departments d",
		query:   "SELECT " + selectList("d", departmentColumns) + " FROM departments d",
		where:   where,
		orderBy: "d.created_at DESC, d.id DESC",
		page:    filter.Page,
		limit:   filter.Limit,
	})
}

// FindByID returns the department or nil when absent.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	query := "SELECT " + strings.Join(departmentColumns, ", ") + " FROM departments WHERE id = $1"
	department, err := getOne[models.Department](ctx, r.db, query, id)
	if err != nil {
		return nil, fmt.Errorf("find department: %w", err)
	}
	return department, nil
}

// FindByCode returns the department owning code or nil when absent.
func (r *DepartmentRepository) FindByCode(ctx context.Context, code string) (*models.Department, error) {
	query := "SELECT " + strings.Join(departmentColumns, ", ") + " FROM departments WHERE code = $1"
	department, err := getOne[models.Department](ctx, r.db, query, code)
	if err != nil {
		return nil, fmt.Errorf("find department by code: %w", err)
	}
	return department, nil
}

// Create persists a department and fills its generated fields.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	now := time.Now().UTC()
	department.CreatedAt = now
	department.UpdatedAt = now

	const query = `INSERT INTO departments (code, name, description, created_at, updated_at) VALUES (:code, :name, :description, :created_at, :updated_at) RETURNING id`
	if err := insertReturning(ctx, r.db, query, department, &department.ID); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// Update writes every mutable column of department.
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	department.UpdatedAt = time.Now().UTC()
	const query = `UPDATE departments SET code = :code, name = :name, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, department); err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// Delete removes a department, reporting whether a row was deleted.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := deleteByID(ctx, r.db, "departments", id)
	if err != nil {
		return false, fmt.Errorf("delete department: %w", err)
	}
	return deleted, nil
}

// CountSubjects returns how many subjects belong to the department.
func (r *DepartmentRepository) CountSubjects(ctx context.Context, id int64) (int, error) {
	count, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM subjects WHERE department_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("count department subjects: %w", err)
	}
	return count, nil
}
