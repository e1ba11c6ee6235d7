package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

// StatsRepository aggregates counts across the schema.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a stats repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview counts every managed resource in one round trip.
func (r *StatsRepository) Overview(ctx context.Context) (*models.StatsOverview, error) {
	const query = `SELECT
    (SELECT COUNT(*) FROM users) AS users,
    (SELECT COUNT(*) FROM users WHERE role = 'teacher') AS teachers,
    (SELECT COUNT(*) FROM users WHERE role = 'student') AS students,
    (SELECT COUNT(*) FROM users WHERE role = 'admin') AS admins,
    (SELECT COUNT(*) FROM departments) AS departments,
    (SELECT COUNT(*) FROM subjects) AS subjects,
    (SELECT COUNT(*) FROM classes) AS classes,
    (SELECT COUNT(*) FROM enrollments) AS enrollments`
	var overview models.StatsOverview
	if err := r.db.GetContext(ctx, &overview, query); err != nil {
		return nil, fmt.Errorf("stats overview: %w", err)
	}
	return &overview, nil
}

// UsersByRole groups users by role.
func (r *StatsRepository) UsersByRole(ctx context.Context) ([]models.RoleCount, error) {
	const query = `SELECT role, COUNT(*) AS total FROM users GROUP BY role ORDER BY role`
	rows := make([]models.RoleCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("stats users by role: %w", err)
	}
	return rows, nil
}

// SubjectsByDepartment counts subjects per department, including empty ones.
func (r *StatsRepository) SubjectsByDepartment(ctx context.Context) ([]models.GroupCount, error) {
	const query = `SELECT d.id, d.name, COUNT(s.id) AS total
FROM departments d LEFT JOIN subjects s ON s.department_id = d.id
GROUP BY d.id, d.name ORDER BY total DESC, d.name`
	rows := make([]models.GroupCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("stats subjects by department: %w", err)
	}
	return rows, nil
}

// ClassesBySubject counts classes per subject, including empty ones.
func (r *StatsRepository) ClassesBySubject(ctx context.Context) ([]models.GroupCount, error) {
	const query = `SELECT s.id, s.name, COUNT(c.id) AS total
FROM subjects s LEFT JOIN classes c ON c.subject_id = s.id
GROUP BY s.id, s.name ORDER BY total DESC, s.name`
	rows := make([]models.GroupCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("stats classes by subject: %w", err)
	}
	return rows, nil
}
