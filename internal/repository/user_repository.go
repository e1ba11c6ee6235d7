package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

// UserRepository provides persistence for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns users with pagination applied.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var where predicate
	if filter.Search != "" {
		where = where.and(ilikeAny(filter.Search, "u.name", "u.email"))
	}
	if filter.Role != "" {
		where = where.and(eq("u.role", string(filter.Role)))
	}

	return listPage[models.User](ctx, r.db, pageSpec{
		name:    "users",
		count:   "SELECT COUNT(*) FROM users u",
		query:   "SELECT " + selectList("u", userColumns) + " FROM users u",
		where:   where,
		orderBy: "u.created_at DESC, u.id DESC",
		page:    filter.Page,
		limit:   filter.Limit,
	})
}

// ListRoster returns the distinct users holding filter.Role in a class or subject.
// Teachers are resolved through classes.teacher_id and students through
// enrollments; a user reachable through several rows is returned once.
func (r *UserRepository) ListRoster(ctx context.Context, filter models.RosterFilter) ([]models.User, int, error) {
	from := " FROM users u"
	where := predicate{eq("u.role", string(filter.Role))}

	switch {
	case filter.Role == models.RoleTeacher:
		from += " JOIN classes c ON c.teacher_id = u.id"
	case filter.Scope == models.RosterScopeClass:
		from += " JOIN enrollments e ON e.student_id = u.id"
	default:
		from += " JOIN enrollments e ON e.student_id = u.id JOIN classes c ON c.id = e.class_id"
	}

	switch {
	case filter.Scope == models.RosterScopeSubject:
		where = where.and(eq("c.subject_id", filter.ScopeID))
	case filter.Role == models.RoleTeacher:
		where = where.and(eq("c.id", filter.ScopeID))
	default:
		where = where.and(eq("e.class_id", filter.ScopeID))
	}

	columns := selectList("u", userColumns)
	return listPage[models.User](ctx, r.db, pageSpec{
		name:    "roster",
		count:   "SELECT COUNT(DISTINCT u.id)" + from,
		query:   "SELECT " + columns + from,
		where:   where,
		groupBy: " GROUP BY " + columns,
		orderBy: "u.created_at DESC, u.id DESC",
		page:    filter.Page,
		limit:   filter.Limit,
	})
}

// FindByID returns the user or nil when absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := "SELECT " + strings.Join(userColumns, ", ") + " FROM users WHERE id = $1"
	user, err := getOne[models.User](ctx, r.db, query, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// FindByEmail returns the user owning email or nil when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := "SELECT " + strings.Join(userColumns, ", ") + " FROM users WHERE LOWER(email) = LOWER($1)"
	user, err := getOne[models.User](ctx, r.db, query, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, name, email, email_verified, image, image_cld_pub_id, role, created_at, updated_at) VALUES (:id, :name, :email, :email_verified, :image, :image_cld_pub_id, :role, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update writes every mutable column of user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET name = :name, email = :email, email_verified = :email_verified, image = :image, image_cld_pub_id = :image_cld_pub_id, role = :role, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes a user, reporting whether a row was deleted.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := deleteByID(ctx, r.db, "users", id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return deleted, nil
}
