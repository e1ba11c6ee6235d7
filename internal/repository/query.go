package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

// condition is one boolean term of a WHERE clause. SQL uses ? placeholders that
// are rebound to the driver's bindvar style once the statement is assembled.
type condition struct {
	sql  string
	args []interface{}
}

func eq(column string, value interface{}) condition {
	return condition{sql: column + " = ?", args: []interface{}{value}}
}

// ilikeAny matches search as a case-insensitive substring of any column.
func ilikeAny(search string, columns ...string) condition {
	pattern := "%" + escapeLike(search) + "%"
	terms := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		terms[i] = column + " ILIKE ?"
		args[i] = pattern
	}
	return condition{sql: "(" + strings.Join(terms, " OR ") + ")", args: args}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// predicate is a conjunction of conditions. Only supplied filters are added, so
// an absent parameter contributes no clause at all.
type predicate []condition

func (p predicate) and(c condition) predicate {
	return append(p, c)
}

// build renders " WHERE a AND b" (or "") and the arguments in placeholder order.
func (p predicate) build() (string, []interface{}) {
	if len(p) == 0 {
		return "", nil
	}
	terms := make([]string, len(p))
	var args []interface{}
	for i, c := range p {
		terms[i] = c.sql
		args = append(args, c.args...)
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

// pageSpec describes a count query and a page query sharing one predicate.
type pageSpec struct {
	name    string
	count   string
	query   string
	where   predicate
	groupBy string
	orderBy string
	page    int
	limit   int
}

// listPage runs the count and page queries inside one read-only repeatable-read
// transaction so the total always describes the same snapshot as the page.
func listPage[T any](ctx context.Context, db *sqlx.DB, spec pageSpec) ([]T, int, error) {
	clause, args := spec.where.build()
	offset := models.Offset(spec.page, spec.limit)

	countQuery := db.Rebind(spec.count + clause)
	pageQuery := db.Rebind(spec.query + clause + spec.groupBy + " ORDER BY " + spec.orderBy + " LIMIT ? OFFSET ?")
	pageArgs := make([]interface{}, 0, len(args)+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, spec.limit, offset)

	items := make([]T, 0)
	var total int
	err := readSnapshot(ctx, db, func(q sqlx.QueryerContext) error {
		if err := sqlx.GetContext(ctx, q, &total, countQuery, args...); err != nil {
			return fmt.Errorf("count %s: %w", spec.name, err)
		}
		if total == 0 || offset >= total {
			return nil
		}
		if err := sqlx.SelectContext(ctx, q, &items, pageQuery, pageArgs...); err != nil {
			return fmt.Errorf("list %s: %w", spec.name, err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func readSnapshot(ctx context.Context, db *sqlx.DB, fn func(q sqlx.QueryerContext) error) error {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// getOne loads a single row; a missing row yields (nil, nil).
func getOne[T any](ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (*T, error) {
	var out T
	if err := db.GetContext(ctx, &out, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func countRows(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (int, error) {
	var count int
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func deleteByID(ctx context.Context, db *sqlx.DB, table string, id interface{}) (bool, error) {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// insertReturning executes a named INSERT ... RETURNING and scans into dest.
func insertReturning(ctx context.Context, db *sqlx.DB, query string, arg interface{}, dest ...interface{}) error {
	bound, args, err := db.BindNamed(query, arg)
	if err != nil {
		return err
	}
	return db.QueryRowxContext(ctx, bound, args...).Scan(dest...)
}

// selectList renders "alias.col, ..." for the given columns.
func selectList(alias string, cols []string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = alias + "." + col
	}
	return strings.Join(parts, ", ")
}

// nestedList renders `alias.col AS "prefix.col", ...` so sqlx scans the join into
// a nested struct tagged with prefix.
func nestedList(alias, prefix string, cols []string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf(`%s.%s AS "%s.%s"`, alias, col, prefix, col)
	}
	return strings.Join(parts, ", ")
}

var (
	userColumns       = []string{"id", "name", "email", "email_verified", "image", "image_cld_pub_id", "role", "created_at", "updated_at"}
	departmentColumns = []string{"id", "code", "name", "description", "created_at", "updated_at"}
	subjectColumns    = []string{"id", "department_id", "name", "code", "description", "created_at", "updated_at"}
	classColumns      = []string{"id", "subject_id", "teacher_id", "invite_code", "name", "banner_cld_pub_id", "banner_url", "description", "capacity", "status", "schedules", "created_at", "updated_at"}
	enrollmentColumns = []string{"id", "student_id", "class_id", "created_at"}
)
