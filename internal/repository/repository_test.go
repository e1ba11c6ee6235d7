package repository

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func TestPredicateBuild(t *testing.T) {
	var where predicate
	clause, args := where.build()
	assert.Empty(t, clause)
	assert.Empty(t, args)

	where = where.and(ilikeAny("50%_off", "a.name", "a.code")).and(eq("a.role", "teacher"))
	clause, args = where.build()
	assert.Equal(t, " WHERE (a.name ILIKE ? OR a.code ILIKE ?) AND a.role = ?", clause)
	assert.Equal(t, []interface{}{`%50\%\_off%`, `%50\%\_off%`, "teacher"}, args)
}

func TestNestedList(t *testing.T) {
	assert.Equal(t, `d.id AS "department.id", d.name AS "department.name"`, nestedList("d", "department", []string{"id", "name"}))
	assert.Equal(t, "u.id, u.name", selectList("u", []string{"id", "name"}))
}
