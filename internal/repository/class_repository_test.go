package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
)

func prefixed(prefix string, cols []string) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = prefix + "." + col
	}
	return out
}

func TestClassRepositoryFindByIDScansCanonicalView(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	cols := append([]string{}, classColumns...)
	cols = append(cols, prefixed("subject", subjectColumns)...)
	cols = append(cols, prefixed("department", departmentColumns)...)
	cols = append(cols, prefixed("teacher", userColumns)...)

	row := []driver.Value{int64(5), int64(7), "t-1", "abc1234", "Algebra A", nil, nil, nil, int64(30), "active", []byte(`[{"day":"mon","startTime":"08:00","endTime":"09:00"}]`), now, now}
	row = append(row, int64(7), int64(3), "Algebra", "ALG1", nil, now, now)
	row = append(row, int64(3), "MATH", "Mathematics", nil, now, now)
	row = append(row, "t-1", "Grace", "grace@example.com", true, nil, nil, "teacher", now, now)

	rows := sqlmock.NewRows(cols).AddRow(row...)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	class, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, class)
	assert.Equal(t, "abc1234", class.InviteCode)
	require.NotNil(t, class.Capacity)
	assert.Equal(t, 30, *class.Capacity)
	require.Len(t, class.Schedules, 1)
	assert.Equal(t, "mon", class.Schedules[0].Day)
	assert.Equal(t, "Algebra", class.Subject.Name)
	assert.Equal(t, "MATH", class.Department.Code)
	assert.Equal(t, "grace@example.com", class.Teacher.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM classes c WHERE c.subject_id = $1 AND c.teacher_id = $2 AND c.status = $3")).
		WithArgs(int64(7), "t-1", "archived").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	items, total, err := repo.List(context.Background(), models.ClassFilter{SubjectID: 7, TeacherID: "t-1", Status: models.ClassStatusArchived, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryCreateDefaultsSchedules(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO classes")).
		WithArgs(int64(7), "t-1", "abc1234", "Algebra A", nil, nil, nil, nil, "active", []byte("[]"), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	class := &models.Class{SubjectID: 7, TeacherID: "t-1", InviteCode: "abc1234", Name: "Algebra A"}
	require.NoError(t, repo.Create(context.Background(), class))
	assert.Equal(t, int64(12), class.ID)
	assert.Equal(t, models.ClassStatusActive, class.Status)
	assert.NotNil(t, class.Schedules)
	assert.NoError(t, mock.ExpectationsWereMet())
}
