package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

func newEnrollmentService(w *world, cache *CacheService) *EnrollmentService {
	return NewEnrollmentService(fakeEnrollments{w}, fakeClasses{w}, fakeUsers{w}, cache, nil, nil)
}

func TestEnrollmentServiceCreate(t *testing.T) {
	w, s := seedClassWorld()
	c := w.addClass(s.ID, "grace", "abc1234")
	w.addUser("linus", models.RoleStudent)
	svc := newEnrollmentService(w, nil)

	enrollment, err := svc.Create(context.Background(), dto.CreateEnrollmentRequest{ClassID: c.ID, StudentID: "linus"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, enrollment.ClassID)
	assert.Equal(t, "Linus", enrollment.Student.Name)
	assert.Equal(t, "abc1234", enrollment.Class.InviteCode)
}

func TestEnrollmentServiceRejectsDuplicate(t *testing.T) {
	w, s := seedClassWorld()
	c := w.addClass(s.ID, "grace", "abc1234")
	w.addUser("linus", models.RoleStudent)
	w.enroll(c.ID, "linus")
	svc := newEnrollmentService(w, nil)

	_, err := svc.Create(context.Background(), dto.CreateEnrollmentRequest{ClassID: c.ID, StudentID: "linus"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Len(t, w.enrollments, 1)
}

func TestEnrollmentServiceRejectsFullClass(t *testing.T) {
	w, s := seedClassWorld()
	c := w.addClass(s.ID, "grace", "abc1234")
	c.Capacity = intPtr(1)
	w.addUser("linus", models.RoleStudent)
	w.addUser("ada", models.RoleStudent)
	w.enroll(c.ID, "linus")
	svc := newEnrollmentService(w, nil)

	_, err := svc.Create(context.Background(), dto.CreateEnrollmentRequest{ClassID: c.ID, StudentID: "ada"})
	require.Error(t, err)
	assert.Equal(t, "Class is full", appErrors.FromError(err).Message)
}

func TestEnrollmentServiceRejectsNonStudent(t *testing.T) {
	w, s := seedClassWorld()
	c := w.addClass(s.ID, "grace", "abc1234")
	svc := newEnrollmentService(w, nil)

	_, err := svc.Create(context.Background(), dto.CreateEnrollmentRequest{ClassID: c.ID, StudentID: "grace"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "User is not a student", appErr.Message)

	_, err = svc.Create(context.Background(), dto.CreateEnrollmentRequest{ClassID: c.ID, StudentID: "ghost"})
	assert.Equal(t, "Student not found", appErrors.FromError(err).Message)

	_, err = svc.Create(context.Background(), dto.CreateEnrollmentRequest{ClassID: 999, StudentID: "grace"})
	assert.Equal(t, "Class not found", appErrors.FromError(err).Message)
}

func TestEnrollmentServiceJoinByInviteCode(t *testing.T) {
	w, s := seedClassWorld()
	c := w.addClass(s.ID, "grace", "abc1234")
	closed := w.addClass(s.ID, "grace", "def5678")
	closed.Status = models.ClassStatusInactive
	w.addUser("linus", models.RoleStudent)
	svc := newEnrollmentService(w, nil)

	enrollment, err := svc.Join(context.Background(), dto.JoinClassRequest{InviteCode: "abc1234", StudentID: "linus"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, enrollment.ClassID)

	_, err = svc.Join(context.Background(), dto.JoinClassRequest{InviteCode: "def5678", StudentID: "linus"})
	require.Error(t, err)
	assert.Equal(t, "Class is not accepting enrollments", appErrors.FromError(err).Message)

	_, err = svc.Join(context.Background(), dto.JoinClassRequest{InviteCode: "nope", StudentID: "linus"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestEnrollmentServiceInvalidatesStats(t *testing.T) {
	w, s := seedClassWorld()
	c := w.addClass(s.ID, "grace", "abc1234")
	w.addUser("linus", models.RoleStudent)
	repo := newMemoryCache()
	repo.values[statsOverviewKey] = &models.StatsOverview{Users: 1}
	cache := NewCacheService(repo, nil, 0, nil, true)
	svc := newEnrollmentService(w, cache)

	_, err := svc.Create(context.Background(), dto.CreateEnrollmentRequest{ClassID: c.ID, StudentID: "linus"})
	require.NoError(t, err)
	assert.Equal(t, []string{"stats:*"}, repo.invalidated)
	assert.Empty(t, repo.values)
}

func TestEnrollmentServiceListAndDelete(t *testing.T) {
	w, s := seedClassWorld()
	c := w.addClass(s.ID, "grace", "abc1234")
	w.addUser("linus", models.RoleStudent)
	w.addUser("ada", models.RoleStudent)
	e := w.enroll(c.ID, "linus")
	w.enroll(c.ID, "ada")
	svc := newEnrollmentService(w, nil)

	items, pagination, err := svc.List(context.Background(), dto.EnrollmentListQuery{StudentID: "linus"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, pagination.Total)

	require.NoError(t, svc.Delete(context.Background(), e.ID))
	_, err = svc.Get(context.Background(), e.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(context.Background(), e.ID), appErrors.ErrNotFound))
}

func TestEnrollmentServiceRejectsBlankStudent(t *testing.T) {
	w, s := seedClassWorld()
	c := w.addClass(s.ID, "grace", "abc1234")
	svc := newEnrollmentService(w, nil)

	_, err := svc.Join(context.Background(), dto.JoinClassRequest{InviteCode: c.InviteCode, StudentID: "  "})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "studentId must not be blank", appErr.Message)
	assert.Empty(t, w.enrollments)
}
