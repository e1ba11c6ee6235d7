package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type fakeClassSrv struct {
	inviteCode string
	updated    dto.UpdateClassRequest
}

func (f *fakeClassSrv) List(context.Context, dto.ClassListQuery) ([]models.Class, *models.Pagination, error) {
	return []models.Class{}, models.NewPagination(1, 10, 0), nil
}

func (f *fakeClassSrv) Get(_ context.Context, id int64) (*models.ClassDetail, error) {
	return &models.ClassDetail{Class: models.Class{ID: id}}, nil
}

func (f *fakeClassSrv) GetByInviteCode(_ context.Context, code string) (*models.ClassDetail, error) {
	f.inviteCode = code
	if code != "ABC1234" {
		return nil, appErrors.NotFound("Class not found")
	}
	return &models.ClassDetail{Class: models.Class{ID: 7, InviteCode: code}}, nil
}

func (f *fakeClassSrv) Create(context.Context, dto.CreateClassRequest) (*models.ClassDetail, error) {
	return &models.ClassDetail{Class: models.Class{ID: 1}}, nil
}

func (f *fakeClassSrv) Update(_ context.Context, id int64, req dto.UpdateClassRequest) (*models.ClassDetail, error) {
	f.updated = req
	return &models.ClassDetail{Class: models.Class{ID: id}}, nil
}

func (f *fakeClassSrv) Delete(context.Context, int64) error { return nil }

type fakeRoster struct {
	query       dto.RosterQuery
	exportQuery dto.RosterExportQuery
	exportErr   error
}

func (f *fakeRoster) ListForClass(_ context.Context, _ int64, q dto.RosterQuery) ([]models.User, *models.Pagination, error) {
	f.query = q
	return []models.User{{ID: "u-1", Role: models.RoleStudent}}, models.NewPagination(1, 10, 1), nil
}

func (f *fakeRoster) ListForSubject(_ context.Context, _ int64, q dto.RosterQuery) ([]models.User, *models.Pagination, error) {
	f.query = q
	return []models.User{}, models.NewPagination(1, 10, 0), nil
}

func (f *fakeRoster) ExportClass(_ context.Context, _ int64, q dto.RosterExportQuery) (*service.RosterFile, error) {
	f.exportQuery = q
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return &service.RosterFile{Filename: "algebra-students.csv", ContentType: "text/csv", Body: []byte("name,email\n")}, nil
}

func TestClassHandlerGetByInviteCode(t *testing.T) {
	srv := &fakeClassSrv{}
	c, rec := newContext(http.MethodGet, "/classes/invite/ABC1234", "", gin.Param{Key: "code", Value: "ABC1234"})

	NewClassHandler(srv, &fakeRoster{}).GetByInviteCode(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ABC1234", srv.inviteCode)
}

func TestClassHandlerGetByUnknownInviteCode(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/classes/invite/NOPE", "", gin.Param{Key: "code", Value: "NOPE"})

	NewClassHandler(&fakeClassSrv{}, &fakeRoster{}).GetByInviteCode(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Class not found", decode(rec).Error)
}

func TestClassHandlerListUsersPassesRole(t *testing.T) {
	roster := &fakeRoster{}
	c, rec := newContext(http.MethodGet, "/classes/2/users?role=student&limit=20", "", gin.Param{Key: "id", Value: "2"})

	NewClassHandler(&fakeClassSrv{}, roster).ListUsers(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student", roster.query.Role)
	require.NotNil(t, roster.query.Limit)
	assert.Equal(t, 20, *roster.query.Limit)
	assert.Equal(t, 1, decode(rec).Pagination.Total)
}

func TestClassHandlerExportUsersWritesAttachment(t *testing.T) {
	roster := &fakeRoster{}
	c, rec := newContext(http.MethodGet, "/classes/2/users/export?role=student&format=csv", "", gin.Param{Key: "id", Value: "2"})

	NewClassHandler(&fakeClassSrv{}, roster).ExportUsers(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", roster.exportQuery.Format)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="algebra-students.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "name,email\n", rec.Body.String())
}

func TestClassHandlerExportUsersError(t *testing.T) {
	roster := &fakeRoster{exportErr: appErrors.Clone(appErrors.ErrValidation, "role is required")}
	c, rec := newContext(http.MethodGet, "/classes/2/users/export", "", gin.Param{Key: "id", Value: "2"})

	NewClassHandler(&fakeClassSrv{}, roster).ExportUsers(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestClassHandlerUpdateReadsSchedules(t *testing.T) {
	srv := &fakeClassSrv{}
	body := `{"capacity":30,"schedules":[{"day":"monday","startTime":"08:00","endTime":"09:00"}]}`
	c, rec := newContext(http.MethodPut, "/classes/5", body, gin.Param{Key: "id", Value: "5"})

	NewClassHandler(srv, &fakeRoster{}).Update(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.updated.Capacity)
	assert.Equal(t, 30, *srv.updated.Capacity)
	require.NotNil(t, srv.updated.Schedules)
	assert.Len(t, *srv.updated.Schedules, 1)
	assert.Nil(t, srv.updated.Name)
}

func TestClassHandlerDelete(t *testing.T) {
	c, rec := newContext(http.MethodDelete, "/classes/5", "", gin.Param{Key: "id", Value: "5"})

	NewClassHandler(&fakeClassSrv{}, &fakeRoster{}).Delete(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Class deleted", decode(rec).Message)
}
