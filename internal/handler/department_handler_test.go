package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type fakeDepartmentSrv struct {
	listQuery   dto.DepartmentListQuery
	updated     dto.UpdateDepartmentRequest
	deleteErr   error
	getErr      error
	createCalls int
}

func (f *fakeDepartmentSrv) List(_ context.Context, q dto.DepartmentListQuery) ([]models.Department, *models.Pagination, error) {
	f.listQuery = q
	return []models.Department{{ID: 1, Code: "CS", Name: "Computer Science"}}, models.NewPagination(2, 5, 6), nil
}

func (f *fakeDepartmentSrv) Get(_ context.Context, id int64) (*models.DepartmentDetail, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.DepartmentDetail{Department: &models.Department{ID: id}, Totals: models.DepartmentTotals{Subjects: 3}}, nil
}

func (f *fakeDepartmentSrv) ListSubjects(context.Context, int64, dto.PageQuery) ([]models.SubjectDetail, *models.Pagination, error) {
	return nil, models.NewPagination(1, 10, 0), nil
}

func (f *fakeDepartmentSrv) Create(_ context.Context, req dto.CreateDepartmentRequest) (*models.Department, error) {
	f.createCalls++
	return &models.Department{ID: 9, Code: req.Code, Name: req.Name}, nil
}

func (f *fakeDepartmentSrv) Update(_ context.Context, id int64, req dto.UpdateDepartmentRequest) (*models.Department, error) {
	f.updated = req
	return &models.Department{ID: id}, nil
}

func (f *fakeDepartmentSrv) Delete(context.Context, int64) error {
	return f.deleteErr
}

func TestDepartmentHandlerListBindsQuery(t *testing.T) {
	srv := &fakeDepartmentSrv{}
	c, rec := newContext(http.MethodGet, "/departments?search=sci&page=2&limit=5", "")

	NewDepartmentHandler(srv).List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sci", srv.listQuery.Search)
	require.NotNil(t, srv.listQuery.Page)
	assert.Equal(t, 2, *srv.listQuery.Page)
	assert.Equal(t, 5, *srv.listQuery.Limit)

	envelope := decode(rec)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 2, envelope.Pagination.TotalPages)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestDepartmentHandlerListRejectsNonNumericPage(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/departments?page=abc", "")

	NewDepartmentHandler(&fakeDepartmentSrv{}).List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDepartmentHandlerGetInvalidID(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/departments/x", "", gin.Param{Key: "id", Value: "x"})

	NewDepartmentHandler(&fakeDepartmentSrv{}).Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid id", decode(rec).Error)
}

func TestDepartmentHandlerGetNotFound(t *testing.T) {
	srv := &fakeDepartmentSrv{getErr: appErrors.NotFound("Department not found")}
	c, rec := newContext(http.MethodGet, "/departments/4", "", gin.Param{Key: "id", Value: "4"})

	NewDepartmentHandler(srv).Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decode(rec)
	assert.Equal(t, "Department not found", envelope.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, envelope.Code)
}

func TestDepartmentHandlerGetReturnsTotals(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/departments/4", "", gin.Param{Key: "id", Value: "4"})

	NewDepartmentHandler(&fakeDepartmentSrv{}).Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var detail models.DepartmentDetail
	require.NoError(t, json.Unmarshal(decode(rec).Data, &detail))
	assert.Equal(t, int64(4), detail.Department.ID)
	assert.Equal(t, 3, detail.Totals.Subjects)
}

func TestDepartmentHandlerCreateMalformedBody(t *testing.T) {
	srv := &fakeDepartmentSrv{}
	c, rec := newContext(http.MethodPost, "/departments", `{"code":`)

	NewDepartmentHandler(srv).Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid payload", decode(rec).Error)
	assert.Zero(t, srv.createCalls)
}

func TestDepartmentHandlerCreate(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/departments", `{"code":"CS","name":"Computer Science"}`)

	NewDepartmentHandler(&fakeDepartmentSrv{}).Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var department models.Department
	require.NoError(t, json.Unmarshal(decode(rec).Data, &department))
	assert.Equal(t, "CS", department.Code)
}

func TestDepartmentHandlerUpdateKeepsNullPresence(t *testing.T) {
	srv := &fakeDepartmentSrv{}
	c, rec := newContext(http.MethodPut, "/departments/3", `{"description":null}`, gin.Param{Key: "id", Value: "3"})

	NewDepartmentHandler(srv).Update(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.updated.Description.Set)
	assert.Nil(t, srv.updated.Description.Value)
	assert.Nil(t, srv.updated.Name)
}

func TestDepartmentHandlerDelete(t *testing.T) {
	c, rec := newContext(http.MethodDelete, "/departments/3", "", gin.Param{Key: "id", Value: "3"})

	NewDepartmentHandler(&fakeDepartmentSrv{}).Delete(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Department deleted", decode(rec).Message)
}

func TestDepartmentHandlerDeleteConflict(t *testing.T) {
	srv := &fakeDepartmentSrv{deleteErr: appErrors.Conflict("Department still has subjects")}
	c, rec := newContext(http.MethodDelete, "/departments/3", "", gin.Param{Key: "id", Value: "3"})

	NewDepartmentHandler(srv).Delete(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Department still has subjects", decode(rec).Error)
}
