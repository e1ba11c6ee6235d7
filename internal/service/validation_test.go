package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/dto"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

func TestPagerDefaults(t *testing.T) {
	var p pager
	page, limit, err := p.resolve(dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	zero := 0
	_, _, err = p.resolve(dto.PageQuery{Page: &zero})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestSetPageLimitsClampsDefault(t *testing.T) {
	var p pager
	p.SetPageLimits(PageLimits{Default: 50, Max: 20})
	assert.Equal(t, PageLimits{Default: 20, Max: 20}, p.limits)

	p.SetPageLimits(PageLimits{})
	assert.Equal(t, DefaultPageLimits, p.limits)
}

func TestValidationErrorUsesJSONNames(t *testing.T) {
	v := NewValidator()
	err := v.Struct(dto.CreateClassRequest{Name: "A", TeacherID: "t"})
	require.Error(t, err)
	assert.Equal(t, "subjectId is required", validationError(err).Message)

	capacity := 0
	err = v.Struct(dto.CreateClassRequest{Name: "A", SubjectID: 1, TeacherID: "t", Capacity: &capacity})
	require.Error(t, err)
	assert.Equal(t, "capacity must be at least 1", validationError(err).Message)
}

func TestValidatorRejectsWhitespaceOnly(t *testing.T) {
	v := NewValidator()
	err := v.Struct(dto.CreateDepartmentRequest{Code: "SCI", Name: " \n "})
	require.Error(t, err)
	assert.Equal(t, "name must not be blank", validationError(err).Message)

	err = v.Struct(dto.CreateDepartmentRequest{Code: "SCI"})
	require.Error(t, err)
	assert.Equal(t, "name is required", validationError(err).Message)

	assert.NoError(t, v.Struct(dto.UpdateDepartmentRequest{Name: nil}))
}
