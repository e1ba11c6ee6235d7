package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type fakeStats struct {
	overviewCalls int
	chartCalls    int
	err           error
}

func (f *fakeStats) Overview(context.Context) (*models.StatsOverview, error) {
	f.overviewCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.StatsOverview{Users: 3, Teachers: 1, Students: 2, Classes: 1}, nil
}

func (f *fakeStats) UsersByRole(context.Context) ([]models.RoleCount, error) {
	f.chartCalls++
	return []models.RoleCount{{Role: models.RoleStudent, Total: 2}}, nil
}

func (f *fakeStats) SubjectsByDepartment(context.Context) ([]models.GroupCount, error) {
	return []models.GroupCount{{ID: 1, Name: "Science", Total: 3}}, nil
}

func (f *fakeStats) ClassesBySubject(context.Context) ([]models.GroupCount, error) {
	return []models.GroupCount{}, nil
}

func TestStatsServiceCachesOverview(t *testing.T) {
	repo := &fakeStats{}
	metrics := NewMetricsService()
	cache := NewCacheService(newMemoryCache(), metrics, 0, nil, true)
	svc := NewStatsService(repo, cache, metrics, 0, nil)

	first, hit, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	second, hit, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.overviewCalls)
}

func TestStatsServiceWithoutCache(t *testing.T) {
	repo := &fakeStats{}
	svc := NewStatsService(repo, nil, nil, 0, nil)

	charts, hit, err := svc.Charts(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Science", charts.SubjectsByDepartment[0].Name)

	_, _, err = svc.Charts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.chartCalls)
}

func TestStatsServiceWrapsFailure(t *testing.T) {
	svc := NewStatsService(&fakeStats{err: errors.New("db down")}, nil, nil, 0, nil)

	_, _, err := svc.Overview(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch stats", appErrors.FromError(err).Message)
}
