package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

const (
	statsOverviewKey = "stats:overview"
	statsChartsKey   = "stats:charts"
)

type statsRepository interface {
	Overview(ctx context.Context) (*models.StatsOverview, error)
	UsersByRole(ctx context.Context) ([]models.RoleCount, error)
	SubjectsByDepartment(ctx context.Context) ([]models.GroupCount, error)
	ClassesBySubject(ctx context.Context) ([]models.GroupCount, error)
}

// StatsService serves dashboard counts through the cache.
type StatsService struct {
	repo    statsRepository
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewStatsService constructs a stats service.
func NewStatsService(repo statsRepository, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Overview returns resource counts and whether they came from cache.
func (s *StatsService) Overview(ctx context.Context) (*models.StatsOverview, bool, error) {
	var cached models.StatsOverview
	if hit, _ := s.cache.Get(ctx, statsOverviewKey, &cached); hit {
		return &cached, true, nil
	}

	start := time.Now()
	overview, err := s.repo.Overview(ctx)
	s.metrics.ObserveDBQuery("stats_overview", time.Since(start))
	if err != nil {
		s.logger.Error("stats overview failed", zap.Error(err))
		return nil, false, appErrors.Internal(err, "Failed to fetch stats")
	}
	_ = s.cache.Set(ctx, statsOverviewKey, overview, s.ttl)
	return overview, false, nil
}

// Charts returns the dashboard distributions and whether they came from cache.
func (s *StatsService) Charts(ctx context.Context) (*models.StatsCharts, bool, error) {
	var cached models.StatsCharts
	if hit, _ := s.cache.Get(ctx, statsChartsKey, &cached); hit {
		return &cached, true, nil
	}

	start := time.Now()
	charts, err := s.loadCharts(ctx)
	s.metrics.ObserveDBQuery("stats_charts", time.Since(start))
	if err != nil {
		s.logger.Error("stats charts failed", zap.Error(err))
		return nil, false, appErrors.Internal(err, "Failed to fetch stats")
	}
	_ = s.cache.Set(ctx, statsChartsKey, charts, s.ttl)
	return charts, false, nil
}

func (s *StatsService) loadCharts(ctx context.Context) (*models.StatsCharts, error) {
	byRole, err := s.repo.UsersByRole(ctx)
	if err != nil {
		return nil, err
	}
	byDepartment, err := s.repo.SubjectsByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	bySubject, err := s.repo.ClassesBySubject(ctx)
	if err != nil {
		return nil, err
	}
	return &models.StatsCharts{
		UsersByRole:          byRole,
		SubjectsByDepartment: byDepartment,
		ClassesBySubject:     bySubject,
	}, nil
}
