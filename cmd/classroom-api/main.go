package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/classroom-api/api/swagger"
	"github.com/noah-isme/classroom-api/internal/handler"
	"github.com/noah-isme/classroom-api/internal/repository"
	"github.com/noah-isme/classroom-api/internal/router"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/cache"
	"github.com/noah-isme/classroom-api/pkg/config"
	"github.com/noah-isme/classroom-api/pkg/database"
	"github.com/noah-isme/classroom-api/pkg/logger"
)

// @title Classroom API
// @version 1.0.0
// @description Departments, subjects, classes, enrollments and users
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, stats cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient, "classroom"),
		metrics,
		cfg.Cache.StatsTTL,
		logr,
		cfg.Cache.Enabled && redisClient != nil,
	)

	departmentRepo := repository.NewDepartmentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	classRepo := repository.NewClassRepository(db)
	userRepo := repository.NewUserRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	validate := service.NewValidator()
	limits := service.PageLimits{Default: cfg.Pagination.DefaultLimit, Max: cfg.Pagination.MaxLimit}

	departmentSvc := service.NewDepartmentService(departmentRepo, subjectRepo, cacheSvc, validate, logr)
	departmentSvc.SetPageLimits(limits)
	subjectSvc := service.NewSubjectService(subjectRepo, departmentRepo, classRepo, cacheSvc, validate, logr)
	subjectSvc.SetPageLimits(limits)
	classSvc := service.NewClassService(classRepo, subjectRepo, userRepo, cacheSvc, service.ClassOptions{
		InviteCodes:    service.RandomInviteCodes{Length: cfg.InviteCode.Length},
		InviteAttempts: cfg.InviteCode.Attempts,
		Metrics:        metrics,
	}, validate, logr)
	classSvc.SetPageLimits(limits)
	userSvc := service.NewUserService(userRepo, cacheSvc, validate, logr)
	userSvc.SetPageLimits(limits)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, classRepo, userRepo, cacheSvc, validate, logr)
	enrollmentSvc.SetPageLimits(limits)
	rosterSvc := service.NewRosterService(userRepo, classRepo, subjectRepo, validate, logr)
	rosterSvc.SetPageLimits(limits)
	statsSvc := service.NewStatsService(statsRepo, cacheSvc, metrics, cfg.Cache.StatsTTL, logr)

	engine := router.New(cfg, router.Handlers{
		Departments: handler.NewDepartmentHandler(departmentSvc),
		Subjects:    handler.NewSubjectHandler(subjectSvc, rosterSvc),
		Classes:     handler.NewClassHandler(classSvc, rosterSvc),
		Users:       handler.NewUserHandler(userSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc),
		Stats:       handler.NewStatsHandler(statsSvc),
		Metrics:     handler.NewMetricsHandler(metrics, db),
	}, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("shutdown error", zap.Error(err))
	}
	logr.Info("server stopped")
}
