package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/handler"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/config"
	"github.com/noah-isme/classroom-api/pkg/logger"
	reqidmiddleware "github.com/noah-isme/classroom-api/pkg/middleware/requestid"
)

// Handlers bundles the resource handlers mounted under the API prefix.
type Handlers struct {
	Departments *handler.DepartmentHandler
	Subjects    *handler.SubjectHandler
	Classes     *handler.ClassHandler
	Users       *handler.UserHandler
	Enrollments *handler.EnrollmentHandler
	Stats       *handler.StatsHandler
	Metrics     *handler.MetricsHandler
}

var (
	readers = []models.UserRole{models.RoleAdmin, models.RoleTeacher, models.RoleStudent}
	editors = []models.UserRole{models.RoleAdmin, models.RoleTeacher}
	admins  = []models.UserRole{models.RoleAdmin}
)

// New builds the gin engine with the shared middleware chain and every route.
func New(cfg *config.Config, h Handlers, metrics *service.MetricsService, log *zap.Logger) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(metrics, "/metrics"))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	gate := func(roles []models.UserRole) []gin.HandlerFunc {
		if !cfg.Auth.Enabled {
			return nil
		}
		return []gin.HandlerFunc{middleware.RequireRoles(roles...)}
	}
	if cfg.Auth.Enabled {
		api.Use(middleware.Auth(cfg.Auth.JWTSecret))
	}

	route := func(g *gin.RouterGroup, method, path string, roles []models.UserRole, fn gin.HandlerFunc) {
		g.Handle(method, path, append(gate(roles), fn)...)
	}

	departments := api.Group("/departments")
	route(departments, http.MethodGet, "", readers, h.Departments.List)
	route(departments, http.MethodGet, "/:id", readers, h.Departments.Get)
	route(departments, http.MethodGet, "/:id/subjects", readers, h.Departments.ListSubjects)
	route(departments, http.MethodPost, "", admins, h.Departments.Create)
	route(departments, http.MethodPut, "/:id", admins, h.Departments.Update)
	route(departments, http.MethodDelete, "/:id", admins, h.Departments.Delete)

	subjects := api.Group("/subjects")
	route(subjects, http.MethodGet, "", readers, h.Subjects.List)
	route(subjects, http.MethodGet, "/:id", readers, h.Subjects.Get)
	route(subjects, http.MethodGet, "/:id/classes", readers, h.Subjects.ListClasses)
	route(subjects, http.MethodGet, "/:id/users", readers, h.Subjects.ListUsers)
	route(subjects, http.MethodPost, "", editors, h.Subjects.Create)
	route(subjects, http.MethodPut, "/:id", editors, h.Subjects.Update)
	route(subjects, http.MethodDelete, "/:id", editors, h.Subjects.Delete)

	classes := api.Group("/classes")
	route(classes, http.MethodGet, "", readers, h.Classes.List)
	route(classes, http.MethodGet, "/invite/:code", readers, h.Classes.GetByInviteCode)
	route(classes, http.MethodGet, "/:id/users", readers, h.Classes.ListUsers)
	route(classes, http.MethodGet, "/:id/users/export", editors, h.Classes.ExportUsers)
	route(classes, http.MethodGet, "/:id", readers, h.Classes.Get)
	route(classes, http.MethodPost, "", editors, h.Classes.Create)
	route(classes, http.MethodPut, "/:id", editors, h.Classes.Update)
	route(classes, http.MethodDelete, "/:id", editors, h.Classes.Delete)

	users := api.Group("/users")
	route(users, http.MethodGet, "", readers, h.Users.List)
	route(users, http.MethodGet, "/:id", readers, h.Users.Get)
	route(users, http.MethodPost, "", admins, h.Users.Create)
	route(users, http.MethodPut, "/:id", admins, h.Users.Update)
	route(users, http.MethodDelete, "/:id", admins, h.Users.Delete)

	enrollments := api.Group("/enrollments")
	route(enrollments, http.MethodGet, "", readers, h.Enrollments.List)
	route(enrollments, http.MethodGet, "/:id", readers, h.Enrollments.Get)
	route(enrollments, http.MethodPost, "", editors, h.Enrollments.Create)
	route(enrollments, http.MethodPost, "/join", readers, h.Enrollments.Join)
	route(enrollments, http.MethodDelete, "/:id", editors, h.Enrollments.Delete)

	stats := api.Group("/stats")
	route(stats, http.MethodGet, "/overview", readers, h.Stats.Overview)
	route(stats, http.MethodGet, "/charts", readers, h.Stats.Charts)

	return r
}
