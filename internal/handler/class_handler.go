package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/response"
)

type classService interface {
	List(ctx context.Context, q dto.ClassListQuery) ([]models.Class, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.ClassDetail, error)
	GetByInviteCode(ctx context.Context, code string) (*models.ClassDetail, error)
	Create(ctx context.Context, req dto.CreateClassRequest) (*models.ClassDetail, error)
	Update(ctx context.Context, id int64, req dto.UpdateClassRequest) (*models.ClassDetail, error)
	Delete(ctx context.Context, id int64) error
}

type classRoster interface {
	ListForClass(ctx context.Context, classID int64, q dto.RosterQuery) ([]models.User, *models.Pagination, error)
	ExportClass(ctx context.Context, classID int64, q dto.RosterExportQuery) (*service.RosterFile, error)
}

// ClassHandler exposes class endpoints.
type ClassHandler struct {
	service classService
	roster  classRoster
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc classService, roster classRoster) *ClassHandler {
	return &ClassHandler{service: svc, roster: roster}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param search query string false "Name or invite code contains"
// @Param subjectId query int false "Subject ID"
// @Param teacherId query string false "Teacher ID"
// @Param status query string false "active, inactive or archived"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	var q dto.ClassListQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// GetByInviteCode godoc
// @Summary Find class by invite code
// @Tags Classes
// @Produce json
// @Param code path string true "Invite code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/invite/{code} [get]
func (h *ClassHandler) GetByInviteCode(c *gin.Context) {
	class, err := h.service.GetByInviteCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Get godoc
// @Summary Get class
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	class, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// ListUsers godoc
// @Summary List teachers or students of a class
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Param role query string true "teacher or student"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/users [get]
func (h *ClassHandler) ListUsers(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var q dto.RosterQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	users, pagination, err := h.roster.ListForClass(c.Request.Context(), id, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// ExportUsers godoc
// @Summary Download a class roster
// @Tags Classes
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Class ID"
// @Param role query string true "teacher or student"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /classes/{id}/users/export [get]
func (h *ClassHandler) ExportUsers(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var q dto.RosterExportQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.roster.ExportClass(c.Request.Context(), id, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// Create godoc
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	class, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Update godoc
// @Summary Update class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body dto.UpdateClassRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateClassRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	class, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Delete godoc
// @Summary Delete class
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Class deleted")
}
