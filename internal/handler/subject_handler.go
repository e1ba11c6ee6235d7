package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/response"
)

type subjectService interface {
	List(ctx context.Context, q dto.SubjectListQuery) ([]models.SubjectDetail, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.SubjectOverview, error)
	ListClasses(ctx context.Context, id int64, q dto.PageQuery) ([]models.ClassWithTeacher, *models.Pagination, error)
	Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.SubjectDetail, error)
	Update(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.SubjectDetail, error)
	Delete(ctx context.Context, id int64) error
}

type subjectRoster interface {
	ListForSubject(ctx context.Context, subjectID int64, q dto.RosterQuery) ([]models.User, *models.Pagination, error)
}

// SubjectHandler exposes subject endpoints.
type SubjectHandler struct {
	service subjectService
	roster  subjectRoster
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectService, roster subjectRoster) *SubjectHandler {
	return &SubjectHandler{service: svc, roster: roster}
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Param search query string false "Name or code contains"
// @Param department query string false "Department name or code contains"
// @Param departmentId query int false "Department ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	var q dto.SubjectListQuery
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

// Get godoc
// @Summary Get subject with totals
// @Tags Subjects
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	subject, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// ListClasses godoc
// @Summary List classes of a subject
// @Tags Subjects
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/classes [get]
func (h *SubjectHandler) ListClasses(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var q dto.PageQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	items, pagination, err := h.service.ListClasses(c.Request.Context(), id, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// ListUsers godoc
// @Summary List teachers or students of a subject
// @Tags Subjects
// @Produce json
// @Param id path int true "Subject ID"
// @Param role query string true "teacher or student"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /subjects/{id}/users [get]
func (h *SubjectHandler) ListUsers(c *gin.Context) {
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
	users, pagination, err := h.roster.ListForSubject(c.Request.Context(), id, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	subject, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Update godoc
// @Summary Update subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path int true "Subject ID"
// @Param payload body dto.UpdateSubjectRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateSubjectRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	subject, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Delete godoc
// @Summary Delete subject
// @Tags Subjects
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Subject deleted")
}
