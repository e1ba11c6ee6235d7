package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/response"
)

type statsService interface {
	Overview(ctx context.Context) (*models.StatsOverview, bool, error)
	Charts(ctx context.Context) (*models.StatsCharts, bool, error)
}

// StatsHandler serves the dashboard aggregates.
type StatsHandler struct {
	service statsService
}

// NewStatsHandler constructs a stats handler.
func NewStatsHandler(svc statsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Overview godoc
// @Summary Entity counts
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, hit, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, overview, nil, middleware.ExtractMeta(c))
}

// Charts godoc
// @Summary Chart series
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/charts [get]
func (h *StatsHandler) Charts(c *gin.Context) {
	charts, hit, err := h.service.Charts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, charts, nil, middleware.ExtractMeta(c))
}
