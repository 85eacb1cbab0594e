package handler

import (
	"net/http"

	"github.com/NMGRL/trayclassifier/internal/domain"
	"github.com/NMGRL/trayclassifier/internal/service"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles aggregate reporting endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new report handler.
// Parameters:
//   - reports: report service instance.
// Returns:
//   - *ReportHandler: initialized handler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Scoreboard handles GET /scoreboard?user=. The requested user's row, if
// present, is pinned to the front of the ranking.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ReportHandler) Scoreboard(c *gin.Context) {
	rows, err := h.reports.Scoreboard(c.Request.Context(), c.Query("user"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute scoreboard: " + err.Error(),
		})
		return
	}
	if rows == nil {
		rows = []domain.UserScore{}
	}
	c.JSON(http.StatusOK, gin.H{
		"table": rows,
	})
}

// ByUser handles GET /reports/by-user/:user.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ReportHandler) ByUser(c *gin.Context) {
	rows, err := h.reports.ByUser(c.Request.Context(), c.Param("user"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute report: " + err.Error(),
		})
		return
	}
	if rows == nil {
		rows = []domain.LabelCount{}
	}
	c.JSON(http.StatusOK, gin.H{
		"user":  c.Param("user"),
		"table": rows,
	})
}

// Summary handles GET /reports/summary.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reports.GlobalSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute summary: " + err.Error(),
		})
		return
	}
	if summary.Table == nil {
		summary.Table = []domain.LabelCount{}
	}
	c.JSON(http.StatusOK, summary)
}

// Representatives handles GET /representative-images, one inline-encoded
// example per labeled category for the preview strip.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ReportHandler) Representatives(c *gin.Context) {
	reps, err := h.reports.Representatives(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to collect representative images: " + err.Error(),
		})
		return
	}
	if reps == nil {
		reps = []service.RepresentativeImage{}
	}
	c.JSON(http.StatusOK, reps)
}
