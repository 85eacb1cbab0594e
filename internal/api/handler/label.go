package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/NMGRL/trayclassifier/internal/domain"
	"github.com/NMGRL/trayclassifier/internal/service"
	"github.com/gin-gonic/gin"
)

// LabelHandler handles label submission and vocabulary endpoints.
type LabelHandler struct {
	catalog *service.CatalogService
}

// NewLabelHandler creates a new label handler.
// Parameters:
//   - catalog: catalog service instance.
// Returns:
//   - *LabelHandler: initialized handler.
func NewLabelHandler(catalog *service.CatalogService) *LabelHandler {
	return &LabelHandler{catalog: catalog}
}

// Submit handles POST /labels/:image_id?label=&user=. Label defaults to
// "good" and user to the default user, matching the review client's
// query-parameter calls. Submissions append; a double submit counts twice.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LabelHandler) Submit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("image_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid image id: " + c.Param("image_id"),
		})
		return
	}

	label := c.DefaultQuery("label", "good")
	user := c.Query("user")

	if err := h.catalog.AddLabel(c.Request.Context(), uint(id), label, user); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownLabel), errors.Is(err, service.ErrImageNotFound):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to record label: " + err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"image_id": id,
		"label":    label,
	})
}

// ListLabels handles GET /labels, returning the fixed vocabulary.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LabelHandler) ListLabels(c *gin.Context) {
	labels, err := h.catalog.Labels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list labels: " + err.Error(),
		})
		return
	}
	if labels == nil {
		labels = []domain.Label{}
	}
	c.JSON(http.StatusOK, labels)
}

// ListUsers handles GET /users.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LabelHandler) ListUsers(c *gin.Context) {
	users, err := h.catalog.Users(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list users: " + err.Error(),
		})
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	c.JSON(http.StatusOK, users)
}
