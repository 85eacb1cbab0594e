package handler

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/NMGRL/trayclassifier/internal/service"
	"github.com/gin-gonic/gin"
)

// ImageHandler handles image ingestion and browse endpoints.
type ImageHandler struct {
	catalog *service.CatalogService
}

// NewImageHandler creates a new image handler.
// Parameters:
//   - catalog: catalog service instance.
// Returns:
//   - *ImageHandler: initialized handler.
func NewImageHandler(catalog *service.CatalogService) *ImageHandler {
	return &ImageHandler{catalog: catalog}
}

// ingestRequest is the upload payload: base64 image bytes plus tray
// provenance metadata.
type ingestRequest struct {
	Image    string `json:"image" binding:"required"`
	Name     string `json:"name"`
	TrayName string `json:"trayname"`
	HoleID   int    `json:"hole_id"`

	LoadName   string  `json:"loadname"`
	Project    string  `json:"project"`
	Sample     string  `json:"sample"`
	Material   string  `json:"material"`
	Identifier string  `json:"identifier"`
	Weight     float64 `json:"weight"`
	Note       string  `json:"note"`
	NXtals     int     `json:"nxtals"`
}

// Ingest handles POST /images. Duplicate bytes are accepted silently and
// answered with the existing image identity.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ImageHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid image encoding: " + err.Error(),
		})
		return
	}

	image, created, err := h.catalog.Ingest(c.Request.Context(), &service.IngestRequest{
		Data:       data,
		Name:       req.Name,
		TrayName:   req.TrayName,
		HoleID:     req.HoleID,
		LoadName:   req.LoadName,
		Project:    req.Project,
		Sample:     req.Sample,
		Material:   req.Material,
		Identifier: req.Identifier,
		Weight:     req.Weight,
		NXtals:     req.NXtals,
		Note:       req.Note,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to ingest image: " + err.Error(),
		})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"id":      image.ID,
		"hashid":  image.Hash,
		"created": created,
	})
}

// Next handles GET /images/next. With hash it is an exact lookup, with
// after_id a skip-forward, otherwise the first unclassified image.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ImageHandler) Next(c *gin.Context) {
	opts := service.NextOptions{
		Hash: c.Query("hash"),
	}
	if afterID := c.Query("after_id"); afterID != "" {
		id, err := strconv.ParseUint(afterID, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid after_id: " + afterID,
			})
			return
		}
		opts.AfterID = uint(id)
	}

	info, err := h.catalog.NextImage(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to query images: " + err.Error(),
		})
		return
	}
	if info == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no unclassified image",
		})
		return
	}

	c.JSON(http.StatusOK, info)
}

// Blob handles GET /images/:hash/blob, streaming the stored bytes.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes binary response).
func (h *ImageHandler) Blob(c *gin.Context) {
	hash := c.Param("hash")

	data, contentType, err := h.catalog.Blob(c.Request.Context(), hash)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Image not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read blob: " + err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, contentType, data)
}
