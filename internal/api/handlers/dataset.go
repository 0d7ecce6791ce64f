package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"siteclusters.io/server/internal/api/middleware"
	"siteclusters.io/server/internal/service"
	"siteclusters.io/server/models"
)

// DatasetHandler handles dataset metadata and reload endpoints.
type DatasetHandler struct {
	dataset *service.DatasetService
}

// NewDatasetHandler creates a new DatasetHandler.
func NewDatasetHandler(dataset *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{dataset: dataset}
}

// Get handles GET /api/v1/dataset
//
// Returns the metadata of the currently imported dataset: name, version,
// checksum, and row counts. Returns 404 before the first import.
func (h *DatasetHandler) Get(c *gin.Context) {
	ds, err := h.dataset.Get(c.Request.Context())
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, ds)
}

// Reload handles POST /api/v1/dataset/reload (admin only)
//
// Re-reads the configured manifest and re-imports its sources. When the
// source content is unchanged the import is skipped and the version stays
// put; force overrides the checksum check.
func (h *DatasetHandler) Reload(c *gin.Context) {
	var req models.ReloadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
			return
		}
	}

	logger := middleware.GetLogger(c)

	result, err := h.dataset.Reload(c.Request.Context(), req.Force)
	if err != nil {
		logger.Warn("dataset reload failed", zap.Error(err))
		mapErrorToResponse(c, err)
		return
	}

	logger.Info("dataset reload finished",
		zap.Int64("version", result.Dataset.Version),
		zap.Bool("changed", result.Changed),
		zap.Int("rows_read", result.RowsRead),
	)

	respondSuccess(c, http.StatusOK, result)
}
