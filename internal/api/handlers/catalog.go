package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"siteclusters.io/server/internal/api/middleware"
	"siteclusters.io/server/internal/service"
)

// CatalogHandler handles cluster type and cluster catalog endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListClusterTypes handles GET /api/v1/cluster-types
//
// Returns every clustering run present in the imported dataset together
// with its cluster and site counts.
func (h *CatalogHandler) ListClusterTypes(c *gin.Context) {
	resp, err := h.catalog.ListClusterTypes(c.Request.Context())
	if err != nil {
		middleware.GetLogger(c).Error("failed to list cluster types", zap.Error(err))
		mapErrorToResponse(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, resp)
}

// ListClusters handles GET /api/v1/cluster-types/:type/clusters
//
// Returns the clusters of one clustering run, ordered by rank.
func (h *CatalogHandler) ListClusters(c *gin.Context) {
	clusterType := c.Param("type")

	resp, err := h.catalog.ListClusters(c.Request.Context(), clusterType)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, resp)
}

// Legend handles GET /api/v1/cluster-types/:type/legend
//
// Returns the map legend: one entry per cluster, ordered by rank, with the
// marker color that rank resolves to.
func (h *CatalogHandler) Legend(c *gin.Context) {
	clusterType := c.Param("type")

	resp, err := h.catalog.Legend(c.Request.Context(), clusterType)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, resp)
}

// SummaryImage handles GET /api/v1/cluster-types/:type/summary
//
// Serves the clustering run's summary plot as an image file.
func (h *CatalogHandler) SummaryImage(c *gin.Context) {
	clusterType := c.Param("type")

	path, err := h.catalog.SummaryImagePath(c.Request.Context(), clusterType)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	c.File(path)
}
