package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"siteclusters.io/server/internal/service"
)

// SiteHandler handles site listing and map view endpoints.
type SiteHandler struct {
	sites *service.SiteService
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(sites *service.SiteService) *SiteHandler {
	return &SiteHandler{sites: sites}
}

// ListSites handles GET /api/v1/sites
//
// Query parameters:
//   - cluster_type: Clustering run to list sites from (required)
//   - cluster_id: Cluster ids to restrict to (repeatable, optional)
//   - page: Page number (default 1)
//   - page_size: Items per page (default 50, max 500)
func (h *SiteHandler) ListSites(c *gin.Context) {
	clusterType := c.Query("cluster_type")
	if clusterType == "" {
		respondError(c, http.StatusBadRequest, "invalid_request", "cluster_type query parameter is required")
		return
	}

	clusterIDs, ok := parseClusterIDs(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if err != nil {
		pageSize = 50
	}

	resp, err := h.sites.ListSites(c.Request.Context(), clusterType, clusterIDs, page, pageSize)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, resp)
}

// MapView handles GET /api/v1/map
//
// Returns the selected sites as a GeoJSON FeatureCollection. Sites without
// a geolocation never appear here; the center field is the mean coordinate
// of the returned features and is omitted when the selection is empty.
//
// Query parameters:
//   - cluster_type: Clustering run to map (required)
//   - cluster_id: Cluster ids to restrict to (repeatable, optional)
func (h *SiteHandler) MapView(c *gin.Context) {
	clusterType := c.Query("cluster_type")
	if clusterType == "" {
		respondError(c, http.StatusBadRequest, "invalid_request", "cluster_type query parameter is required")
		return
	}

	clusterIDs, ok := parseClusterIDs(c)
	if !ok {
		return
	}

	resp, err := h.sites.MapView(c.Request.Context(), clusterType, clusterIDs)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	// GeoJSON consumers expect the collection at the top level
	c.JSON(http.StatusOK, resp)
}

// parseClusterIDs parses repeated cluster_id query parameters. On a malformed
// value it writes a 400 response and returns ok=false.
func parseClusterIDs(c *gin.Context) ([]int, bool) {
	raw := c.QueryArray("cluster_id")
	if len(raw) == 0 {
		return nil, true
	}

	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.Atoi(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", "cluster_id must be an integer")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
