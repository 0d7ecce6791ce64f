package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"siteclusters.io/server/models"
)

// Column names expected in the CSV sources. Headers are normalized to
// snake_case before matching, so "Site Code" and "site_code" both work.
const (
	colSiteCode    = "site_code"
	colZoneName    = "zone_name"
	colClusterName = "cluster_name"
	colClusterID   = "cluster_id"
	colClusterType = "cluster_type"
	colClusterRank = "cluster_rank"
	colLatitude    = "latitude"
	colLongitude   = "longitude"
)

var requiredColumns = []string{colSiteCode, colClusterType, colClusterID, colClusterRank}

// parseCSV reads one CSV source into site records.
// Rows with unparseable coordinates keep nil latitude/longitude; rows missing
// a required field fail the whole parse with a row-numbered error.
func parseCSV(r io.Reader, source string) ([]models.Site, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read CSV headers: %w", source, err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[toSnakeCase(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", source, col)
		}
	}

	var sites []models.Site
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", source, row, err)
		}

		site, err := parseRow(record, index)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", source, row, err)
		}
		sites = append(sites, site)
	}

	return sites, nil
}

func parseRow(record []string, index map[string]int) (models.Site, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	siteCode := field(colSiteCode)
	if siteCode == "" {
		return models.Site{}, fmt.Errorf("empty %s", colSiteCode)
	}
	clusterType := field(colClusterType)
	if clusterType == "" {
		return models.Site{}, fmt.Errorf("empty %s", colClusterType)
	}

	clusterID, err := strconv.Atoi(field(colClusterID))
	if err != nil {
		return models.Site{}, fmt.Errorf("invalid %s: %q", colClusterID, field(colClusterID))
	}
	clusterRank, err := strconv.Atoi(field(colClusterRank))
	if err != nil {
		return models.Site{}, fmt.Errorf("invalid %s: %q", colClusterRank, field(colClusterRank))
	}
	if clusterRank < 0 {
		return models.Site{}, fmt.Errorf("negative %s: %d", colClusterRank, clusterRank)
	}

	site := models.Site{
		SiteCode:    siteCode,
		ZoneName:    field(colZoneName),
		ClusterType: clusterType,
		ClusterID:   clusterID,
		ClusterName: field(colClusterName),
		ClusterRank: clusterRank,
	}

	// Coordinates are optional: unparseable or empty values leave the site
	// unmapped rather than failing the import.
	if lat, err := strconv.ParseFloat(field(colLatitude), 64); err == nil {
		if lon, err := strconv.ParseFloat(field(colLongitude), 64); err == nil {
			if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
				return models.Site{}, models.ErrInvalidCoordinates
			}
			site.Latitude = &lat
			site.Longitude = &lon
		}
	}

	return site, nil
}

// toSnakeCase converts "Column Name" to "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
