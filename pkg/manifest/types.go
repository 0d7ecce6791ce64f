// Package manifest provides loading and validation of dataset manifests.
//
// A manifest is a YAML file describing where the site/cluster data comes
// from: the CSV sources to import and the metadata for each clustering run
// (description, summary plot). The manifest is the source of truth for the
// dataset; the sqlite snapshot is generated from it by the importer and must
// never be edited by hand.
package manifest

import "errors"

const (
	// MaxManifestSize is the maximum allowed manifest size (1 MiB).
	// Manifests are small declarative files; anything larger is a mistake.
	MaxManifestSize = 1 * 1024 * 1024

	// DefaultPath is the conventional manifest location.
	DefaultPath = "data/manifest.yml"
)

// Common manifest validation errors.
var (
	// ErrManifestTooLarge indicates the manifest exceeds the size limit.
	ErrManifestTooLarge = errors.New("manifest exceeds 1 MiB size limit")

	// ErrInvalidYAML indicates the manifest contains invalid YAML.
	ErrInvalidYAML = errors.New("manifest contains invalid YAML")

	// ErrMissingName indicates the manifest has no dataset name.
	ErrMissingName = errors.New("manifest is missing a dataset name")

	// ErrNoSources indicates the manifest lists no CSV sources.
	ErrNoSources = errors.New("manifest lists no CSV sources")

	// ErrDuplicateSource indicates the same CSV path is listed twice.
	ErrDuplicateSource = errors.New("manifest lists a CSV source twice")

	// ErrMissingTypeName indicates a cluster type entry has no name.
	ErrMissingTypeName = errors.New("cluster type entry is missing a name")
)

// Manifest describes one dataset: its CSV sources and per-run metadata.
type Manifest struct {
	// Name is the dataset name (e.g., "B1 zone site clusters").
	Name string `yaml:"name"`

	// Subtitle is an optional human-readable description of the dataset.
	Subtitle string `yaml:"subtitle,omitempty"`

	// Sources is the list of CSV files to import, relative to the
	// manifest's directory unless absolute.
	Sources []string `yaml:"sources"`

	// ClusterTypes carries the metadata for each clustering run present in
	// the sources. Runs found in the data but absent here are still served,
	// just without a description or summary image.
	ClusterTypes []ClusterTypeInfo `yaml:"cluster_types,omitempty"`
}

// ClusterTypeInfo is the manifest metadata for one clustering run.
type ClusterTypeInfo struct {
	// Name is the cluster_type value as it appears in the CSV sources.
	Name string `yaml:"name"`

	// Description explains what the run optimizes for.
	Description string `yaml:"description,omitempty"`

	// SummaryImage is the path of the run's summary plot, relative to the
	// manifest's directory unless absolute.
	SummaryImage string `yaml:"summary_image,omitempty"`
}

// TypeInfo returns the metadata entry for a cluster type, or nil if the
// manifest carries none.
func (m *Manifest) TypeInfo(name string) *ClusterTypeInfo {
	for i := range m.ClusterTypes {
		if m.ClusterTypes[i].Name == name {
			return &m.ClusterTypes[i]
		}
	}
	return nil
}

// ValidationResult holds the result of manifest validation.
type ValidationResult struct {
	// Valid indicates if the manifest passed all validations.
	Valid bool

	// Error contains the validation error if Valid is false.
	Error error

	// Manifest is the decoded manifest when validation succeeded.
	Manifest *Manifest

	// Size is the manifest size in bytes.
	Size int64
}
