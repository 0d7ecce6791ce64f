package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Validate checks if the manifest bytes meet all requirements.
//
// This function validates:
// - Manifest size (must be <= 1 MiB)
// - YAML syntax
// - Dataset name presence
// - At least one CSV source, no duplicates
// - Cluster type entries each carry a name
func Validate(data []byte) *ValidationResult {
	if len(data) > MaxManifestSize {
		return &ValidationResult{
			Valid: false,
			Error: ErrManifestTooLarge,
			Size:  int64(len(data)),
		}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return &ValidationResult{
			Valid: false,
			Error: fmt.Errorf("%w: %v", ErrInvalidYAML, err),
			Size:  int64(len(data)),
		}
	}

	if m.Name == "" {
		return &ValidationResult{
			Valid: false,
			Error: ErrMissingName,
			Size:  int64(len(data)),
		}
	}

	if len(m.Sources) == 0 {
		return &ValidationResult{
			Valid: false,
			Error: ErrNoSources,
			Size:  int64(len(data)),
		}
	}

	seen := make(map[string]bool, len(m.Sources))
	for _, src := range m.Sources {
		if seen[src] {
			return &ValidationResult{
				Valid: false,
				Error: fmt.Errorf("%w: %s", ErrDuplicateSource, src),
				Size:  int64(len(data)),
			}
		}
		seen[src] = true
	}

	for _, ct := range m.ClusterTypes {
		if ct.Name == "" {
			return &ValidationResult{
				Valid: false,
				Error: ErrMissingTypeName,
				Size:  int64(len(data)),
			}
		}
	}

	return &ValidationResult{
		Valid:    true,
		Manifest: &m,
		Size:     int64(len(data)),
	}
}

// Load reads and validates a manifest file. Source and summary image paths
// are resolved relative to the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	result := Validate(data)
	if !result.Valid {
		return nil, result.Error
	}

	m := result.Manifest
	base := filepath.Dir(path)
	for i, src := range m.Sources {
		if !filepath.IsAbs(src) {
			m.Sources[i] = filepath.Join(base, src)
		}
	}
	for i, ct := range m.ClusterTypes {
		if ct.SummaryImage != "" && !filepath.IsAbs(ct.SummaryImage) {
			m.ClusterTypes[i].SummaryImage = filepath.Join(base, ct.SummaryImage)
		}
	}

	return m, nil
}
