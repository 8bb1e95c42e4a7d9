// ABOUTME: Package manifest reading and writing
// ABOUTME: JSON document mirroring a package row plus source-copy markers
package store

import (
	"encoding/json"
	"os"

	"github.com/seanblair/codepac/internal/db"
)

// ManifestName is the file name of the manifest inside a package directory.
const ManifestName = "manifest.json"

// Manifest mirrors a package row to disk, plus markers recording whether
// source files were copied in and from where.
type Manifest struct {
	Name           string  `json:"name"`
	Version        string  `json:"version"`
	Description    *string `json:"description"`
	Author         string  `json:"author"`
	Language       string  `json:"language"`
	Category       *string `json:"category"`
	SourceIncluded bool    `json:"source_included"`
	SourceOrigin   string  `json:"source_origin,omitempty"`
}

// manifestFor builds the manifest document for a package row.
func manifestFor(p *db.Package, sourceIncluded bool, sourceOrigin string) Manifest {
	return Manifest{
		Name:           p.Name,
		Version:        p.Version,
		Description:    p.Description,
		Author:         p.Author,
		Language:       p.Language,
		Category:       p.Category,
		SourceIncluded: sourceIncluded,
		SourceOrigin:   sourceOrigin,
	}
}

// WriteManifest writes the manifest as indented JSON at path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644) //nolint:gosec // Manifest is user data, not a secret
}

// ReadManifest reads a manifest from path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
