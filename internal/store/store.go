// ABOUTME: Storage manager coordinating database rows with filesystem mirrors
// ABOUTME: Stages mirror writes, commits rows, then promotes staged artifacts
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seanblair/codepac/internal/config"
	"github.com/seanblair/codepac/internal/db"
)

// Store owns the embedded database and the mirror tree under root.
// Mirror failures after a committed row are reported as warnings, never
// as operation failures; the database is the source of truth.
type Store struct {
	db   *sql.DB
	root string
}

// Open initializes the database and mirror directories for cfg.
func Open(cfg *config.Config) (*Store, error) {
	database, err := db.InitDB(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, dir := range []string{snippetsDir, packagesDir, stagingDir} {
		if err := os.MkdirAll(filepath.Join(cfg.StoreDir, dir), 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
			_ = database.Close()
			return nil, err
		}
	}

	return &Store{db: database, root: cfg.StoreDir}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func warnf(warnings []string, format string, args ...any) []string {
	return append(warnings, fmt.Sprintf(format, args...))
}

// --- Snippets ---

// CreateSnippet inserts a snippet row and mirrors its content to disk.
func (s *Store) CreateSnippet(n db.NewSnippet) (*db.Snippet, []string, error) {
	staged, err := s.writeStagedFile([]byte(n.Content))
	if err != nil {
		return nil, nil, err
	}

	snip, err := db.CreateSnippet(s.db, n)
	if err != nil {
		discard(staged)
		return nil, nil, err
	}

	var warnings []string
	if err := promote(staged, s.snippetPath(snip.Name, snip.Language)); err != nil {
		discard(staged)
		warnings = warnf(warnings, "snippet %q created but mirror write failed: %v", snip.Name, err)
	}
	return snip, warnings, nil
}

// GetSnippet returns the snippet with the given name, or nil when absent.
func (s *Store) GetSnippet(name string) (*db.Snippet, error) {
	return db.GetSnippet(s.db, name)
}

// ListSnippets returns snippets in insertion order; limit <= 0 means all.
func (s *Store) ListSnippets(limit int) ([]db.Snippet, error) {
	return db.ListSnippets(s.db, limit)
}

// SearchSnippets matches field against a substring pattern.
func (s *Store) SearchSnippets(field, pattern string) ([]db.Snippet, error) {
	return db.SearchSnippets(s.db, field, pattern)
}

// UpdateSnippet merges a partial update into the row and refreshes the
// mirror file, moving it when the snippet was renamed.
func (s *Store) UpdateSnippet(name string, u db.SnippetUpdate) (*db.Snippet, []string, error) {
	before, err := db.GetSnippet(s.db, name)
	if err != nil {
		return nil, nil, err
	}

	snip, err := db.UpdateSnippet(s.db, name, u)
	if err != nil {
		return nil, nil, err
	}

	staged, err := s.writeStagedFile([]byte(snip.Content))
	var warnings []string
	if err != nil {
		warnings = warnf(warnings, "snippet %q updated but mirror write failed: %v", snip.Name, err)
		return snip, warnings, nil
	}

	newPath := s.snippetPath(snip.Name, snip.Language)
	if err := promote(staged, newPath); err != nil {
		discard(staged)
		warnings = warnf(warnings, "snippet %q updated but mirror write failed: %v", snip.Name, err)
		return snip, warnings, nil
	}

	// A rename or language change leaves the old mirror file behind.
	if before != nil {
		oldPath := s.snippetPath(before.Name, before.Language)
		if oldPath != newPath {
			if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
				warnings = warnf(warnings, "failed to remove old mirror file %s: %v", oldPath, err)
			}
		}
	}
	return snip, warnings, nil
}

// DeleteSnippet removes the row and its mirror file.
func (s *Store) DeleteSnippet(name string) ([]string, error) {
	snip, err := db.GetSnippet(s.db, name)
	if err != nil {
		return nil, err
	}

	if err := db.DeleteSnippet(s.db, name); err != nil {
		return nil, err
	}

	var warnings []string
	if snip != nil {
		path := s.snippetPath(snip.Name, snip.Language)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			warnings = warnf(warnings, "snippet %q deleted but mirror file remains: %v", name, err)
		}
	}
	return warnings, nil
}

// UseSnippet returns the snippet and bumps its usage counter. A missing
// snippet returns nil without error, matching GetSnippet.
func (s *Store) UseSnippet(name string) (*db.Snippet, error) {
	snip, err := db.GetSnippet(s.db, name)
	if err != nil || snip == nil {
		return snip, err
	}
	if err := db.IncrementSnippetUsage(s.db, name); err != nil {
		return nil, err
	}
	snip.UsageCount++
	return snip, nil
}

// IncrementSnippetUsage bumps the counter; missing names are a no-op.
func (s *Store) IncrementSnippetUsage(name string) error {
	return db.IncrementSnippetUsage(s.db, name)
}

// --- Packages ---

// CreatePackage inserts a package row and establishes its mirror
// directory with a manifest. When sourcePath is non-empty its contents
// are copied into the package directory; a copy failure downgrades to a
// warning and the manifest records source_included=false.
func (s *Store) CreatePackage(n db.NewPackage, sourcePath string) (*db.Package, []string, error) {
	name, err := db.ValidatePackageName(n.Name)
	if err != nil {
		return nil, nil, err
	}

	finalDir := s.packageDir(name)
	if n.PackagePath == "" {
		n.PackagePath = finalDir
	}
	if n.ManifestPath == "" {
		n.ManifestPath = filepath.Join(n.PackagePath, ManifestName)
	}

	staged := s.stagePath()
	if err := os.MkdirAll(staged, 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
		return nil, nil, err
	}

	var warnings []string
	sourceIncluded := false
	if sourcePath != "" {
		if err := copyTree(sourcePath, staged); err != nil {
			warnings = warnf(warnings, "failed to copy source files from %s: %v", sourcePath, err)
		} else {
			sourceIncluded = true
		}
	}

	pkg, err := db.CreatePackage(s.db, n)
	if err != nil {
		discard(staged)
		return nil, nil, err
	}

	if err := WriteManifest(filepath.Join(staged, ManifestName), manifestFor(pkg, sourceIncluded, sourcePath)); err != nil {
		warnings = warnf(warnings, "package %q created but manifest write failed: %v", pkg.Name, err)
	}
	if err := promote(staged, pkg.PackagePath); err != nil {
		discard(staged)
		warnings = warnf(warnings, "package %q created but mirror write failed: %v", pkg.Name, err)
	}
	return pkg, warnings, nil
}

// GetPackage returns the package with the given name. A missing package
// is an error.
func (s *Store) GetPackage(name string) (*db.Package, error) {
	return db.GetPackage(s.db, name)
}

// ListPackages returns all packages, most used first.
func (s *Store) ListPackages() ([]db.Package, error) {
	return db.ListPackages(s.db)
}

// SearchPackages matches field against a substring pattern.
func (s *Store) SearchPackages(field, pattern string) ([]db.Package, error) {
	return db.SearchPackages(s.db, field, pattern)
}

// FetchPackage replicates a package's mirror directory into
// dest/<name>, overwriting any previous copy, and bumps the usage
// counter. A copy failure does not fail the retrieval of metadata.
func (s *Store) FetchPackage(name, dest string) (*db.Package, []string, error) {
	pkg, err := db.GetPackage(s.db, name)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	target := filepath.Join(dest, pkg.Name)
	if err := os.RemoveAll(target); err != nil {
		warnings = warnf(warnings, "failed to replace local copy at %s: %v", target, err)
	} else if err := copyTree(pkg.PackagePath, target); err != nil {
		warnings = warnf(warnings, "failed to copy package %q to %s: %v", pkg.Name, target, err)
	}

	if err := db.IncrementPackageUsage(s.db, name); err != nil {
		return nil, warnings, err
	}
	pkg.UsageCount++
	return pkg, warnings, nil
}

// UpdatePackage merges a partial update into the row, moves the mirror
// directory on rename, and rewrites the manifest.
func (s *Store) UpdatePackage(name string, u db.PackageUpdate) (*db.Package, []string, error) {
	before, err := db.GetPackage(s.db, name)
	if err != nil {
		return nil, nil, err
	}

	// A rename relocates the mirror directory, so the row must point at
	// the new paths in the same update.
	if u.Name != nil {
		newName, err := db.ValidatePackageName(*u.Name)
		if err != nil {
			return nil, nil, err
		}
		if newName != before.Name {
			newDir := s.packageDir(newName)
			manifest := s.manifestPath(newName)
			u.PackagePath = &newDir
			u.ManifestPath = &manifest
		}
	}

	pkg, err := db.UpdatePackage(s.db, name, u)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	if pkg.PackagePath != before.PackagePath {
		if err := promote(before.PackagePath, pkg.PackagePath); err != nil {
			warnings = warnf(warnings, "package %q renamed but mirror move failed: %v", pkg.Name, err)
		}
	}
	if err := WriteManifest(pkg.ManifestPath, s.manifestWithMarkers(pkg)); err != nil {
		warnings = warnf(warnings, "package %q updated but manifest write failed: %v", pkg.Name, err)
	}
	return pkg, warnings, nil
}

// manifestWithMarkers rebuilds a manifest from the row, preserving the
// source-copy markers recorded at create time when they are readable.
func (s *Store) manifestWithMarkers(pkg *db.Package) Manifest {
	sourceIncluded := false
	sourceOrigin := ""
	if old, err := ReadManifest(pkg.ManifestPath); err == nil {
		sourceIncluded = old.SourceIncluded
		sourceOrigin = old.SourceOrigin
	}
	return manifestFor(pkg, sourceIncluded, sourceOrigin)
}

// DeletePackage removes the row and then the mirror directory. A
// filesystem failure after the row is gone is reported, not rolled back.
func (s *Store) DeletePackage(name string) ([]string, error) {
	pkg, err := db.GetPackage(s.db, name)
	if err != nil {
		return nil, err
	}

	if err := db.DeletePackage(s.db, name); err != nil {
		return nil, err
	}

	var warnings []string
	if err := os.RemoveAll(pkg.PackagePath); err != nil {
		warnings = warnf(warnings, "package %q deleted but mirror directory remains at %s: %v", name, pkg.PackagePath, err)
	}
	return warnings, nil
}

// IncrementPackageUsage bumps the counter; missing names are a no-op.
func (s *Store) IncrementPackageUsage(name string) error {
	return db.IncrementPackageUsage(s.db, name)
}
