// ABOUTME: Consistency checks between database rows and filesystem mirrors
// ABOUTME: Detects orphans and gaps left by crashes between the two writes
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/seanblair/codepac/internal/db"
)

// Report lists every mismatch between rows and mirror artifacts. The two
// backends share no transaction, so a crash between them can leave any of
// these behind.
type Report struct {
	MissingSnippetFiles []string // snippet rows without a mirror file
	OrphanSnippetFiles  []string // mirror files without a row
	MissingPackageDirs  []string // package rows without a mirror directory
	MissingManifests    []string // package rows whose manifest file is gone
	OrphanPackageDirs   []string // mirror directories without a row
	StaleStaging        []string // leftover staged artifacts
}

// Clean reports whether the store is fully consistent.
func (r *Report) Clean() bool {
	return len(r.MissingSnippetFiles) == 0 &&
		len(r.OrphanSnippetFiles) == 0 &&
		len(r.MissingPackageDirs) == 0 &&
		len(r.MissingManifests) == 0 &&
		len(r.OrphanPackageDirs) == 0 &&
		len(r.StaleStaging) == 0
}

// Verify compares every row against its mirror artifact and scans the
// mirror tree for artifacts with no row.
func (s *Store) Verify() (*Report, error) {
	report := &Report{}

	snippets, err := db.ListSnippets(s.db, 0)
	if err != nil {
		return nil, err
	}
	expectedFiles := make(map[string]bool, len(snippets))
	for _, snip := range snippets {
		path := s.snippetPath(snip.Name, snip.Language)
		expectedFiles[filepath.Base(path)] = true
		if _, err := os.Stat(path); err != nil {
			report.MissingSnippetFiles = append(report.MissingSnippetFiles, snip.Name)
		}
	}

	entries, err := os.ReadDir(filepath.Join(s.root, snippetsDir))
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, entry := range entries {
		if !expectedFiles[entry.Name()] {
			report.OrphanSnippetFiles = append(report.OrphanSnippetFiles, entry.Name())
		}
	}

	packages, err := db.ListPackages(s.db)
	if err != nil {
		return nil, err
	}
	expectedDirs := make(map[string]bool, len(packages))
	for _, pkg := range packages {
		expectedDirs[filepath.Base(pkg.PackagePath)] = true
		if _, err := os.Stat(pkg.PackagePath); err != nil {
			report.MissingPackageDirs = append(report.MissingPackageDirs, pkg.Name)
			continue
		}
		if _, err := os.Stat(pkg.ManifestPath); err != nil {
			report.MissingManifests = append(report.MissingManifests, pkg.Name)
		}
	}

	entries, err = os.ReadDir(filepath.Join(s.root, packagesDir))
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, entry := range entries {
		if !expectedDirs[entry.Name()] {
			report.OrphanPackageDirs = append(report.OrphanPackageDirs, entry.Name())
		}
	}

	entries, err = os.ReadDir(filepath.Join(s.root, stagingDir))
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, entry := range entries {
		report.StaleStaging = append(report.StaleStaging, entry.Name())
	}

	return report, nil
}

// Repair fixes everything Verify found: mirror files and manifests are
// rebuilt from rows, orphans and staging debris are removed. Returns a
// description of each action taken.
func (s *Store) Repair(report *Report) ([]string, error) {
	var actions []string

	for _, name := range report.MissingSnippetFiles {
		snip, err := db.GetSnippet(s.db, name)
		if err != nil {
			return actions, err
		}
		if snip == nil {
			continue
		}
		path := s.snippetPath(snip.Name, snip.Language)
		if err := os.WriteFile(path, []byte(snip.Content), 0644); err != nil { //nolint:gosec // Snippet content is user data, not a secret
			return actions, err
		}
		actions = append(actions, fmt.Sprintf("rebuilt snippet file for %q", name))
	}

	for _, file := range report.OrphanSnippetFiles {
		if err := os.Remove(filepath.Join(s.root, snippetsDir, file)); err != nil {
			return actions, err
		}
		actions = append(actions, fmt.Sprintf("removed orphan snippet file %s", file))
	}

	for _, name := range report.MissingPackageDirs {
		pkg, err := db.GetPackage(s.db, name)
		if err != nil {
			return actions, err
		}
		if err := os.MkdirAll(pkg.PackagePath, 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
			return actions, err
		}
		if err := WriteManifest(pkg.ManifestPath, manifestFor(pkg, false, "")); err != nil {
			return actions, err
		}
		actions = append(actions, fmt.Sprintf("rebuilt package directory for %q (source files are not recoverable)", name))
	}

	for _, name := range report.MissingManifests {
		pkg, err := db.GetPackage(s.db, name)
		if err != nil {
			return actions, err
		}
		if err := WriteManifest(pkg.ManifestPath, manifestFor(pkg, false, "")); err != nil {
			return actions, err
		}
		actions = append(actions, fmt.Sprintf("rebuilt manifest for %q", name))
	}

	for _, dir := range report.OrphanPackageDirs {
		if err := os.RemoveAll(filepath.Join(s.root, packagesDir, dir)); err != nil {
			return actions, err
		}
		actions = append(actions, fmt.Sprintf("removed orphan package directory %s", dir))
	}

	for _, entry := range report.StaleStaging {
		if err := os.RemoveAll(filepath.Join(s.root, stagingDir, entry)); err != nil {
			return actions, err
		}
		actions = append(actions, fmt.Sprintf("removed stale staging entry %s", entry))
	}

	return actions, nil
}
