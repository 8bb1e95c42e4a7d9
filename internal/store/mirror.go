// ABOUTME: Filesystem mirror primitives for the store
// ABOUTME: Snippet file paths, package directories, staging, and tree copies
package store

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Mirror layout under the store root.
const (
	snippetsDir = "snippets"
	packagesDir = "packages"
	stagingDir  = ".staging"
)

// extensions maps languages to snippet file extensions. Unknown languages
// fall back to .txt.
var extensions = map[string]string{
	"go":         ".go",
	"python":     ".py",
	"javascript": ".js",
	"typescript": ".ts",
	"rust":       ".rs",
	"ruby":       ".rb",
	"java":       ".java",
	"c":          ".c",
	"cpp":        ".cpp",
	"shell":      ".sh",
	"bash":       ".sh",
	"sql":        ".sql",
	"html":       ".html",
	"css":        ".css",
	"json":       ".json",
	"yaml":       ".yaml",
	"toml":       ".toml",
	"markdown":   ".md",
}

func snippetExt(language string) string {
	if ext, ok := extensions[language]; ok {
		return ext
	}
	return ".txt"
}

// snippetPath derives the mirror file for a snippet from its identity.
func (s *Store) snippetPath(name, language string) string {
	return filepath.Join(s.root, snippetsDir, name+snippetExt(language))
}

// packageDir derives the mirror directory for a package.
func (s *Store) packageDir(name string) string {
	return filepath.Join(s.root, packagesDir, name)
}

func (s *Store) manifestPath(name string) string {
	return filepath.Join(s.packageDir(name), ManifestName)
}

// stagePath returns a fresh path under the staging area. Staged artifacts
// are promoted with a rename after the database commit.
func (s *Store) stagePath() string {
	return filepath.Join(s.root, stagingDir, uuid.New().String())
}

// promote moves a staged artifact into its final place, replacing any
// previous artifact of the same name.
func promote(staged, final string) error {
	if err := os.MkdirAll(filepath.Dir(final), 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
		return err
	}
	if err := os.RemoveAll(final); err != nil {
		return err
	}
	return os.Rename(staged, final)
}

// writeStagedFile writes data to a fresh staging path and returns it.
func (s *Store) writeStagedFile(data []byte) (string, error) {
	staged := s.stagePath()
	if err := os.MkdirAll(filepath.Dir(staged), 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
		return "", err
	}
	if err := os.WriteFile(staged, data, 0644); err != nil { //nolint:gosec // Snippet content is user data, not a secret
		return "", err
	}
	return staged, nil
}

// copyTree recursively copies the directory at src into dst. dst is
// created; existing files under it are overwritten.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755) //nolint:gosec // Standard directory permissions for user data
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// discard removes a staged artifact after a failed commit.
func discard(staged string) {
	_ = os.RemoveAll(staged)
}
