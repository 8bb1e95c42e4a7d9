// ABOUTME: Package row operations
// ABOUTME: Create with default substitution, lookup, usage-ordered listing, merge-update, delete, search
package db

import (
	"database/sql"
	"strings"
	"time"
)

// Defaults substituted when a package is created without these fields.
const (
	DefaultVersion = "1.0.0"
	DefaultAuthor  = "N/A"
)

// Package is a row in the packages table.
type Package struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Description  *string   `json:"description"`
	Author       string    `json:"author"`
	Language     string    `json:"language"`
	Category     *string   `json:"category"`
	PackagePath  string    `json:"package_path"`
	ManifestPath string    `json:"manifest_path"`
	UsageCount   int64     `json:"usage_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPackage holds caller-supplied fields for a create. Empty Version and
// Author fall back to the defaults; empty Description/Category are stored
// as NULL.
type NewPackage struct {
	Name         string
	Version      string
	Description  string
	Author       string
	Language     string
	Category     string
	PackagePath  string
	ManifestPath string
}

// PackageUpdate carries partial updates. A nil field means "leave
// unchanged". Unlike snippets, there is no way to clear a package field
// back to NULL through update.
type PackageUpdate struct {
	Name         *string
	Version      *string
	Description  *string
	Author       *string
	Language     *string
	Category     *string
	PackagePath  *string
	ManifestPath *string
}

const packageColumns = `id, name, version, description, author, language, category, package_path, manifest_path, usage_count, created_at, updated_at`

func scanPackage(row interface{ Scan(...any) error }) (*Package, error) {
	var p Package
	var description, category sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Version, &description, &p.Author,
		&p.Language, &category, &p.PackagePath, &p.ManifestPath,
		&p.UsageCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	if category.Valid {
		p.Category = &category.String
	}
	return &p, nil
}

// CreatePackage inserts a new package and returns the stored row.
func CreatePackage(db *sql.DB, n NewPackage) (*Package, error) {
	name, err := validateName("package", n.Name)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(n.Language) == "" {
		return nil, invalid("package language cannot be empty")
	}
	if n.PackagePath == "" {
		return nil, invalid("package path cannot be empty")
	}
	if n.ManifestPath == "" {
		return nil, invalid("package manifest path cannot be empty")
	}

	taken, err := packageExists(db, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("package", name)
	}

	version := n.Version
	if strings.TrimSpace(version) == "" {
		version = DefaultVersion
	}
	author := n.Author
	if strings.TrimSpace(author) == "" {
		author = DefaultAuthor
	}

	now := time.Now().UTC()
	result, err := db.Exec(
		`INSERT INTO packages (name, version, description, author, language, category, package_path, manifest_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name, version, nullable(n.Description), author, strings.TrimSpace(n.Language),
		nullable(n.Category), n.PackagePath, n.ManifestPath, now, now,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return packageByID(db, id)
}

// GetPackage looks up a package by exact name. Unlike snippets, a missing
// package is an error, not a nil result.
func GetPackage(db *sql.DB, name string) (*Package, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalid("package name cannot be empty")
	}

	row := db.QueryRow(`SELECT `+packageColumns+` FROM packages WHERE name = ?`, name)
	p, err := scanPackage(row)
	if err == sql.ErrNoRows {
		return nil, notFound("package", name)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func packageByID(db *sql.DB, id int64) (*Package, error) {
	row := db.QueryRow(`SELECT `+packageColumns+` FROM packages WHERE id = ?`, id)
	return scanPackage(row)
}

func packageExists(db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM packages WHERE name = ?`, name).Scan(&n)
	return n > 0, err
}

// ListPackages returns all packages, most used first, names breaking ties.
func ListPackages(db *sql.DB) ([]Package, error) {
	rows, err := db.Query(`SELECT ` + packageColumns + ` FROM packages ORDER BY usage_count DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPackages(rows)
}

func collectPackages(rows *sql.Rows) ([]Package, error) {
	var packages []Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *p)
	}
	return packages, rows.Err()
}

// UpdatePackage applies a partial update to the package with the given
// name. Empty name or version is rejected without touching the row;
// usage_count and id are immutable.
func UpdatePackage(db *sql.DB, name string, u PackageUpdate) (*Package, error) {
	existing, err := GetPackage(db, name)
	if err != nil {
		return nil, err
	}

	newName := existing.Name
	if u.Name != nil {
		newName, err = validateName("package", *u.Name)
		if err != nil {
			return nil, err
		}
		if newName != existing.Name {
			taken, err := packageExists(db, newName)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, conflict("package", newName)
			}
		}
	}

	version := existing.Version
	if u.Version != nil {
		version = strings.TrimSpace(*u.Version)
		if version == "" {
			return nil, invalid("package version cannot be empty")
		}
	}

	author := existing.Author
	if u.Author != nil && *u.Author != "" {
		author = *u.Author
	}
	language := existing.Language
	if u.Language != nil && *u.Language != "" {
		language = *u.Language
	}
	description := existing.Description
	if u.Description != nil && *u.Description != "" {
		description = u.Description
	}
	category := existing.Category
	if u.Category != nil && *u.Category != "" {
		category = u.Category
	}
	packagePath := existing.PackagePath
	if u.PackagePath != nil && *u.PackagePath != "" {
		packagePath = *u.PackagePath
	}
	manifestPath := existing.ManifestPath
	if u.ManifestPath != nil && *u.ManifestPath != "" {
		manifestPath = *u.ManifestPath
	}

	_, err = db.Exec(
		`UPDATE packages
		 SET name = ?, version = ?, description = ?, author = ?, language = ?, category = ?,
		     package_path = ?, manifest_path = ?, updated_at = ?
		 WHERE id = ?`,
		newName, version, nullableDeref(description), author, language,
		nullableDeref(category), packagePath, manifestPath, time.Now().UTC(), existing.ID,
	)
	if err != nil {
		return nil, err
	}

	return packageByID(db, existing.ID)
}

// DeletePackage removes the row for name.
func DeletePackage(db *sql.DB, name string) error {
	result, err := db.Exec(`DELETE FROM packages WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("package", name)
	}
	return nil
}

// IncrementPackageUsage adds one to the usage counter. A missing name is
// a silent no-op.
func IncrementPackageUsage(db *sql.DB, name string) error {
	_, err := db.Exec(`UPDATE packages SET usage_count = usage_count + 1 WHERE name = ?`, name)
	return err
}

// SearchPackages matches field against a substring pattern, most used
// first, names breaking ties. No matches is an empty result, not an error.
func SearchPackages(db *sql.DB, field, pattern string) ([]Package, error) {
	column, err := searchColumn(field)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT `+packageColumns+` FROM packages WHERE `+column+` LIKE '%' || ? || '%'
		 ORDER BY usage_count DESC, name ASC`,
		pattern,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPackages(rows)
}
