// ABOUTME: Snippet row operations
// ABOUTME: Create, lookup, list, merge-update, delete, search, and usage tracking
package db

import (
	"database/sql"
	"strings"
	"time"
)

// Snippet is a row in the snippets table. Description, Category, and
// OnlineID are nil when the column is NULL.
type Snippet struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Language    string    `json:"language"`
	Category    *string   `json:"category"`
	Content     string    `json:"content"`
	UsageCount  int64     `json:"usage_count"`
	OnlineID    *string   `json:"online_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSnippet holds the caller-supplied fields for a create. Empty
// Description/Category are stored as NULL.
type NewSnippet struct {
	Name        string
	Description string
	Language    string
	Category    string
	Content     string
}

// SnippetUpdate carries partial updates. A nil field means "leave
// unchanged". A non-nil empty Description or Category clears the column;
// a non-nil empty Name, Language, or Content is rejected.
type SnippetUpdate struct {
	Name        *string
	Description *string
	Language    *string
	Category    *string
	Content     *string
}

const snippetColumns = `id, name, description, language, category, content, usage_count, online_id, created_at, updated_at`

func scanSnippet(row interface{ Scan(...any) error }) (*Snippet, error) {
	var s Snippet
	var description, category, onlineID sql.NullString
	err := row.Scan(&s.ID, &s.Name, &description, &s.Language, &category,
		&s.Content, &s.UsageCount, &onlineID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		s.Description = &description.String
	}
	if category.Valid {
		s.Category = &category.String
	}
	if onlineID.Valid {
		s.OnlineID = &onlineID.String
	}
	return &s, nil
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateSnippet inserts a new snippet and returns the stored row.
func CreateSnippet(db *sql.DB, n NewSnippet) (*Snippet, error) {
	name, err := validateName("snippet", n.Name)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(n.Language) == "" {
		return nil, invalid("snippet language cannot be empty")
	}
	if n.Content == "" {
		return nil, invalid("snippet content cannot be empty")
	}

	taken, err := snippetExists(db, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("snippet", name)
	}

	now := time.Now().UTC()
	result, err := db.Exec(
		`INSERT INTO snippets (name, description, language, category, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		name, nullable(n.Description), strings.TrimSpace(n.Language), nullable(n.Category), n.Content, now, now,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return snippetByID(db, id)
}

// GetSnippet looks up a snippet by exact name. A missing row is not an
// error: the caller gets (nil, nil).
func GetSnippet(db *sql.DB, name string) (*Snippet, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalid("snippet name cannot be empty")
	}

	row := db.QueryRow(`SELECT `+snippetColumns+` FROM snippets WHERE name = ?`, name)
	s, err := scanSnippet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func snippetByID(db *sql.DB, id int64) (*Snippet, error) {
	row := db.QueryRow(`SELECT `+snippetColumns+` FROM snippets WHERE id = ?`, id)
	return scanSnippet(row)
}

func snippetExists(db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM snippets WHERE name = ?`, name).Scan(&n)
	return n > 0, err
}

// ListSnippets returns snippets in insertion order. A limit <= 0 means all.
func ListSnippets(db *sql.DB, limit int) ([]Snippet, error) {
	query := `SELECT ` + snippetColumns + ` FROM snippets ORDER BY id ASC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSnippets(rows)
}

func collectSnippets(rows *sql.Rows) ([]Snippet, error) {
	var snippets []Snippet
	for rows.Next() {
		s, err := scanSnippet(rows)
		if err != nil {
			return nil, err
		}
		snippets = append(snippets, *s)
	}
	return snippets, rows.Err()
}

// UpdateSnippet applies a partial update to the snippet with the given
// name. Fields left nil are untouched; usage_count, id, and online_id
// always survive unchanged.
func UpdateSnippet(db *sql.DB, name string, u SnippetUpdate) (*Snippet, error) {
	existing, err := GetSnippet(db, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound("snippet", name)
	}

	newName := existing.Name
	if u.Name != nil {
		newName, err = validateName("snippet", *u.Name)
		if err != nil {
			return nil, err
		}
		if newName != existing.Name {
			taken, err := snippetExists(db, newName)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, conflict("snippet", newName)
			}
		}
	}

	language := existing.Language
	if u.Language != nil {
		language = strings.TrimSpace(*u.Language)
		if language == "" {
			return nil, invalid("snippet language cannot be empty")
		}
	}

	content := existing.Content
	if u.Content != nil {
		content = *u.Content
		if content == "" {
			return nil, invalid("snippet content cannot be empty")
		}
	}

	// An explicit empty string clears description/category; nil leaves
	// the stored value alone.
	description := existing.Description
	if u.Description != nil {
		description = u.Description
	}
	category := existing.Category
	if u.Category != nil {
		category = u.Category
	}

	_, err = db.Exec(
		`UPDATE snippets
		 SET name = ?, description = ?, language = ?, category = ?, content = ?, updated_at = ?
		 WHERE id = ?`,
		newName, nullableDeref(description), language, nullableDeref(category), content,
		time.Now().UTC(), existing.ID,
	)
	if err != nil {
		return nil, err
	}

	return snippetByID(db, existing.ID)
}

func nullableDeref(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// DeleteSnippet removes the row for name.
func DeleteSnippet(db *sql.DB, name string) error {
	result, err := db.Exec(`DELETE FROM snippets WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("snippet", name)
	}
	return nil
}

// IncrementSnippetUsage adds one to the usage counter. A missing name is
// a silent no-op: usage tracking must never break a caller's flow.
func IncrementSnippetUsage(db *sql.DB, name string) error {
	_, err := db.Exec(`UPDATE snippets SET usage_count = usage_count + 1 WHERE name = ?`, name)
	return err
}

// SearchSnippets matches field against a substring pattern, most used
// first, names breaking ties.
func SearchSnippets(db *sql.DB, field, pattern string) ([]Snippet, error) {
	column, err := searchColumn(field)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT `+snippetColumns+` FROM snippets WHERE `+column+` LIKE '%' || ? || '%'
		 ORDER BY usage_count DESC, name ASC`,
		pattern,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSnippets(rows)
}

// searchColumn whitelists searchable columns. The field name is user
// input and never reaches the SQL text unchecked.
func searchColumn(field string) (string, error) {
	switch field {
	case "name", "description", "category":
		return field, nil
	}
	return "", invalid("cannot search by field %q (use name, description, or category)", field)
}
