// ABOUTME: Database schema definitions
// ABOUTME: SQL for the snippets and packages tables and their indexes
package db

const schema = `
CREATE TABLE IF NOT EXISTS snippets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    description TEXT,
    language TEXT NOT NULL,
    category TEXT,
    content TEXT NOT NULL,
    usage_count INTEGER NOT NULL DEFAULT 0,
    online_id TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS packages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    version TEXT NOT NULL DEFAULT '1.0.0',
    description TEXT,
    author TEXT NOT NULL DEFAULT 'N/A',
    language TEXT NOT NULL,
    category TEXT,
    package_path TEXT NOT NULL,
    manifest_path TEXT NOT NULL,
    usage_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets(language);
CREATE INDEX IF NOT EXISTS idx_packages_usage ON packages(usage_count DESC, name ASC);
CREATE INDEX IF NOT EXISTS idx_packages_category ON packages(category);
`
