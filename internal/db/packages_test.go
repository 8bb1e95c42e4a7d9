// ABOUTME: Tests for package row operations
// ABOUTME: Validates default substitution, usage ordering, merge updates, and search
package db

import (
	"database/sql"
	"errors"
	"testing"
)

func createTestPackage(t *testing.T, db *sql.DB, n NewPackage) *Package {
	t.Helper()
	if n.Language == "" {
		n.Language = "go"
	}
	if n.PackagePath == "" {
		n.PackagePath = "/store/packages/" + n.Name
	}
	if n.ManifestPath == "" {
		n.ManifestPath = n.PackagePath + "/manifest.json"
	}
	pkg, err := CreatePackage(db, n)
	if err != nil {
		t.Fatalf("CreatePackage failed: %v", err)
	}
	return pkg
}

func bumpUsage(t *testing.T, db *sql.DB, name string, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		if err := IncrementPackageUsage(db, name); err != nil {
			t.Fatalf("IncrementPackageUsage failed: %v", err)
		}
	}
}

func TestCreatePackageDefaults(t *testing.T) {
	db := testDB(t)

	pkg := createTestPackage(t, db, NewPackage{Name: "bare"})

	if pkg.Version != "1.0.0" {
		t.Errorf("got version %s, want 1.0.0", pkg.Version)
	}
	if pkg.Author != "N/A" {
		t.Errorf("got author %s, want N/A", pkg.Author)
	}
	if pkg.Description != nil {
		t.Errorf("got description %v, want nil", *pkg.Description)
	}
	if pkg.Category != nil {
		t.Errorf("got category %v, want nil", *pkg.Category)
	}
	if pkg.UsageCount != 0 {
		t.Errorf("got usage_count %d, want 0", pkg.UsageCount)
	}
}

func TestCreatePackageValidation(t *testing.T) {
	db := testDB(t)

	cases := []struct {
		name string
		in   NewPackage
	}{
		{"empty name", NewPackage{Language: "go", PackagePath: "/p", ManifestPath: "/p/m"}},
		{"empty language", NewPackage{Name: "a", PackagePath: "/p", ManifestPath: "/p/m"}},
		{"empty package path", NewPackage{Name: "a", Language: "go", ManifestPath: "/p/m"}},
		{"empty manifest path", NewPackage{Name: "a", Language: "go", PackagePath: "/p"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreatePackage(db, tc.in)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestCreatePackageConflict(t *testing.T) {
	db := testDB(t)

	createTestPackage(t, db, NewPackage{Name: "dup"})

	_, err := CreatePackage(db, NewPackage{
		Name: "dup", Language: "go",
		PackagePath: "/p", ManifestPath: "/p/m",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM packages WHERE name = 'dup'`).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d rows, want 1", n)
	}
}

func TestGetPackageMissing(t *testing.T) {
	db := testDB(t)

	// Unlike snippets, a missing package is an error.
	_, err := GetPackage(db, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListPackagesOrdering(t *testing.T) {
	db := testDB(t)

	createTestPackage(t, db, NewPackage{Name: "no-usage"})
	createTestPackage(t, db, NewPackage{Name: "high-usage"})
	createTestPackage(t, db, NewPackage{Name: "medium-usage"})
	createTestPackage(t, db, NewPackage{Name: "also-high-usage"})

	bumpUsage(t, db, "high-usage", 3)
	bumpUsage(t, db, "medium-usage", 1)
	bumpUsage(t, db, "also-high-usage", 3)

	packages, err := ListPackages(db)
	if err != nil {
		t.Fatalf("ListPackages failed: %v", err)
	}

	want := []string{"also-high-usage", "high-usage", "medium-usage", "no-usage"}
	if len(packages) != len(want) {
		t.Fatalf("got %d packages, want %d", len(packages), len(want))
	}
	for i, name := range want {
		if packages[i].Name != name {
			t.Errorf("position %d: got %s, want %s", i, packages[i].Name, name)
		}
	}
}

func TestListPackagesOrderingAllZero(t *testing.T) {
	db := testDB(t)

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		createTestPackage(t, db, NewPackage{Name: name})
	}

	packages, err := ListPackages(db)
	if err != nil {
		t.Fatalf("ListPackages failed: %v", err)
	}

	want := []string{"alpha", "bravo", "charlie"}
	for i, name := range want {
		if packages[i].Name != name {
			t.Errorf("position %d: got %s, want %s", i, packages[i].Name, name)
		}
	}
}

func TestUpdatePackage(t *testing.T) {
	db := testDB(t)

	desc := "a package"
	created := createTestPackage(t, db, NewPackage{
		Name: "subject", Description: desc, Category: "tools",
	})
	bumpUsage(t, db, "subject", 2)

	t.Run("partial update preserves untouched fields", func(t *testing.T) {
		version := "2.0.0"
		pkg, err := UpdatePackage(db, "subject", PackageUpdate{Version: &version})
		if err != nil {
			t.Fatalf("UpdatePackage failed: %v", err)
		}
		if pkg.Version != "2.0.0" {
			t.Errorf("got version %s, want 2.0.0", pkg.Version)
		}
		if pkg.Name != "subject" || pkg.Language != "go" {
			t.Errorf("untouched fields changed: %+v", pkg)
		}
		if pkg.Description == nil || *pkg.Description != desc {
			t.Errorf("description changed: %v", pkg.Description)
		}
		if pkg.Category == nil || *pkg.Category != "tools" {
			t.Errorf("category changed: %v", pkg.Category)
		}
		if pkg.UsageCount != 2 {
			t.Errorf("got usage_count %d, want 2", pkg.UsageCount)
		}
		if pkg.ID != created.ID {
			t.Errorf("got id %d, want %d", pkg.ID, created.ID)
		}
	})

	t.Run("empty name is rejected and row unchanged", func(t *testing.T) {
		before, _ := GetPackage(db, "subject")
		empty := ""
		_, err := UpdatePackage(db, "subject", PackageUpdate{Name: &empty})
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("got %v, want ErrInvalid", err)
		}
		after, _ := GetPackage(db, "subject")
		if after.Name != before.Name || after.Version != before.Version {
			t.Errorf("row changed after rejected update: %+v", after)
		}
	})

	t.Run("empty version is rejected", func(t *testing.T) {
		empty := ""
		_, err := UpdatePackage(db, "subject", PackageUpdate{Version: &empty})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("got %v, want ErrInvalid", err)
		}
	})

	t.Run("rename to taken name conflicts", func(t *testing.T) {
		createTestPackage(t, db, NewPackage{Name: "occupied"})
		taken := "occupied"
		_, err := UpdatePackage(db, "subject", PackageUpdate{Name: &taken})
		if !errors.Is(err, ErrConflict) {
			t.Errorf("got %v, want ErrConflict", err)
		}
	})

	t.Run("missing package does not exist", func(t *testing.T) {
		version := "3.0.0"
		_, err := UpdatePackage(db, "missing", PackageUpdate{Version: &version})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})
}

func TestDeletePackage(t *testing.T) {
	db := testDB(t)

	createTestPackage(t, db, NewPackage{Name: "gone"})

	if err := DeletePackage(db, "gone"); err != nil {
		t.Fatalf("DeletePackage failed: %v", err)
	}
	if _, err := GetPackage(db, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound after delete", err)
	}
	if err := DeletePackage(db, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestIncrementPackageUsageIsolation(t *testing.T) {
	db := testDB(t)

	createTestPackage(t, db, NewPackage{Name: "a"})
	createTestPackage(t, db, NewPackage{Name: "b"})

	bumpUsage(t, db, "a", 5)

	a, err := GetPackage(db, "a")
	if err != nil {
		t.Fatalf("GetPackage failed: %v", err)
	}
	if a.UsageCount != 5 {
		t.Errorf("got usage_count %d for a, want 5", a.UsageCount)
	}

	b, err := GetPackage(db, "b")
	if err != nil {
		t.Fatalf("GetPackage failed: %v", err)
	}
	if b.UsageCount != 0 {
		t.Errorf("got usage_count %d for b, want 0", b.UsageCount)
	}

	t.Run("missing name is a silent no-op", func(t *testing.T) {
		if err := IncrementPackageUsage(db, "missing"); err != nil {
			t.Fatalf("got error %v, want nil", err)
		}
		if _, err := GetPackage(db, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("increment created a row: %v", err)
		}
	})
}

func TestSearchPackages(t *testing.T) {
	db := testDB(t)

	createTestPackage(t, db, NewPackage{Name: "react-components", Category: "frontend"})
	createTestPackage(t, db, NewPackage{Name: "vue-utilities", Category: "frontend"})
	createTestPackage(t, db, NewPackage{Name: "backend-helpers", Category: "backend"})

	results, err := SearchPackages(db, "category", "frontend")
	if err != nil {
		t.Fatalf("SearchPackages failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Name != "react-components" || results[1].Name != "vue-utilities" {
		t.Errorf("got order %s, %s; want name ascending", results[0].Name, results[1].Name)
	}

	t.Run("no matches is an empty result, not an error", func(t *testing.T) {
		results, err := SearchPackages(db, "name", "nothing-here")
		if err != nil {
			t.Fatalf("got error %v, want nil", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, want 0", len(results))
		}
	})

	t.Run("unknown field is invalid input", func(t *testing.T) {
		_, err := SearchPackages(db, "author", "x")
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("got %v, want ErrInvalid", err)
		}
	})
}
