// ABOUTME: Shared input validation for snippet and package names
// ABOUTME: Names become mirror path components, so path metacharacters are rejected
package db

import "strings"

// validateName trims and checks a name destined for a unique column and a
// mirror path component. Returns the trimmed name.
func validateName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("%s name cannot be empty", kind)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", invalid("%s name %q cannot be used as a path component", kind, name)
	}
	return name, nil
}

// ValidatePackageName checks a package name the way create and update do.
// Exported for the storage manager, which derives mirror paths from the
// name before the row exists.
func ValidatePackageName(name string) (string, error) {
	return validateName("package", name)
}
