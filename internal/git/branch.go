// Package git provides Git and GitHub CLI operations for prflow.
// This file provides branch naming utilities.
package git

import (
	"fmt"
	"regexp"
	"strings"
)

// branchNameRegex is used to sanitize branch names.
// It matches any character that is NOT a lowercase letter, digit, or hyphen.
var branchNameRegex = regexp.MustCompile(`[^a-z0-9-]+`)

// SanitizeBranchName sanitizes a branch name by:
// - Converting to lowercase
// - Replacing non-alphanumeric characters with hyphens
// - Trimming leading/trailing hyphens
// - Collapsing consecutive hyphens
//
// Example: "Fix login bug!" -> "fix-login-bug"
func SanitizeBranchName(name string) string {
	name = strings.ToLower(name)
	name = branchNameRegex.ReplaceAllString(name, "-")
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	return strings.Trim(name, "-")
}

// GenerateBranchName creates a branch name from a prefix and a free-form
// description. The format is "{prefix}/{sanitized-description}".
//
// Example: GenerateBranchName("feat", "Add OAuth flow") -> "feat/add-oauth-flow"
func GenerateBranchName(prefix, description string) string {
	sanitized := SanitizeBranchName(description)
	if sanitized == "" {
		sanitized = "unnamed"
	}
	// Keep generated names short enough to double as directory names.
	const maxLen = 48
	if len(sanitized) > maxLen {
		sanitized = strings.Trim(sanitized[:maxLen], "-")
	}
	return fmt.Sprintf("%s/%s", prefix, sanitized)
}
