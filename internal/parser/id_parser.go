package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var idRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9._:/-]*$`)

// NormalizeID trims and upper-cases a model or project identifier.
// Accepts formats like:
// - "gpt-4o" -> "GPT-4O"
// - " proj_12 " -> "PROJ_12"
// Returns error if the identifier is empty or contains spaces/symbols
func NormalizeID(field, raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if id == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	if !idRegex.MatchString(id) {
		return "", fmt.Errorf("invalid %s '%s'. Use letters, digits and - _ . : /", field, raw)
	}
	return id, nil
}

// IsValidID checks if a string would normalize cleanly
func IsValidID(raw string) bool {
	_, err := NormalizeID("id", raw)
	return err == nil
}
