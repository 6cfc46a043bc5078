package application

import (
	"fmt"
	"net/url"
	"strings"

	"sceneforge/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "targetURI" -> "target URI")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"uri":        "scene URI",
		"targetURI":  "target URI",
		"parentName": "parent name",
		"nodeName":   "node name",
		"newName":    "new name",
		"dir":        "directory",
		"query":      "query",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateURI checks that value parses as an absolute URI
func ValidateURI(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme == "" && !strings.HasPrefix(u.Path, "/")) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected absolute %s, got: %s", formatFieldName(fieldName), value),
		}
	}
	return nil
}

// ValidateDefinition checks the structural rules of a scene document:
// exactly one of inherits and root, and well-formed components.
func ValidateDefinition(uri string, p *domain.PersistedScene) error {
	hasInherits := p.Inherits != ""
	hasRoot := p.Root != ""

	switch {
	case hasInherits && hasRoot:
		return &LoadError{Kind: LoadErrorInvalidDefinition, URI: uri,
			Err: fmt.Errorf("both inherits and root are set")}
	case !hasInherits && !hasRoot:
		return &LoadError{Kind: LoadErrorInvalidDefinition, URI: uri,
			Err: fmt.Errorf("one of inherits or root is required")}
	}

	for name, rec := range p.Entities {
		if name == "" {
			return &LoadError{Kind: LoadErrorInvalidDefinition, URI: uri,
				Err: fmt.Errorf("entity with empty name")}
		}
		for _, def := range rec.Components {
			if _, err := def.Component(); err != nil {
				return &LoadError{Kind: LoadErrorInvalidDefinition, URI: uri,
					Err: fmt.Errorf("entity %s: %w", name, err)}
			}
		}
	}
	return nil
}
