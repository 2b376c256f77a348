package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// OptionalQueryString returns the trimmed query value, or "" when absent.
func OptionalQueryString(r *http.Request, key string, maxLen int) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if maxLen > 0 && len(raw) > maxLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter too long").WithDetails(map[string]any{"field": key, "max": maxLen})
	}
	return raw, nil
}

// PathParam trims a router path value and rejects empty values.
func PathParam(key, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "path parameter required").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
