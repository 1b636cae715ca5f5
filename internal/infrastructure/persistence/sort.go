package persistence

import (
	"strings"
)

// sanitizeSortOrder normalizes the sort direction to ASC or DESC.
// Anything other than "asc" falls back to DESC.
func sanitizeSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// sanitizeSortField checks the requested field against the entity's
// allowed columns. Unknown or empty input falls back to created_at so
// caller-supplied values never reach the ORDER BY clause verbatim.
func sanitizeSortField(field string, allowed map[string]bool) string {
	trimmed := strings.TrimSpace(field)
	if allowed[trimmed] {
		return trimmed
	}
	return "created_at"
}

// studentSortFields contains allowed sort columns for students.
var studentSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"first_name":  true,
	"last_name":   true,
	"email":       true,
	"enrolled_at": true,
}

// courseSortFields contains allowed sort columns for courses.
var courseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"credits":    true,
}
